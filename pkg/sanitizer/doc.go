// Package sanitizer turns raw language-model output into a render-ready HTML
// email document plus the metadata the model embedded alongside it.
//
// Models are asked to answer with a single HTML document preceded by directive
// comments:
//
//	<!-- SUBJECT: 🎉 Welcome aboard! -->
//	<!-- CHANGES: • Made the header blue • Added a footer -->
//	<!DOCTYPE html>
//	<html>...</html>
//
// In practice the answer also contains markdown fences, "Here's your email:"
// preambles and "Let me know if..." postambles. Sanitize removes all of that:
//
//	doc, err := sanitizer.Sanitize(raw)
//	if errors.Is(err, sanitizer.ErrNoHTML) {
//		// ask the user to retry with a more specific prompt
//	}
//	fmt.Println(doc.Subject, doc.HTML)
//
// # Pipeline
//
//  1. Directives (SUBJECT, CHANGES) are extracted from the original text.
//  2. Directive comments and leading/trailing markdown fences are stripped.
//  3. The text is trimmed to the document boundary: the first <!doctype or
//     <html (falling back to <table) up to the last </html>, </body> or
//     </table>, in that priority order.
//  4. Stray fences left inside the body are removed.
//  5. Anchors without a target attribute get target="_blank" and
//     rel="noopener noreferrer".
//
// Directive extraction and boundary detection sit behind the Matcher
// interface. RegexMatcher is the default implementation and can be replaced
// with New(WithMatcher(m)) without touching callers.
//
// # Error handling
//
// The pipeline either returns a complete Document or fails with ErrNoHTML.
// There is no partial result.
package sanitizer
