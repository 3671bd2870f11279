package sanitizer

import (
	"regexp"
	"strings"
)

// Directives holds the metadata a model embeds as HTML comments.
// Empty strings mean the directive was absent.
type Directives struct {
	Subject string
	Changes string
}

// Matcher locates directives and document boundaries inside model output.
type Matcher interface {
	// ExtractDirectives returns the first SUBJECT and CHANGES values found in raw.
	ExtractDirectives(raw string) Directives

	// StripDirectives removes every directive comment together with the
	// whitespace that follows it.
	StripDirectives(text string) string

	// LocateDocument returns the minimal substring of text that forms the
	// email document. It fails with ErrNoHTML when no start marker exists.
	LocateDocument(text string) (string, error)
}

var (
	subjectRegex = regexp.MustCompile(`(?i)<!--\s*SUBJECT:\s*(.+?)\s*-->`)
	changesRegex = regexp.MustCompile(`(?is)<!--\s*CHANGES:\s*(.+?)\s*-->`)

	// Removal crosses line breaks, so it covers every comment the
	// extraction patterns can match.
	subjectCommentRegex = regexp.MustCompile(`(?is)<!--\s*SUBJECT:.+?-->\s*`)
	changesCommentRegex = regexp.MustCompile(`(?is)<!--\s*CHANGES:.+?-->\s*`)
)

// RegexMatcher implements Matcher with regular expressions and
// ASCII case-insensitive substring search.
type RegexMatcher struct{}

// NewRegexMatcher returns the default Matcher.
func NewRegexMatcher() RegexMatcher {
	return RegexMatcher{}
}

func (RegexMatcher) ExtractDirectives(raw string) Directives {
	return Directives{
		Subject: firstGroup(subjectRegex, raw),
		Changes: firstGroup(changesRegex, raw),
	}
}

func (RegexMatcher) StripDirectives(text string) string {
	text = subjectCommentRegex.ReplaceAllString(text, "")
	return changesCommentRegex.ReplaceAllString(text, "")
}

func (RegexMatcher) LocateDocument(text string) (string, error) {
	lower := lowerASCII(text)

	start := strings.Index(lower, "<!doctype")
	if start == -1 {
		start = strings.Index(lower, "<html")
	}

	if start == -1 {
		// Table-only fragments are valid email bodies.
		start = strings.Index(lower, "<table")
		if start == -1 {
			return "", ErrNoHTML
		}
		return cutAfterLast(text, lower, start, "</table>"), nil
	}

	return cutAfterLast(text, lower, start, "</html>", "</body>", "</table>"), nil
}

// cutAfterLast returns text[start:end] where end follows the last occurrence of
// the first closing tag (in priority order) present after start.
// When none is present the tail is kept.
func cutAfterLast(text, lower string, start int, closers ...string) string {
	for _, closer := range closers {
		if idx := strings.LastIndex(lower[start:], closer); idx != -1 {
			return text[start : start+idx+len(closer)]
		}
	}
	return text[start:]
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// lowerASCII lowercases only ASCII letters so byte offsets stay aligned with the input.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
