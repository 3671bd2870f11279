package sanitizer

import "strings"

// Document is the sanitized model output.
// Empty Subject or Changes means the model did not emit that directive.
type Document struct {
	HTML    string
	Subject string
	Changes string
}

// HasSubject reports whether the model supplied a subject line.
func (d Document) HasSubject() bool {
	return d.Subject != ""
}

// Sanitizer cleans model output. The zero value is not usable; use New.
type Sanitizer struct {
	matcher      Matcher
	rewriteLinks bool
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithMatcher replaces the default regex matcher.
func WithMatcher(m Matcher) Option {
	return func(s *Sanitizer) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithoutLinkRewrite keeps anchors as the model wrote them.
func WithoutLinkRewrite() Option {
	return func(s *Sanitizer) {
		s.rewriteLinks = false
	}
}

// New creates a Sanitizer.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		matcher:      NewRegexMatcher(),
		rewriteLinks: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSanitizer = New()

// Sanitize runs raw through the default pipeline.
func Sanitize(raw string) (Document, error) {
	return defaultSanitizer.Sanitize(raw)
}

// Sanitize extracts directives from raw and returns the cleaned HTML document.
func (s *Sanitizer) Sanitize(raw string) (Document, error) {
	directives := s.matcher.ExtractDirectives(raw)

	text := Apply(raw,
		s.matcher.StripDirectives,
		strings.TrimSpace,
		StripOuterFences,
		strings.TrimSpace,
	)

	html, err := s.matcher.LocateDocument(text)
	if err != nil {
		return Document{}, err
	}

	html = strings.TrimSpace(RemoveFences(html))
	if s.rewriteLinks {
		html = RewriteLinks(html)
	}

	return Document{
		HTML:    html,
		Subject: directives.Subject,
		Changes: directives.Changes,
	}, nil
}
