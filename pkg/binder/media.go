package binder

import (
	"fmt"
	"net/http"
	"strings"
)

// mediaType returns the request media type without parameters, lower-cased.
func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func notApplicable(got, want string) error {
	if got == "" {
		return fmt.Errorf("%w: missing content-type header, expected %s", ErrNotApplicable, want)
	}
	return fmt.Errorf("%w: %w: got %s, expected %s", ErrNotApplicable, ErrUnsupportedMediaType, got, want)
}
