package binder

import (
	"fmt"
	"net/http"
)

// Path binds `path:"..."` fields from router parameters, e.g. chi.URLParam.
// Empty parameters are treated as absent.
//
//	type GetTemplateRequest struct {
//		ID int64 `path:"id"`
//	}
func Path(param func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if param == nil {
			return fmt.Errorf("%w: no parameter extractor", ErrFailedToParsePath)
		}
		return bindFields(v, "path", func(name string) []string {
			if s := param(r, name); s != "" {
				return []string{s}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
