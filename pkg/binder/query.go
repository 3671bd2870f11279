package binder

import "net/http"

// Query binds `query:"..."` fields from the URL query string. Slice fields
// accept repeated and comma separated values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindFields(v, "query", fromMap(r.URL.Query()), ErrFailedToParseQuery)
	}
}
