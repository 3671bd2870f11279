package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (8MB).
// Generation requests carry whole HTML documents.
const DefaultMaxJSONSize = 8 << 20

// JSON creates a JSON binder function. Unknown fields are ignored.
//
// Example:
//
//	type SearchRequest struct {
//		Query string `json:"query"`
//		Limit int    `json:"limit"`
//	}
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if mt := mediaType(r); mt != "application/json" {
			return notApplicable(mt, "application/json")
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
		}
		if len(body) > DefaultMaxJSONSize {
			return fmt.Errorf("%w: request body exceeds %d bytes", ErrFailedToParseJSON, DefaultMaxJSONSize)
		}
		if len(body) == 0 {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		if err := json.Unmarshal(body, v); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return fmt.Errorf("%w: field %s: expected %s", ErrFailedToParseJSON, typeErr.Field, typeErr.Type)
			}
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		return nil
	}
}
