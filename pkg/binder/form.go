package binder

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"

	"github.com/dmitrymomot/mailcraft/pkg/sanitizer"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (32MB).
// Larger parts spill to temporary files.
const DefaultMaxMemory = 32 << 20

var (
	fileHeaderType  = reflect.TypeFor[*multipart.FileHeader]()
	fileHeadersType = reflect.TypeFor[[]*multipart.FileHeader]()
)

// Form creates a binder for application/x-www-form-urlencoded and
// multipart/form-data requests.
//
// Supported struct tags:
//   - `form:"name"` - binds to form field "name"
//   - `file:"name"` - binds to uploaded file "name"
//
// File fields must be *multipart.FileHeader or []*multipart.FileHeader.
// Client supplied file names are reduced to their base name.
//
// Example:
//
//	type GenerateRequest struct {
//		Prompt string                  `form:"prompt"`
//		Images []*multipart.FileHeader `file:"images"`
//	}
func Form() func(r *http.Request, v any) error {
	return FormWithMaxMemory(DefaultMaxMemory)
}

// FormWithMaxMemory is Form with a custom multipart memory limit.
func FormWithMaxMemory(maxMemory int64) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch mt := mediaType(r); mt {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = r.PostForm

		case "multipart/form-data":
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				if errors.Is(err, multipart.ErrMessageTooLarge) {
					return fmt.Errorf("%w: request too large", ErrFailedToParseForm)
				}
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File

		default:
			return notApplicable(mt, "application/x-www-form-urlencoded or multipart/form-data")
		}

		if err := bindFields(v, "form", fromMap(values), ErrFailedToParseForm); err != nil {
			return err
		}
		return bindFiles(v, files)
	}
}

func bindFiles(v any, files map[string][]*multipart.FileHeader) error {
	if len(files) == 0 {
		return nil
	}
	rv, err := target(v, ErrFailedToParseForm)
	if err != nil {
		return err
	}

	return eachTagged(rv, "file", func(field reflect.Value, name string) error {
		headers := files[name]
		if len(headers) == 0 {
			return nil
		}
		for _, fh := range headers {
			fh.Filename = sanitizer.SanitizeFilename(fh.Filename)
		}

		switch field.Type() {
		case fileHeaderType:
			field.Set(reflect.ValueOf(headers[0]))
		case fileHeadersType:
			field.Set(reflect.ValueOf(headers))
		default:
			return fmt.Errorf("%w: field %s: unsupported file field type %v", ErrFailedToParseForm, name, field.Type())
		}
		return nil
	})
}
