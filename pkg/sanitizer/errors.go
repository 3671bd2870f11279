package sanitizer

import "errors"

var (
	// ErrNoHTML is returned when the model output contains no <!doctype, <html or <table marker.
	ErrNoHTML = errors.New("sanitizer: model output contains no renderable HTML")
)
