package binder

import "errors"

// ErrNotApplicable means the request has no body this binder reads.
// handler.Handle skips such binders, so one request type can accept several
// encodings.
var ErrNotApplicable = errors.New("binder: not applicable")

var (
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrFailedToParseJSON    = errors.New("binder: malformed JSON body")
	ErrFailedToParseForm    = errors.New("binder: malformed form")
	ErrFailedToParseQuery   = errors.New("binder: malformed query")
	ErrFailedToParsePath    = errors.New("binder: malformed path parameter")
)
