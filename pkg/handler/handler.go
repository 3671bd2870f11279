package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/mailcraft/pkg/binder"
)

// ErrNilResponse is reported when a handler returns no Response.
var ErrNilResponse = errors.New("handler returned nil response")

// Func handles one bound request.
type Func[R any] func(ctx Context, req R) Response

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. Binders returning binder.ErrNotApplicable are skipped.
type Bind func(r *http.Request, v any) error

// ErrorHandler reports binding, validation and render failures.
type ErrorHandler func(ctx Context, err error)

// Adapter holds what every route shares: validation and error reporting.
type Adapter struct {
	validate func(any) error
	onError  ErrorHandler
}

type Option func(*Adapter)

func WithValidator(v *Validator) Option {
	return func(a *Adapter) {
		if v != nil {
			a.validate = v.Struct
		}
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(a *Adapter) {
		if h != nil {
			a.onError = h
		}
	}
}

// NewAdapter renders errors as JSON without logging unless WithErrorHandler
// is given. Without WithValidator requests are not validated.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{
		onError: func(ctx Context, err error) {
			_ = JSONError(err).Render(ctx.ResponseWriter(), ctx.Request())
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle binds R with binders in order, validates it and runs fn.
// Multipart temp files are removed once the response is written.
//
//	r.Get("/get-template/{id}", handler.Handle(adapter, getTemplate, binder.Path(chi.URLParam)))
func Handle[R any](a *Adapter, fn Func[R], binders ...Bind) http.HandlerFunc {
	if a == nil {
		a = NewAdapter()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		var req R
		for _, bind := range binders {
			if err := bind(r, &req); err != nil && !errors.Is(err, binder.ErrNotApplicable) {
				a.onError(ctx, err)
				return
			}
		}
		if a.validate != nil {
			if err := a.validate(&req); err != nil {
				a.onError(ctx, err)
				return
			}
		}

		resp := fn(ctx, req)
		if resp == nil {
			a.onError(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			a.onError(ctx, err)
		}
	}
}
