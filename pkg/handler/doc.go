// Package handler turns typed request handlers into http.HandlerFunc values.
// Context is the request context plus access to the request and writer.
//
// A handler receives a bound request struct and returns a Response:
//
//	type GetTemplateRequest struct {
//		ID int64 `path:"id" validate:"required"`
//	}
//
//	get := func(ctx handler.Context, req GetTemplateRequest) handler.Response {
//		tpl, err := templates.Get(ctx, req.ID)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(map[string]any{"success": true, "template": tpl})
//	}
//
//	adapter := handler.NewAdapter(
//		handler.WithValidator(handler.NewValidator()),
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	)
//	r.Get("/get-template/{id}", handler.Handle(adapter, get, binder.Path(chi.URLParam)))
//
// # Errors
//
// Binding, validation and render failures go to the ErrorHandler. Handlers
// themselves return JSONError. Both use Classify:
//
//   - ValidationError: 400 with per-field details
//   - *apperr.Error: the status of its kind, with its code and message
//   - binder parse errors: 400
//   - anything else: 500 with a generic message
//
// Error bodies have the shape {"error": {"code": ..., "message": ..., "details": ...}}.
package handler
