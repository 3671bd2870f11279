// Package binder fills request structs from HTTP requests.
//
// Each binder reads one source and only touches fields tagged for it:
//
//   - Form: `form:"..."` and `file:"..."` from urlencoded or multipart bodies
//   - JSON: the JSON body, using `json:"..."` tags
//   - Query: `query:"..."` from the URL query string
//   - Path: `path:"..."` from router parameters
//
// Body binders return ErrNotApplicable when the request has a different
// content type. handler.Handle skips those, so a request type may declare both
// form and json tags and accept either encoding:
//
//	type SaveRequest struct {
//		Subject string `form:"subject" json:"subject" validate:"required"`
//	}
//
//	handler.Handle(adapter, save, binder.Form(), binder.JSON())
//
// Parse failures wrap ErrFailedToParseForm, ErrFailedToParseJSON,
// ErrFailedToParseQuery or ErrFailedToParsePath.
package binder
