package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/binder"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON renders v as the response body with status 200.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as an ErrorResponse. The status code and public
// message come from ErrorInfo.
func JSONError(err error, opts ...JSONOption) Response {
	info := Classify(err)
	r := &jsonResponse{status: info.StatusCode, body: ErrorResponse{Error: info.Detail()}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string][]string
}

func (i ErrorInfo) Detail() *ErrorDetail {
	d := &ErrorDetail{Code: i.Code, Message: i.Message}
	if len(i.Details) > 0 {
		d.Details = make(map[string][]string, len(i.Details))
		maps.Copy(d.Details, i.Details)
	}
	return d
}

var bindErrors = []error{
	binder.ErrFailedToParseForm,
	binder.ErrFailedToParseJSON,
	binder.ErrFailedToParseQuery,
	binder.ErrFailedToParsePath,
	binder.ErrUnsupportedMediaType,
}

// Classify maps err to a status code and a message safe to show to clients.
// Unknown errors become a generic 500 so internals never leak.
func Classify(err error) ErrorInfo {
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return ErrorInfo{
			StatusCode: http.StatusBadRequest,
			Code:       "validation_error",
			Message:    validationErr.Error(),
			Details:    validationErr,
		}
	}

	if appErr, ok := apperr.As(err); ok {
		return ErrorInfo{
			StatusCode: appErr.StatusCode(),
			Code:       appErr.Code,
			Message:    appErr.Message,
		}
	}

	for _, target := range bindErrors {
		if errors.Is(err, target) {
			return ErrorInfo{
				StatusCode: http.StatusBadRequest,
				Code:       "bad_request",
				Message:    err.Error(),
			}
		}
	}

	return ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    "An error occurred processing your request",
	}
}
