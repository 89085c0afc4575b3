package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/volunhub/volunhub/pkg/validator"
)

// JSONResponse is the standard response envelope for the JSON API.
type JSONResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithStatus sets a custom HTTP status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithMessage sets the human-readable message of the envelope.
func WithMessage(message string) JSONOption {
	return func(r *jsonResponse) {
		r.body.Message = message
	}
}

// JSON creates a success response with the given payload in the data field.
func JSON(data any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Success: true, Data: data},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONMessage creates a success response carrying only a message.
func JSONMessage(message string, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Success: true, Message: message},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError creates a failure response from an error. HTTPError picks the
// status code, validation errors become a 400 with per-field messages, and
// anything else renders as a 500 with the error text as the message.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusInternalServerError,
		body:   JSONResponse{Success: false},
	}

	var httpErr HTTPError
	var valErrs validator.ValidationErrors
	switch {
	case errors.As(err, &valErrs):
		r.status = http.StatusBadRequest
		r.body.Message = "Validation failed"
		r.body.Errors = make(map[string][]string, len(valErrs.Fields()))
		for _, field := range valErrs.Fields() {
			r.body.Errors[field] = valErrs.Get(field)
		}
	case errors.As(err, &httpErr):
		r.status = httpErr.Code
		r.body.Message = http.StatusText(httpErr.Code)
	case err != nil:
		r.body.Message = err.Error()
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}
