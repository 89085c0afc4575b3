package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/volunhub/volunhub/binder"
	"github.com/volunhub/volunhub/pkg/logger"
	"github.com/volunhub/volunhub/pkg/requestid"
	"github.com/volunhub/volunhub/pkg/validator"
)

// NewErrorHandler returns an ErrorHandler that logs the failure and renders
// the standard JSON envelope. Client errors log at warn, server errors at
// error; 5xx responses never expose internal error text.
func NewErrorHandler[C Context](log *slog.Logger) ErrorHandler[C] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx C, err error) {
		status, response := classifyError(err)

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "request failed",
			logger.Error(err),
			slog.Int("status", status),
			logger.RequestID(requestid.FromContext(ctx)),
		)

		if renderErr := response.Render(ctx.ResponseWriter(), ctx.Request()); renderErr != nil {
			// Headers may already be written, a plain fallback is all that is left.
			http.Error(ctx.ResponseWriter(), http.StatusText(status), status)
		}
	}
}

// classifyError maps an error to a response status and envelope.
func classifyError(err error) (int, Response) {
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return http.StatusBadRequest, JSONError(valErrs)
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, JSONError(httpErr)
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType,
			JSONError(err, WithStatus(http.StatusUnsupportedMediaType))
	case errors.Is(err, binder.ErrInvalidJSON),
		errors.Is(err, binder.ErrInvalidQuery),
		errors.Is(err, binder.ErrMissingContentType):
		return http.StatusBadRequest, JSONError(err, WithStatus(http.StatusBadRequest))
	}

	return http.StatusInternalServerError,
		JSONError(ErrInternalServerError, WithMessage("Something went wrong"))
}
