package httpapi

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	StatusCode int                `json:"statusCode"`
	Data       any                `json:"data,omitempty"`
	Pagination *entity.Pagination `json:"pagination,omitempty"`
	Error      string             `json:"error,omitempty"`
	Code       string             `json:"code,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

func renderData(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	render.Status(r, status)
	render.JSON(w, r, &Response{
		Success:    true,
		Message:    message,
		StatusCode: status,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	})
}

func renderPage(w http.ResponseWriter, r *http.Request, message string, data any, pg entity.Pagination) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &Response{
		Success:    true,
		Message:    message,
		StatusCode: http.StatusOK,
		Data:       data,
		Pagination: &pg,
		Timestamp:  time.Now().UTC(),
	})
}

// renderError maps domain errors to their HTTP status and machine code.
// Anything that is not an apperr is reported as an opaque 500; the cause is
// logged server-side only.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	code := string(apperr.KindOperationFailed)

	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.KindOperationFailed {
		status = e.Status()
		message = e.Message
		code = e.Code()
	} else {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("err", err.Error()),
			slog.String("path", r.URL.Path),
		)
	}

	render.Status(r, status)
	render.JSON(w, r, &Response{
		Success:    false,
		Message:    message,
		StatusCode: status,
		Error:      message,
		Code:       code,
		Timestamp:  time.Now().UTC(),
	})
}

func renderInvalid(w http.ResponseWriter, r *http.Request, err error) {
	renderError(w, r, apperr.Validation("invalid request: %v", err))
}
