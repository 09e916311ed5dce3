package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/reconcile"
	"boqtracker/workflow"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var vErr *reconcile.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, workflow.ErrUnsupportedAction),
		errors.Is(err, workflow.ErrUnknownKind):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Server errors are logged and their
// details withheld from the client.
func respondError(e *core.RequestEvent, logger *zap.Logger, err error, fields ...zap.Field) error {
	status := statusFor(err)
	if id := GetRequestID(e.Request); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	body := errorResponse{Error: err.Error()}

	var vErr *reconcile.ValidationError
	if errors.As(err, &vErr) {
		body.Field = vErr.Field
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", append(fields, zap.Error(err))...)
		body.Error = http.StatusText(status)
	} else {
		logger.Debug("request rejected", append(fields, zap.Int("status", status), zap.Error(err))...)
	}
	return e.JSON(status, body)
}
