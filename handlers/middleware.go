package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type contextKey string

const RequestIDKey contextKey = "requestID"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// GetRequestID extracts the request id from the request context.
func GetRequestID(r *http.Request) string {
	if val, ok := r.Context().Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

// RequestContextMiddleware tags the request with an id (the caller's
// X-Request-ID when present) and bounds it with timeout. A zero timeout
// leaves the request context untouched.
func RequestContextMiddleware(logger *zap.Logger, timeout time.Duration) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		e.Response.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(e.Request.Context(), RequestIDKey, id)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		e.Request = e.Request.WithContext(ctx)

		start := time.Now()
		err := e.Next()
		logger.Debug("request handled",
			zap.String("request_id", id),
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
