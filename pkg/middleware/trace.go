package middleware

import (
	"context"
	"net/http"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/google/uuid"
)

// traceIDKey is a private context key type to avoid collisions.
type traceIDKey struct{}

// Trace creates a middleware that generates a unique trace ID for each
// request, adds it to the request context, and echoes it back on the
// response as an X-Trace-Id header. This allows for request tracing across
// logs.
func Trace() Middleware {
	return func(next common.Handler) common.Handler {
		return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
			traceID := uuid.New().String()

			ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
			res, err := next.Handle(r.WithContext(ctx))
			if err != nil {
				return nil, err
			}

			return res.WithHeader("X-Trace-Id", traceID), nil
		})
	}
}

// GetTraceID extracts the trace ID from the request context.
// Returns an empty string if no trace ID is found.
func GetTraceID(r *http.Request) string {
	return GetTraceIDFromContext(r.Context())
}

// GetTraceIDFromContext extracts the trace ID from a context.
// Returns an empty string if no trace ID is found.
func GetTraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey{}).(string); ok {
		return traceID
	}
	return ""
}
