// Package middleware provides a collection of middleware components for the
// Slim framework.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"go.uber.org/zap"
)

// Use the Middleware type from the common package
type Middleware = common.Middleware

// Chain chains multiple middlewares together
func Chain(middlewares ...Middleware) Middleware {
	return func(next common.Handler) common.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Recovery is a middleware that recovers from panics in downstream handlers
// and converts them into a 500 response.
func Recovery(logger *zap.Logger) Middleware {
	return func(next common.Handler) common.Handler {
		return common.HandlerFunc(func(r *http.Request) (res *common.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("stack", string(debug.Stack())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
					)

					res = common.TextResponse(http.StatusInternalServerError, "Internal Server Error")
					err = nil
				}
			}()

			return next.Handle(r)
		})
	}
}

// Logging is a middleware that logs requests
func Logging(logger *zap.Logger) Middleware {
	return func(next common.Handler) common.Handler {
		return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
			start := time.Now()

			res, err := next.Handle(r)
			duration := time.Since(start)

			if err != nil {
				logger.Error("Request failed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", duration),
					zap.Error(err),
				)
				return res, err
			}

			status := res.Status()

			// Use appropriate log level based on status code and duration
			if status >= 500 {
				logger.Error("Server error",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("duration", duration),
					zap.String("remote_addr", r.RemoteAddr),
				)
			} else if status >= 400 {
				logger.Warn("Client error",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("duration", duration),
				)
			} else if duration > 1*time.Second {
				logger.Warn("Slow request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("duration", duration),
				)
			} else {
				// Normal requests at Debug level to avoid log spam
				logger.Debug("Request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("duration", duration),
				)
			}

			return res, nil
		})
	}
}
