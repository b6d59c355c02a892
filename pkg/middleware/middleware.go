// Package middleware provides a collection of pipeline middleware components for the PipeRouter framework.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"go.uber.org/zap"
)

// Use the Middleware type from the common package
type Middleware = common.Middleware

// Chain combines several middlewares into one that runs them in order.
// The combined middleware calls its own next once the last of them continues.
func Chain(middlewares ...Middleware) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		chain := common.NewMiddlewareChain(middlewares...).Append(
			func(_ *common.Response, _ *http.Request, _ common.Props, _ common.Next) {
				next()
			},
		)
		chain.Run(w, r, props)
	}
}

// Recovery is a middleware that recovers from panics in the rest of the chain.
// If nothing has been sent yet the request is answered with 500 Internal Server Error.
func Recovery(logger *zap.Logger) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		defer func() {
			if rec := recover(); rec != nil {
				fields := []zap.Field{
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				}
				if traceID := GetTraceID(props); traceID != "" {
					fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
				}
				logger.Error("Panic recovered", fields...)

				if w.Pending() {
					_ = w.Respond(http.StatusInternalServerError, "Internal Server Error", "text/plain", []byte("500 Internal Server Error"))
				}
			}
		}()

		next()
	}
}

// Logging is a middleware that logs requests once the rest of the chain returns.
// A router's not-found fallback runs after its pipeline, so requests nothing
// claimed are logged with state "pending".
func Logging(logger *zap.Logger) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		start := time.Now()

		// Call the next middleware
		next()

		// Calculate duration
		duration := time.Since(start)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", w.Status()),
			zap.String("state", w.State().String()),
			zap.Duration("duration", duration),
		}
		if traceID := GetTraceID(props); traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}

		// Use appropriate log level based on status code and duration
		switch {
		case w.Status() >= 500:
			logger.Error("Server error", append(fields, zap.String("remote_addr", r.RemoteAddr))...)
		case w.Status() >= 400:
			logger.Warn("Client error", fields...)
		case duration > 1*time.Second:
			logger.Warn("Slow request", fields...)
		default:
			// Normal requests at Debug level to avoid log spam
			logger.Debug("Request", fields...)
		}
	}
}

// Header is a middleware that sets a response header and continues.
func Header(key, value string) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		w.Header().Set(key, value)
		next()
	}
}
