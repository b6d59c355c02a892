// Package router provides a minimal request-dispatch pipeline.
// A Router composes an ordered list of middleware, matches requests against
// registered path templates, runs the matching route's own chain, and falls back
// to a plain "404 Not Found" response when nothing claims the request.
package router

import (
	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"github.com/Suhaibinator/PipeRouter/pkg/metrics"
	"go.uber.org/zap"
)

// RouterConfig defines the configuration for a router.
// It includes settings for logging, metrics, and the initial middleware list.
type RouterConfig struct {
	Logger        *zap.Logger         // Logger for all router operations; defaults to a production logger
	BasePath      string              // Path prefix applied to every route template; rewritten by Mount
	EnableTraceID bool                // Include the trace ID from props in log entries
	Metrics       *metrics.Collector  // Prometheus collector fed by ServeHTTP (optional)
	Middlewares   []common.Middleware // Middlewares installed before any Use call
}

// Middleware is an alias for common.Middleware.
type Middleware = common.Middleware

// Route is a single entry in a router's route table.
// Routes are tried in registration order and never reordered or deduplicated.
type Route struct {
	Method string                 // HTTP method, compared case-sensitively
	Path   string                 // Path template relative to the router's base path
	Chain  common.MiddlewareChain // Middlewares run when the route matches
}

