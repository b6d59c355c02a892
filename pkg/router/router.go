package router

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"github.com/Suhaibinator/PipeRouter/pkg/matcher"
	"github.com/Suhaibinator/PipeRouter/pkg/middleware"
	"go.uber.org/zap"
)

// Router owns a base path, an ordered middleware list and an ordered route table.
// It is configured through its registration methods and must be fully built before
// the first request is dispatched; after that it is read-only and safe for
// concurrent use without locking.
type Router struct {
	config      RouterConfig
	logger      *zap.Logger
	basePath    string
	middlewares common.MiddlewareChain
	routes      []Route
}

// NewRouter creates a new Router with the given configuration.
// Middlewares from the configuration are installed first, in order.
func NewRouter(config RouterConfig) *Router {
	// Set up the logger
	logger := config.Logger
	if logger == nil {
		// Create a default logger if none is provided
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			// Fallback to a no-op logger if we can't create a production logger
			logger = zap.NewNop()
		}
	}

	return &Router{
		config:      config,
		logger:      logger,
		basePath:    config.BasePath,
		middlewares: common.NewMiddlewareChain(config.Middlewares...),
	}
}

// BasePath returns the prefix applied to every route template.
func (r *Router) BasePath() string {
	return r.basePath
}

// SetBasePath replaces the prefix applied to every route template.
func (r *Router) SetBasePath(basePath string) {
	r.basePath = basePath
}

// Use appends middleware to the router's own pipeline. Order is preserved.
func (r *Router) Use(middlewares ...Middleware) *Router {
	r.middlewares = r.middlewares.Append(middlewares...)
	return r
}

// UseRouteMatching installs the route-matching middleware at the current position
// of the pipeline. Routes registered with Map are never consulted unless this is called.
func (r *Router) UseRouteMatching() *Router {
	return r.Use(r.matchRoutes)
}

// Mount attaches sub at path. The sub-router's base path becomes this router's
// base path followed by path, and its Handle is installed as ordinary middleware.
// A mounted router runs its own not-found fallback, so middleware registered on
// this router after Mount only runs for requests the sub-router never reaches.
// Mounting cycles are not detected.
func (r *Router) Mount(path string, sub *Router) *Router {
	sub.SetBasePath(r.basePath + path)
	return r.Use(sub.Handle)
}

// Map appends a route for method and path with its own middleware chain.
func (r *Router) Map(method, path string, middlewares ...Middleware) *Router {
	r.routes = append(r.routes, Route{
		Method: method,
		Path:   path,
		Chain:  common.NewMiddlewareChain(middlewares...),
	})
	return r
}

// Get registers a GET route.
func (r *Router) Get(path string, middlewares ...Middleware) *Router {
	return r.Map(http.MethodGet, path, middlewares...)
}

// Post registers a POST route.
func (r *Router) Post(path string, middlewares ...Middleware) *Router {
	return r.Map(http.MethodPost, path, middlewares...)
}

// Put registers a PUT route.
func (r *Router) Put(path string, middlewares ...Middleware) *Router {
	return r.Map(http.MethodPut, path, middlewares...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path string, middlewares ...Middleware) *Router {
	return r.Map(http.MethodPatch, path, middlewares...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path string, middlewares ...Middleware) *Router {
	return r.Map(http.MethodDelete, path, middlewares...)
}

// Routes returns a copy of the route table in registration order.
func (r *Router) Routes() []Route {
	routes := make([]Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Handle is the router's dispatch entry point. It marks the response pending,
// runs the router's pipeline, and sends the not-found response if nothing
// responded. The next argument exists so a router can be mounted as middleware;
// it is never called.
func (r *Router) Handle(w *common.Response, req *http.Request, props common.Props, _ common.Next) {
	w.Reset()

	pipeline := r.middlewares.Pipeline(w, req, props)
	pipeline.Advance()

	r.logger.Debug("Response status", r.fields(req, props,
		zap.String("base_path", r.basePath),
		zap.String("state", w.State().String()),
		zap.Int("status", w.Status()),
		zap.Int("cursor", pipeline.Cursor()),
		zap.Bool("chain_exhausted", pipeline.Done()),
	)...)

	if w.Pending() {
		if r.config.Metrics != nil {
			r.config.Metrics.NotFound()
		}
		if err := NotFound(w); err != nil {
			r.logger.Error("Failed to send not found response", r.fields(req, props, zap.Error(err))...)
		}
	}
}

// matchRoutes is the route-matching middleware installed by UseRouteMatching.
// It evaluates every route in order and does not stop at the first match: each
// matching route overwrites the params in props and runs its chain, but once one
// chain has responded the later chains find the response claimed and do nothing.
func (r *Router) matchRoutes(w *common.Response, req *http.Request, props common.Props, _ common.Next) {
	path := req.URL.EscapedPath()

	for _, route := range r.routes {
		template := r.basePath + route.Path

		matched := false
		var params Params
		if req.Method == route.Method {
			params, matched = matcher.Match(path, template)
		}

		r.logger.Debug("Route match evaluated", r.fields(req, props,
			zap.String("route_method", route.Method),
			zap.String("route", template),
			zap.Bool("match", matched),
		)...)

		if matched {
			props[common.ParamsKey] = params
			route.Chain.Run(w, req, props)
		}
	}
}

// ServeHTTP implements the http.Handler interface.
// Each request gets a fresh props bag and response state. A panic anywhere in the
// pipeline is logged and, if the response is still pending, answered with
// 500 Internal Server Error. A status assigned without a body is sent on return.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	res := common.NewResponse(w)
	props := common.NewProps()

	defer func() {
		if rec := recover(); rec != nil {
			r.recoverPanic(res, req, props, rec)
		}
		res.Finish()
		if r.config.Metrics != nil {
			r.config.Metrics.Observe(req.Method, res.Status(), time.Since(start), res.BytesWritten())
		}
	}()

	r.Handle(res, req, props, func() {})
}

// recoverPanic logs a recovered panic and answers the request if nothing has been sent.
func (r *Router) recoverPanic(w *common.Response, req *http.Request, props common.Props, rec any) {
	r.logger.Error("Panic recovered", r.fields(req, props,
		zap.Any("panic", rec),
		zap.String("stack", string(debug.Stack())),
	)...)

	if w.Pending() {
		if err := InternalServerError(w); err != nil {
			r.logger.Error("Failed to send error response", r.fields(req, props, zap.Error(err))...)
		}
	}
}

// fields builds the common log fields for a request.
// The trace ID is prepended when enabled and present.
func (r *Router) fields(req *http.Request, props common.Props, extra ...zap.Field) []zap.Field {
	fields := append([]zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	}, extra...)

	if traceID := middleware.GetTraceID(props); r.config.EnableTraceID && traceID != "" {
		fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
	}

	return fields
}
