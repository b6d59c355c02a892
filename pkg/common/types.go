// Package common provides shared types and utilities used across the PipeRouter framework.
package common

import (
	"net/http"
)

// Next advances the pipeline it was handed out by.
// Calling it runs the next middleware in the chain, if the chain has not
// ended and the response is still pending.
type Next func()

// Middleware is a single step in a request pipeline.
// It may inspect or modify the response, mutate props, and optionally call next
// to continue the chain. Returning without calling next ends the chain.
type Middleware func(w *Response, r *http.Request, props Props, next Next)

// Props is the per-request key/value bag shared by every middleware in a pipeline.
// A fresh Props is created for each request and discarded when the request ends.
type Props map[string]any

// Well-known Props keys.
const (
	// ParamsKey holds the httprouter.Params extracted by route matching.
	ParamsKey = "urlParams"

	// TraceIDKey holds the request trace ID as a string.
	TraceIDKey = "traceID"

	// ClientIPKey holds the client IP address as a string.
	ClientIPKey = "clientIP"

	// UserKey holds the authenticated principal as a string.
	UserKey = "user"
)

// NewProps creates an empty Props bag.
func NewProps() Props {
	return make(Props)
}

// String returns the value stored under key if it is a string.
func (p Props) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// FromHandler adapts an http.Handler into a terminal Middleware.
// The handler writes through the pipeline's Response, so anything it writes
// marks the request as responded. It never calls next.
func FromHandler(h http.Handler) Middleware {
	return func(w *Response, r *http.Request, _ Props, _ Next) {
		h.ServeHTTP(w, r)
	}
}

// FromHandlerFunc adapts an ordinary handler function into a terminal Middleware.
func FromHandlerFunc(f func(http.ResponseWriter, *http.Request)) Middleware {
	return FromHandler(http.HandlerFunc(f))
}
