// Package common provides common utilities and interfaces for the PipeRouter framework.
package common

import (
	"net/http"
)

// MiddlewareChain represents an ordered chain of middleware
type MiddlewareChain []Middleware

// NewMiddlewareChain creates a new middleware chain
func NewMiddlewareChain(middlewares ...Middleware) MiddlewareChain {
	return middlewares
}

// Append adds middleware to the end of the chain
func (c MiddlewareChain) Append(middlewares ...Middleware) MiddlewareChain {
	return append(c, middlewares...)
}

// Prepend adds middleware to the beginning of the chain
func (c MiddlewareChain) Prepend(middlewares ...Middleware) MiddlewareChain {
	result := make(MiddlewareChain, len(middlewares)+len(c))
	copy(result, middlewares)
	copy(result[len(middlewares):], c)
	return result
}

// Pipeline builds a stepper over the chain for a single request
func (c MiddlewareChain) Pipeline(w *Response, r *http.Request, props Props) *Pipeline {
	return NewPipeline(c, w, r, props)
}

// Run builds a pipeline over the chain and starts it
func (c MiddlewareChain) Run(w *Response, r *http.Request, props Props) {
	c.Pipeline(w, r, props).Advance()
}
