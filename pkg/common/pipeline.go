package common

import (
	"net/http"
)

// Pipeline steps through a middleware list one element per Advance.
// The cursor starts before the first element. Every middleware receives the
// pipeline's own Advance as its next, so nested chains compose by recursion.
type Pipeline struct {
	chain  []Middleware
	cursor int
	w      *Response
	r      *http.Request
	props  Props
}

// NewPipeline creates a pipeline over chain for one request.
// The chain is not copied and must not be modified while the pipeline runs.
func NewPipeline(chain []Middleware, w *Response, r *http.Request, props Props) *Pipeline {
	return &Pipeline{
		chain:  chain,
		cursor: -1,
		w:      w,
		r:      r,
		props:  props,
	}
}

// Advance moves the cursor forward and runs the middleware under it, provided the
// cursor is still in range and the response is still pending. Otherwise the chain
// has ended and Advance does nothing.
func (p *Pipeline) Advance() {
	p.cursor++
	if p.cursor < len(p.chain) && p.w.Pending() {
		p.chain[p.cursor](p.w, p.r, p.props, p.Advance)
	}
}

// Done reports whether the cursor has moved past the last middleware.
func (p *Pipeline) Done() bool {
	return p.cursor >= len(p.chain)
}

// Cursor returns the index of the middleware most recently stepped to, or -1
// before the first Advance.
func (p *Pipeline) Cursor() int {
	return p.cursor
}
