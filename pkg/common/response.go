package common

import (
	"errors"
	"net/http"
	"strconv"
)

// ResponseState tells a pipeline whether anything has claimed the request yet.
type ResponseState int

const (
	// Pending means no handler has set a status or written a body.
	Pending ResponseState = iota

	// Responded means a status has been assigned; pipelines stop advancing.
	Responded
)

// String returns a readable name for the state.
func (s ResponseState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Responded:
		return "responded"
	default:
		return "unknown"
	}
}

// ErrResponseFinalized is returned when a response is finalized twice.
var ErrResponseFinalized = errors.New("response already finalized")

// Response wraps an http.ResponseWriter and tracks whether the request has been answered.
// Assigning a status, either through SetStatus or WriteHeader, or writing any body bytes
// moves the response from Pending to Responded. The status line is sent to the
// underlying writer lazily, on the first Write or on Respond.
type Response struct {
	http.ResponseWriter
	state        ResponseState
	status       int
	reason       string
	committed    bool
	finalized    bool
	bytesWritten int64
}

// NewResponse wraps w in a pending Response.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{ResponseWriter: w}
}

// Reset marks the response as pending again.
// Headers that were already sent cannot be taken back, so Reset is a no-op once
// the response is committed.
func (r *Response) Reset() {
	if r.committed {
		return
	}
	r.state = Pending
	r.status = 0
	r.reason = ""
}

// State returns the current response state.
func (r *Response) State() ResponseState {
	return r.state
}

// Pending reports whether no handler has claimed the request yet.
func (r *Response) Pending() bool {
	return r.state == Pending
}

// SetStatus assigns the status code and reason phrase without writing anything.
// net/http always derives the reason phrase from the code; the given reason is kept
// for logging and inspection.
func (r *Response) SetStatus(code int, reason string) {
	if r.committed {
		return
	}
	r.status = code
	r.reason = reason
	r.state = Responded
}

// SetContentType sets the Content-Type header.
func (r *Response) SetContentType(contentType string) {
	r.Header().Set("Content-Type", contentType)
}

// WriteHeader assigns the status and sends the header immediately.
func (r *Response) WriteHeader(code int) {
	r.SetStatus(code, http.StatusText(code))
	r.commit()
}

// Write sends the header if needed and writes b to the underlying writer.
func (r *Response) Write(b []byte) (int, error) {
	r.commit()
	n, err := r.ResponseWriter.Write(b)
	r.bytesWritten += int64(n)
	return n, err
}

// Respond finalizes the response in one step: status, reason, content type,
// content length and body. Further calls return ErrResponseFinalized.
func (r *Response) Respond(code int, reason, contentType string, body []byte) error {
	if r.finalized {
		return ErrResponseFinalized
	}
	r.SetStatus(code, reason)
	if contentType != "" {
		r.SetContentType(contentType)
	}
	r.Header().Set("Content-Length", strconv.Itoa(len(body)))
	r.finalized = true
	_, err := r.Write(body)
	return err
}

// Finish sends a status that was assigned but never written, such as a bare
// SetStatus(http.StatusNoContent, ...). It does nothing while the response is
// pending or once the header has been sent.
func (r *Response) Finish() {
	if r.state == Pending || r.committed {
		return
	}
	r.commit()
}

// Committed reports whether the status line has been sent.
func (r *Response) Committed() bool {
	return r.committed
}

// commit sends the status line once.
func (r *Response) commit() {
	if r.committed {
		return
	}
	if r.status == 0 {
		r.status = http.StatusOK
		r.reason = http.StatusText(http.StatusOK)
	}
	r.state = Responded
	r.committed = true
	r.ResponseWriter.WriteHeader(r.status)
}

// Status returns the assigned status code, or 0 while pending.
func (r *Response) Status() int {
	return r.status
}

// Reason returns the reason phrase assigned with the status.
func (r *Response) Reason() string {
	return r.reason
}

// Finalized reports whether Respond has completed the response.
func (r *Response) Finalized() bool {
	return r.finalized
}

// BytesWritten returns the number of body bytes written so far.
func (r *Response) BytesWritten() int64 {
	return r.bytesWritten
}

// Flush calls the underlying ResponseWriter.Flush if it implements http.Flusher.
func (r *Response) Flush() {
	r.commit()
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying writer for http.ResponseController.
func (r *Response) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
