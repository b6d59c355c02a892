package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
)

// NotFound finalizes w with the fixed 404 response used when nothing claims a request.
func NotFound(w *common.Response) error {
	return w.Respond(http.StatusNotFound, "Not Found", "text/plain", []byte("404 Not Found"))
}

// InternalServerError finalizes w with a plain 500 response.
func InternalServerError(w *common.Response) error {
	return w.Respond(http.StatusInternalServerError, "Internal Server Error", "text/plain", []byte("500 Internal Server Error"))
}

// Text finalizes w with a plain-text body.
func Text(w *common.Response, statusCode int, body string) error {
	return w.Respond(statusCode, http.StatusText(statusCode), "text/plain", []byte(body))
}

// HTTPError represents an HTTP error with a status code and message.
// Handlers return it to control the exact error response sent to clients.
type HTTPError struct {
	StatusCode int    // HTTP status code (e.g., 400, 404, 500)
	Message    string // Error message to be sent in the response body
}

// Error implements the error interface.
// It returns a string representation of the HTTP error in the format "status: message".
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the specified status code and message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// WriteError answers w with err. An *HTTPError anywhere in the chain of err decides
// the status and message; any other error becomes statusCode with message.
func WriteError(w *common.Response, err error, statusCode int, message string) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.StatusCode
		message = httpErr.Message
	}
	return Text(w, statusCode, message)
}
