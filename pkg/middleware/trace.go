package middleware

import (
	"net/http"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"github.com/google/uuid"
)

// TraceIDHeader is the response header carrying the trace ID.
const TraceIDHeader = "X-Trace-ID"

// Trace creates a middleware that generates a unique trace ID for each request,
// stores it in props and echoes it in the X-Trace-ID response header.
// A trace ID already present in props is kept.
func Trace() Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		traceID := GetTraceID(props)
		if traceID == "" {
			traceID = uuid.New().String()
			props[common.TraceIDKey] = traceID
		}

		w.Header().Set(TraceIDHeader, traceID)

		next()
	}
}

// GetTraceID extracts the trace ID from props.
// Returns an empty string if no trace ID is found.
func GetTraceID(props common.Props) string {
	return props.String(common.TraceIDKey)
}
