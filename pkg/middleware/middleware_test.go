package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// run executes middlewares followed by an optional terminal middleware and returns
// the recorder, the response and the props used.
func run(req *http.Request, middlewares ...Middleware) (*httptest.ResponseRecorder, *common.Response, common.Props) {
	rr := httptest.NewRecorder()
	res := common.NewResponse(rr)
	props := common.NewProps()
	common.NewMiddlewareChain(middlewares...).Run(res, req, props)
	return rr, res, props
}

// ok is a terminal middleware that answers 200 "OK"
func ok(w *common.Response, r *http.Request, props common.Props, next common.Next) {
	_ = w.Respond(http.StatusOK, "OK", "text/plain", []byte("OK"))
}

// TestChain tests the Chain function
func TestChain(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
			order = append(order, name+" before")
			next()
			order = append(order, name+" after")
		}
	}

	handler := func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusOK)
	}

	rr, _, _ := run(httptest.NewRequest("GET", "/test", nil),
		Chain(record("middleware1"), record("middleware2")),
		record("middleware3"),
		handler,
	)

	expected := []string{
		"middleware1 before",
		"middleware2 before",
		"middleware3 before",
		"handler",
		"middleware3 after",
		"middleware2 after",
		"middleware1 after",
	}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d middleware calls, got %d: %v", len(expected), len(order), order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("Expected %q at position %d, got %q", v, i, order[i])
		}
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, rr.Code)
	}
}

// TestChainStopsEarly tests that a chained middleware that does not continue ends the outer chain
func TestChainStopsEarly(t *testing.T) {
	var reached bool

	_, res, _ := run(httptest.NewRequest("GET", "/", nil),
		Chain(Header("X-A", "1"), func(w *common.Response, r *http.Request, props common.Props, next common.Next) {}),
		func(w *common.Response, r *http.Request, props common.Props, next common.Next) { reached = true },
	)

	if reached {
		t.Error("Expected the outer chain to stop")
	}
	if !res.Pending() {
		t.Error("Expected response to remain pending")
	}
}

// TestRecovery tests the Recovery middleware
func TestRecovery(t *testing.T) {
	// Create an observed zap logger to capture logs
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	panicking := func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		panic("test panic")
	}

	rr, _, _ := run(httptest.NewRequest("GET", "/test", nil), Recovery(logger), panicking)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status code %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("Expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "Panic recovered" {
		t.Errorf("Expected log message %q, got %q", "Panic recovered", entry.Message)
	}
	if entry.ContextMap()["panic"] != "test panic" {
		t.Errorf("Expected panic field %q, got %v", "test panic", entry.ContextMap()["panic"])
	}
}

// TestRecoveryLogsTraceID tests that the trace ID leads the panic log fields
func TestRecoveryLogsTraceID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	run(httptest.NewRequest("GET", "/test", nil),
		Trace(),
		Recovery(zap.New(core)),
		func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
			panic("traced panic")
		},
	)

	if logs.Len() != 1 {
		t.Fatalf("Expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Context[0].Key != "trace_id" {
		t.Errorf("Expected trace_id as first field, got %q", entry.Context[0].Key)
	}
	if entry.Context[0].String == "" {
		t.Error("Expected a non-empty trace ID")
	}
}

// TestRecoveryAfterResponse tests that a panic after responding does not overwrite the response
func TestRecoveryAfterResponse(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	rr, _, _ := run(httptest.NewRequest("GET", "/test", nil),
		Recovery(zap.New(core)),
		func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
			_ = w.Respond(http.StatusAccepted, "Accepted", "text/plain", []byte("accepted"))
			panic("late panic")
		},
	)

	if rr.Code != http.StatusAccepted {
		t.Errorf("Expected status code %d, got %d", http.StatusAccepted, rr.Code)
	}
	if rr.Body.String() != "accepted" {
		t.Errorf("Expected body %q, got %q", "accepted", rr.Body.String())
	}
	if logs.Len() != 1 {
		t.Errorf("Expected 1 log entry, got %d", logs.Len())
	}
}

// TestLogging tests the log level chosen by the Logging middleware
func TestLogging(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		level   zapcore.Level
		message string
	}{
		{"success", http.StatusOK, zap.DebugLevel, "Request"},
		{"client error", http.StatusBadRequest, zap.WarnLevel, "Client error"},
		{"server error", http.StatusBadGateway, zap.ErrorLevel, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)

			run(httptest.NewRequest("GET", "/logged", nil),
				Logging(zap.New(core)),
				func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
					w.WriteHeader(tt.status)
				},
			)

			if logs.Len() != 1 {
				t.Fatalf("Expected 1 log entry, got %d", logs.Len())
			}
			entry := logs.All()[0]
			if entry.Level != tt.level {
				t.Errorf("Expected level %v, got %v", tt.level, entry.Level)
			}
			if entry.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, entry.Message)
			}
			if entry.ContextMap()["status"] != int64(tt.status) {
				t.Errorf("Expected status field %d, got %v", tt.status, entry.ContextMap()["status"])
			}
		})
	}
}

// TestLoggingIncludesTraceID tests that the trace ID from props is logged first
func TestLoggingIncludesTraceID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	run(httptest.NewRequest("GET", "/", nil), Trace(), Logging(zap.New(core)), ok)

	if logs.Len() != 1 {
		t.Fatalf("Expected 1 log entry, got %d", logs.Len())
	}
	fields := logs.All()[0].Context
	if len(fields) == 0 || fields[0].Key != "trace_id" || fields[0].String == "" {
		t.Errorf("Expected trace_id as the first field, got %v", fields)
	}
}

// TestHeader tests the Header middleware
func TestHeader(t *testing.T) {
	rr, _, _ := run(httptest.NewRequest("GET", "/", nil), Header("X-Powered-By", "PipeRouter"), ok)

	if rr.Header().Get("X-Powered-By") != "PipeRouter" {
		t.Errorf("Expected header %q, got %q", "PipeRouter", rr.Header().Get("X-Powered-By"))
	}
	if rr.Body.String() != "OK" {
		t.Errorf("Expected body %q, got %q", "OK", rr.Body.String())
	}
}
