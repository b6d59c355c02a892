package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"github.com/rs/cors"
)

func TestCORSActualRequest(t *testing.T) {
	mw := CORS(cors.Options{AllowedOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rr, _, _ := run(req, mw, ok)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	mw := CORS(cors.Options{AllowedOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr, _, _ := run(req, mw, ok)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allowed origin header, got %q", got)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Expected request to continue, got %d", rr.Code)
	}
}

func TestCORSPreflightEndsChain(t *testing.T) {
	var reached bool

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")

	rr, res, _ := run(req, AllowAll(), func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		reached = true
	})

	if reached {
		t.Error("Expected preflight not to reach the handler")
	}
	if res.Pending() {
		t.Error("Expected preflight to be answered")
	}
	if rr.Code >= 300 {
		t.Errorf("Expected a successful preflight status, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected Access-Control-Allow-Methods on preflight")
	}
}
