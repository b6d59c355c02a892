package router

import (
	"net/http"
	"testing"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
)

func TestMount(t *testing.T) {
	child := newTestRouter()
	child.UseRouteMatching()
	child.Get("/ping", text("pong"))

	parent := newTestRouter()
	parent.Mount("/api", child)

	if child.BasePath() != "/api" {
		t.Errorf("Expected child base path %q, got %q", "/api", child.BasePath())
	}

	rr := serve(parent, "GET", "/api/ping")
	if rr.Code != http.StatusOK || rr.Body.String() != "pong" {
		t.Errorf("Expected 200 pong, got %d %q", rr.Code, rr.Body.String())
	}

	assertNotFound(t, serve(parent, "GET", "/ping"))
}

func TestNestedMount(t *testing.T) {
	users := newTestRouter()
	users.UseRouteMatching()
	users.Get("/users/:id", func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		_ = Text(w, http.StatusOK, "user "+GetParam(props, "id"))
	})

	v1 := newTestRouter()
	api := newTestRouter()
	root := newTestRouter()

	// Mount from the outside in so every level sees its parent's final base path
	root.Mount("/api", api)
	api.Mount("/v1", v1)
	v1.Mount("", users)

	if users.BasePath() != "/api/v1" {
		t.Errorf("Expected base path %q, got %q", "/api/v1", users.BasePath())
	}

	rr := serve(root, "GET", "/api/v1/users/9")
	if rr.Body.String() != "user 9" {
		t.Errorf("Expected body %q, got %q", "user 9", rr.Body.String())
	}
}

func TestMountedRouterAnswersItsOwnNotFound(t *testing.T) {
	var parentLaterRan bool

	child := newTestRouter()
	child.UseRouteMatching()
	child.Get("/ping", text("pong"))

	parent := newTestRouter()
	parent.Mount("/api", child)
	parent.Use(func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		parentLaterRan = true
		_ = Text(w, http.StatusOK, "parent")
	})

	// The child sends the fallback before the parent's later middleware gets a chance
	assertNotFound(t, serve(parent, "GET", "/elsewhere"))
	if parentLaterRan {
		t.Error("Expected parent middleware registered after Mount not to run")
	}
}

func TestMountAfterParentRoutes(t *testing.T) {
	child := newTestRouter()
	child.UseRouteMatching()
	child.Get("/ping", text("child pong"))

	parent := newTestRouter()
	parent.UseRouteMatching()
	parent.Get("/health", text("healthy"))
	parent.Mount("/api", child)

	if rr := serve(parent, "GET", "/health"); rr.Body.String() != "healthy" {
		t.Errorf("Expected parent route to answer, got %q", rr.Body.String())
	}
	if rr := serve(parent, "GET", "/api/ping"); rr.Body.String() != "child pong" {
		t.Errorf("Expected child route to answer, got %q", rr.Body.String())
	}
}

func TestMountedChildSharesProps(t *testing.T) {
	child := newTestRouter()
	child.UseRouteMatching()
	child.Get("/whoami", func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		_ = Text(w, http.StatusOK, props.String("tenant"))
	})

	parent := newTestRouter()
	parent.Use(func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		props["tenant"] = "acme"
		next()
	})
	parent.Mount("/t", child)

	rr := serve(parent, "GET", "/t/whoami")
	if rr.Body.String() != "acme" {
		t.Errorf("Expected body %q, got %q", "acme", rr.Body.String())
	}
}
