package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"go.uber.org/zap"
)

// AuthProvider defines an interface for authentication providers.
// Different authentication mechanisms implement this interface to be used with
// the Authentication middleware.
type AuthProvider interface {
	// Authenticate examines the request for credentials and returns the
	// authenticated principal and true on success.
	Authenticate(r *http.Request) (string, bool)
}

// AuthProviderFunc adapts a function into an AuthProvider.
type AuthProviderFunc func(r *http.Request) (string, bool)

// Authenticate calls f(r).
func (f AuthProviderFunc) Authenticate(r *http.Request) (string, bool) {
	return f(r)
}

// BasicAuthProvider provides HTTP Basic Authentication.
// It validates username and password credentials against a predefined map.
// The principal is the username.
type BasicAuthProvider struct {
	Credentials map[string]string // username -> password
}

// Authenticate authenticates a request using HTTP Basic Authentication.
func (p *BasicAuthProvider) Authenticate(r *http.Request) (string, bool) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return "", false
	}

	expectedPassword, exists := p.Credentials[username]
	if !exists {
		return "", false
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(expectedPassword)) != 1 {
		return "", false
	}
	return username, true
}

// BearerTokenProvider provides Bearer Token Authentication.
// It can validate tokens against a predefined map or using a custom validator function.
type BearerTokenProvider struct {
	ValidTokens map[string]string                 // token -> principal
	Validator   func(token string) (string, bool) // optional token validator, takes precedence
}

// Authenticate authenticates a request using Bearer Token Authentication.
func (p *BearerTokenProvider) Authenticate(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return "", false
	}

	// If a validator is provided, use it
	if p.Validator != nil {
		return p.Validator(token)
	}

	principal, ok := p.ValidTokens[token]
	return principal, ok
}

// APIKeyProvider provides API Key Authentication.
// It can validate API keys provided in a header or query parameter.
type APIKeyProvider struct {
	ValidKeys map[string]string // key -> principal
	Header    string            // header name (e.g., "X-API-Key")
	Query     string            // query parameter name (e.g., "api_key")
}

// Authenticate authenticates a request using API Key Authentication.
// The header is checked before the query parameter.
func (p *APIKeyProvider) Authenticate(r *http.Request) (string, bool) {
	if p.Header != "" {
		if key := r.Header.Get(p.Header); key != "" {
			if principal, ok := p.ValidKeys[key]; ok {
				return principal, true
			}
		}
	}

	if p.Query != "" {
		if key := r.URL.Query().Get(p.Query); key != "" {
			if principal, ok := p.ValidKeys[key]; ok {
				return principal, true
			}
		}
	}

	return "", false
}

// Authentication is a middleware that authenticates requests with provider.
// On success the principal is stored in props and the chain continues; on failure
// the request is answered with 401 Unauthorized and the chain ends.
func Authentication(provider AuthProvider, logger *zap.Logger) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		principal, ok := provider.Authenticate(r)
		if !ok {
			logger.Warn("Authentication failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			_ = w.Respond(http.StatusUnauthorized, "Unauthorized", "text/plain", []byte("401 Unauthorized"))
			return
		}

		props[common.UserKey] = principal
		logger.Debug("Authentication successful",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)

		next()
	}
}

// OptionalAuthentication stores the principal when authentication succeeds and
// continues the chain regardless of the outcome.
func OptionalAuthentication(provider AuthProvider) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		if principal, ok := provider.Authenticate(r); ok {
			props[common.UserKey] = principal
		}
		next()
	}
}

// GetUser returns the principal stored by the authentication middleware.
func GetUser(props common.Props) (string, bool) {
	user, ok := props[common.UserKey].(string)
	return user, ok
}
