package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate limit key strategies.
const (
	StrategyIP     = "ip"     // client IP from props, falling back to request headers
	StrategyUser   = "user"   // authenticated principal, falling back to IP
	StrategyCustom = "custom" // RateLimitConfig.KeyExtractor
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Unique identifier for this rate limit bucket.
	// Routes sharing a BucketName share the same limits.
	BucketName string

	// Maximum number of requests allowed in the time window
	Limit int

	// Time window for the rate limit (e.g., 1 minute, 1 hour)
	Window time.Duration

	// Strategy for identifying clients: StrategyIP, StrategyUser or StrategyCustom
	Strategy string

	// Custom key extractor function (used when Strategy is StrategyCustom)
	KeyExtractor func(r *http.Request, props common.Props) (string, error)

	// Middleware run when the limit is exceeded.
	// If nil, a default 429 Too Many Requests response is sent.
	ExceededHandler Middleware
}

// RateLimiter defines the interface for rate limiting algorithms
type RateLimiter interface {
	// Allow reports whether a request for key is allowed, along with the number
	// of remaining requests and the time until another request is allowed.
	Allow(key string, limit int, window time.Duration) (bool, int, time.Duration)
}

// TokenBucketLimiter implements RateLimiter with one token bucket per key.
// Each bucket refills at limit/window and holds at most limit tokens.
type TokenBucketLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewTokenBucketLimiter creates an empty TokenBucketLimiter
func NewTokenBucketLimiter() *TokenBucketLimiter {
	return &TokenBucketLimiter{limiters: make(map[string]*rate.Limiter)}
}

// getLimiter gets or creates a limiter for the given key
func (l *TokenBucketLimiter) getLimiter(key string, limit int, window time.Duration) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
	l.limiters[key] = limiter
	return limiter
}

// Allow checks if a request is allowed based on the key and rate limit config.
// A non-positive limit is treated as 1 and a non-positive window as one second.
func (l *TokenBucketLimiter) Allow(key string, limit int, window time.Duration) (bool, int, time.Duration) {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}

	limiter := l.getLimiter(key, limit, window)
	perToken := window / time.Duration(limit)

	if !limiter.Allow() {
		return false, 0, perToken
	}

	remaining := int(math.Floor(limiter.Tokens()))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, perToken
}

// extractIP returns the client IP stored by ClientIP, falling back to the
// proxy headers and finally RemoteAddr
func extractIP(r *http.Request, props common.Props) string {
	if ip := GetClientIP(props); ip != "" {
		return ip
	}

	if ip := extractIPFromXForwardedFor(r); ip != "" {
		return ip
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	return cleanIP(r.RemoteAddr)
}

// rateLimitKey extracts the client key based on the configured strategy
func rateLimitKey(config *RateLimitConfig, r *http.Request, props common.Props) (string, error) {
	switch config.Strategy {
	case StrategyUser:
		if user, ok := GetUser(props); ok && user != "" {
			return user, nil
		}
		return extractIP(r, props), nil
	case StrategyCustom:
		if config.KeyExtractor != nil {
			return config.KeyExtractor(r, props)
		}
		return extractIP(r, props), nil
	default:
		return extractIP(r, props), nil
	}
}

// RateLimit creates a middleware that enforces rate limits.
// Allowed requests get X-RateLimit-* headers and continue; rejected requests also
// get Retry-After and are answered with 429 or by the configured ExceededHandler.
func RateLimit(config *RateLimitConfig, limiter RateLimiter, logger *zap.Logger) Middleware {
	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		// Skip rate limiting if config is nil
		if config == nil {
			next()
			return
		}

		key, err := rateLimitKey(config, r, props)
		if err != nil {
			logger.Error("Failed to extract rate limit key",
				zap.Error(err),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			_ = w.Respond(http.StatusInternalServerError, "Internal Server Error", "text/plain", []byte("500 Internal Server Error"))
			return
		}

		// Combine bucket name and key to create a unique identifier
		bucketKey := config.BucketName + ":" + key

		allowed, remaining, reset := limiter.Allow(bucketKey, config.Limit, config.Window)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if allowed {
			next()
			return
		}

		w.Header().Set("Retry-After", strconv.FormatInt(int64(math.Ceil(reset.Seconds())), 10))

		logger.Warn("Rate limit exceeded",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("key", key),
			zap.Int("limit", config.Limit),
		)

		if config.ExceededHandler != nil {
			config.ExceededHandler(w, r, props, func() {})
			return
		}
		_ = w.Respond(http.StatusTooManyRequests, "Too Many Requests", "text/plain", []byte("429 Too Many Requests"))
	}
}

// Throttle creates a middleware that paces requests per key to at most perSecond
// requests per second. Instead of rejecting, it blocks the request until the key's
// leaky bucket allows it through. keyFunc may be nil to throttle all requests together.
func Throttle(perSecond int, keyFunc func(r *http.Request, props common.Props) string) Middleware {
	var limiters sync.Map // map[string]ratelimit.Limiter

	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		key := ""
		if keyFunc != nil {
			key = keyFunc(r, props)
		}

		limiter, ok := limiters.Load(key)
		if !ok {
			limiter, _ = limiters.LoadOrStore(key, ratelimit.New(perSecond))
		}
		limiter.(ratelimit.Limiter).Take()

		next()
	}
}

// ThrottleByIP is a key function for Throttle that groups requests by client IP.
func ThrottleByIP(r *http.Request, props common.Props) string {
	return extractIP(r, props)
}
