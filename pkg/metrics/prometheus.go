// Package metrics provides Prometheus instrumentation for PipeRouter.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config defines which request metrics a Collector records.
type Config struct {
	Namespace        string // Namespace for metrics
	Subsystem        string // Subsystem for metrics
	EnableLatency    bool   // Record a request duration histogram
	EnableThroughput bool   // Record response bytes written
	EnableQPS        bool   // Record a request counter
	EnableErrors     bool   // Record a counter of 4xx and 5xx responses
	Buckets          []float64
}

// Collector records request metrics into a Prometheus registry.
// All methods are safe for concurrent use.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	bytes     *prometheus.CounterVec
	notFounds prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with a fresh registry.
func NewCollector(config Config) *Collector {
	return NewCollectorWithRegistry(prometheus.NewRegistry(), config)
}

// NewCollectorWithRegistry creates a Collector that registers its metrics with registry.
// It panics if the metrics are already registered, like prometheus.MustRegister.
func NewCollectorWithRegistry(registry *prometheus.Registry, config Config) *Collector {
	buckets := config.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	c := &Collector{
		config:   config,
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "requests_total",
			Help:      "Total number of dispatched requests.",
		}, []string{"method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "request_errors_total",
			Help:      "Total number of requests answered with a 4xx or 5xx status.",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "Time spent running the request pipeline.",
			Buckets:   buckets,
		}, []string{"method"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "response_bytes_total",
			Help:      "Total number of response body bytes written.",
		}, []string{"method"}),
		notFounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "not_found_total",
			Help:      "Total number of not-found fallbacks sent by routers, mounted routers included.",
		}),
	}

	registry.MustRegister(c.requests, c.errors, c.latency, c.bytes, c.notFounds)

	return c
}

// Observe records one completed request.
func (c *Collector) Observe(method string, statusCode int, duration time.Duration, bytesWritten int64) {
	status := strconv.Itoa(statusCode)

	if c.config.EnableQPS {
		c.requests.WithLabelValues(method, status).Inc()
	}

	if c.config.EnableErrors && statusCode >= 400 {
		c.errors.WithLabelValues(method, status).Inc()
	}

	if c.config.EnableLatency {
		c.latency.WithLabelValues(method).Observe(duration.Seconds())
	}

	if c.config.EnableThroughput && bytesWritten > 0 {
		c.bytes.WithLabelValues(method).Add(float64(bytesWritten))
	}
}

// NotFound counts one not-found fallback.
func (c *Collector) NotFound() {
	c.notFounds.Inc()
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
