package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the console
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Geo service (upstream) Metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Session store Metrics
	SessionStoreOpsTotal *prometheus.CounterVec

	// Console action Metrics
	ActionsTotal      *prometheus.CounterVec
	QueryResultsTotal *prometheus.CounterVec
	DroppedTokens     prometheus.Counter
	RateLimited       *prometheus.CounterVec
}

// New creates all metrics and registers them with reg
// Pass prometheus.DefaultRegisterer in main and a fresh registry in tests,
// registering the same names twice on one registry panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		// Geo service Metrics
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_service_requests_total",
				Help: "Total number of calls to the geo-query service",
			},
			[]string{"operation", "status"},
		),

		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geo_service_request_duration_seconds",
				Help:    "Geo-query service latency in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),

		// Session store Metrics
		SessionStoreOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "session_store_operations_total",
				Help: "Total number of session store operations",
			},
			[]string{"operation", "result"},
		),

		// Console action Metrics
		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_actions_total",
				Help: "Total number of console actions by outcome",
			},
			[]string{"action", "result"},
		),

		QueryResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_query_results_total",
				Help: "Total number of records returned by queries, per geometry type",
			},
			[]string{"type"},
		),

		DroppedTokens: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_dropped_coordinate_tokens_total",
				Help: "Total number of malformed coordinate tokens dropped from query input",
			},
		),

		RateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_rate_limited_total",
				Help: "Total number of requests rejected by a rate limiter",
			},
			[]string{"limiter"},
		),
	}
}
