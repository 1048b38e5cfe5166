package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Refresh metrics
	RefreshRequestsTotal   *prometheus.CounterVec
	RefreshDuration        *prometheus.HistogramVec
	RefreshRecordsTotal    *prometheus.CounterVec
	RefreshSkippedTotal    *prometheus.CounterVec
	ListingsLoaded         prometheus.Gauge

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryTotal    *prometheus.CounterVec
	DBErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// refreshBuckets cover bulk loads, which run far longer than single requests
var refreshBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		RefreshRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "refresh",
				Name:      "requests_total",
				Help:      "Total number of bulk-load refresh invocations",
			},
			[]string{"kind"},
		),
		RefreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ipo_analytics",
				Subsystem: "refresh",
				Name:      "duration_seconds",
				Help:      "Duration of bulk-load refreshes in seconds",
				Buckets:   refreshBuckets,
			},
			[]string{"kind", "status"},
		),
		RefreshRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "refresh",
				Name:      "records_total",
				Help:      "Total number of listing records processed by refreshes",
			},
			[]string{"kind"},
		),
		RefreshSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "refresh",
				Name:      "skipped_records_total",
				Help:      "Total number of malformed raw records skipped during normalization",
			},
			[]string{"kind"},
		),
		ListingsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ipo_analytics",
				Subsystem: "refresh",
				Name:      "listings_loaded",
				Help:      "Number of listing records persisted by the most recent refresh",
			},
		),

		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ipo_analytics",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ipo_analytics",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "db",
				Name:      "queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "Total number of database errors",
			},
			[]string{"operation", "table"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ipo_analytics",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ipo_analytics",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ipo_analytics",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ipo_analytics",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance, creating an unregistered
// one if InitMetrics has not been called (useful for tests)
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		globalMetrics = NewMetrics(prometheus.NewRegistry())
	}
	return globalMetrics
}

// RecordRefreshRequest increments the refresh request counter
func (m *Metrics) RecordRefreshRequest(kind string) {
	m.RefreshRequestsTotal.WithLabelValues(kind).Inc()
}

// RecordRefreshResult records the outcome of a completed refresh
func (m *Metrics) RecordRefreshResult(kind, status string, records, skipped int, duration time.Duration) {
	m.RefreshDuration.WithLabelValues(kind, status).Observe(duration.Seconds())
	m.RefreshRecordsTotal.WithLabelValues(kind).Add(float64(records))
	m.RefreshSkippedTotal.WithLabelValues(kind).Add(float64(skipped))
	m.ListingsLoaded.Set(float64(records))
}

// RecordExternalAPIRequest increments the external API request counter
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError increments the external API error counter
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records external API call duration
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query with its duration
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, table).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError increments the database error counter
func (m *Metrics) RecordDBError(operation, table string) {
	m.DBErrorsTotal.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// SetCircuitBreakerState sets the circuit breaker state gauge
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip increments the circuit breaker trip counter
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
	m     *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{start: time.Now(), m: m}
}

// ObserveExternalAPI records the elapsed time as an external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.m.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// ObserveDB records the elapsed time as a database query duration
func (t *Timer) ObserveDB(operation, table string) {
	t.m.RecordDBQuery(operation, table, time.Since(t.start))
}

// Duration returns the elapsed time since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
