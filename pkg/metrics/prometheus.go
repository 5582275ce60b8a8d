// Package metrics provides Prometheus metrics for the laureates dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sizeBuckets covers filtered subset sizes from a handful of rows to the full dataset.
var sizeBuckets = []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // bucket layout

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dataset metrics - populated once per load
	datasetRecords      prometheus.Gauge
	datasetRowsDropped  *prometheus.CounterVec
	datasetUnmapped     prometheus.Gauge
	datasetLoadDuration prometheus.Gauge

	// View metrics - one observation per recomputation
	viewComputations    prometheus.Counter
	viewComputeDuration prometheus.Histogram
	viewFilteredRecords prometheus.Histogram
	viewEmpty           prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "laureates",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.datasetRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_records",
		Help:        "Number of records retained after cleaning",
		ConstLabels: labels,
	})

	m.datasetRowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_rows_dropped_total",
		Help:        "Rows dropped while loading the dataset, by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.datasetUnmapped = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_unmapped_countries",
		Help:        "Distinct birth-country names without an ISO 3166 code",
		ConstLabels: labels,
	})

	m.datasetLoadDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Duration of the last dataset load in milliseconds",
		ConstLabels: labels,
	})

	m.viewComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_computations_total",
		Help:        "Total number of filter and aggregate recomputations",
		ConstLabels: labels,
	})

	m.viewComputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_compute_duration_milliseconds",
		Help:        "Histogram of view recomputation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.viewFilteredRecords = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_filtered_records",
		Help:        "Histogram of filtered subset sizes",
		Buckets:     sizeBuckets,
		ConstLabels: labels,
	})

	m.viewEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_empty_total",
		Help:        "Recomputations whose filtered subset was empty",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_rate_limited_total",
		Help:        "Requests rejected by the rate limiter",
		ConstLabels: labels,
	}, []string{"endpoint"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Errors by HTTP endpoint",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutines",
		Help:        "Number of live goroutines",
		ConstLabels: labels,
	})
}

// RecordDatasetLoad publishes the outcome of a dataset load.
func (m *Manager) RecordDatasetLoad(records int, dropped map[string]int, unmapped int, durationMs float64) {
	if !m.enabled {
		return
	}
	m.datasetRecords.Set(float64(records))
	for reason, n := range dropped {
		m.datasetRowsDropped.WithLabelValues(reason).Add(float64(n))
	}
	m.datasetUnmapped.Set(float64(unmapped))
	m.datasetLoadDuration.Set(durationMs)
}

// RecordViewComputation records one recomputation cycle.
func (m *Manager) RecordViewComputation(filtered int, durationMs float64) {
	if !m.enabled {
		return
	}
	m.viewComputations.Inc()
	m.viewComputeDuration.Observe(durationMs)
	m.viewFilteredRecords.Observe(float64(filtered))
	if filtered == 0 {
		m.viewEmpty.Inc()
	}
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Manager) RecordRateLimited(endpoint string) {
	if !m.enabled {
		return
	}
	m.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordError records an error against both the type and endpoint breakdowns.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem publishes process memory and goroutine gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Global helpers delegate to the process-wide manager.

// RecordDatasetLoad publishes the outcome of a dataset load.
func RecordDatasetLoad(records int, dropped map[string]int, unmapped int, durationMs float64) {
	globalManager.RecordDatasetLoad(records, dropped, unmapped, durationMs)
}

// RecordViewComputation records one recomputation cycle.
func RecordViewComputation(filtered int, durationMs float64) {
	globalManager.RecordViewComputation(filtered, durationMs)
}

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.RecordRateLimited(endpoint)
}

// RecordError records an error by endpoint, type and severity.
func RecordError(endpoint, method, errorType, severity string) {
	globalManager.RecordError(endpoint, method, errorType, severity)
}

// UpdateSystem publishes process memory and goroutine gauges.
func UpdateSystem(memBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memBytes, goroutines)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
