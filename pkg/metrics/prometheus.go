// Package metrics provides Prometheus metrics for the render inspector service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the render inspector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - render tracking quality
	rendersTracked    prometheus.Counter
	rendersUnnecessary prometheus.Counter
	renderDuration    prometheus.Histogram
	patternDetections *prometheus.CounterVec
	stormsDetected    prometheus.Counter
	stormsActive      prometheus.Gauge

	// Tracker Metrics - ring buffer and stats map health
	ringSize       prometheus.Gauge
	ringCapacity   prometheus.Gauge
	ringEvictions  prometheus.Counter
	componentCount prometheus.Gauge
	trackLatency   prometheus.Histogram

	// Broadcast Metrics - cross-context delivery
	broadcastSent     *prometheus.CounterVec
	broadcastReceived *prometheus.CounterVec
	broadcastErrors   *prometheus.CounterVec
	broadcastDropped  prometheus.Counter
	fallbackActive    prometheus.Gauge

	// Archive Metrics - session archive writes and queries
	archiveWrites       prometheus.Counter
	archiveWriteErrors  prometheus.Counter
	archiveWriteLatency prometheus.Histogram
	archiveQueryLatency prometheus.Histogram

	// Queue Metrics - archive write queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker Metrics - archive writer pool
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "inspector",
		subsystem:        "render",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.rendersTracked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_tracked_total",
		Help:      "Total number of render events ingested by the tracker",
	})

	m.rendersUnnecessary = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_unnecessary_total",
		Help:      "Total number of render events classified as unnecessary",
	})

	m.renderDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_milliseconds",
		Help:      "Histogram of reported render durations in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.patternDetections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pattern_detections_total",
			Help:      "Total number of anti-pattern detections by pattern name",
		},
		[]string{"pattern"},
	)

	m.stormsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storms_detected_total",
		Help:      "Total number of render storms that crossed the threshold",
	})

	m.stormsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storms_active",
		Help:      "Number of components currently in a render storm",
	})

	// Tracker Metrics
	m.ringSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ring_size",
		Help:      "Current number of records held in the ring buffer",
	})

	m.ringCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ring_capacity",
		Help:      "Configured capacity of the ring buffer",
	})

	m.ringEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ring_evictions_total",
		Help:      "Total number of records evicted FIFO from the ring buffer",
	})

	m.componentCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "component_count",
		Help:      "Number of distinct component instances with stats",
	})

	m.trackLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "track_latency_milliseconds",
		Help:      "Latency of a single trackRender call in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Broadcast Metrics
	m.broadcastSent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "broadcast_sent_total",
			Help:      "Total number of envelopes sent by transport",
		},
		[]string{"transport"},
	)

	m.broadcastReceived = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "broadcast_received_total",
			Help:      "Total number of envelopes received by transport",
		},
		[]string{"transport"},
	)

	m.broadcastErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "broadcast_errors_total",
			Help:      "Total number of transport errors by transport and type",
		},
		[]string{"transport", "error_type"},
	)

	m.broadcastDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_dropped_total",
		Help:      "Total number of envelopes dropped (malformed, foreign channel, or own echo)",
	})

	m.fallbackActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_fallback_active",
		Help:      "1 when the storage fallback transport is active, 0 for the primary",
	})

	// Archive Metrics
	m.archiveWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_writes_total",
		Help:      "Total number of records persisted to the session archive",
	})

	m.archiveWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_write_errors_total",
		Help:      "Total number of session archive write failures",
	})

	m.archiveWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_write_latency_milliseconds",
		Help:      "Session archive write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.archiveQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_query_latency_milliseconds",
		Help:      "Session archive query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Queue Metrics
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the archive write queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum archive write queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (current size / capacity)",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of records enqueued for archiving",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of records dequeued by archive writers",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of enqueue errors",
	})

	// Worker Metrics
	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active archive writer workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Archive writer processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of archive writer errors",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRenderTracked increments the tracked render events counter.
func RecordRenderTracked() {
	globalManager.rendersTracked.Inc()
}

// RecordUnnecessaryRender increments the unnecessary renders counter.
func RecordUnnecessaryRender() {
	globalManager.rendersUnnecessary.Inc()
}

// RecordRenderDuration records a reported render duration in milliseconds.
func RecordRenderDuration(durationMs float64) {
	globalManager.renderDuration.Observe(durationMs)
}

// RecordPatternDetection increments the detection counter for a pattern.
func RecordPatternDetection(pattern string) {
	globalManager.patternDetections.WithLabelValues(pattern).Inc()
}

// RecordStormDetected increments the storms detected counter.
func RecordStormDetected() {
	globalManager.stormsDetected.Inc()
}

// UpdateStormsActive sets the number of components currently in storm.
func UpdateStormsActive(count int) {
	globalManager.stormsActive.Set(float64(count))
}

// Tracker Metrics Functions.

// UpdateRingSize sets the current ring buffer size.
func UpdateRingSize(size int) {
	globalManager.ringSize.Set(float64(size))
}

// UpdateRingCapacity sets the configured ring buffer capacity.
func UpdateRingCapacity(capacity int) {
	globalManager.ringCapacity.Set(float64(capacity))
}

// RecordRingEviction increments the ring eviction counter.
func RecordRingEviction() {
	globalManager.ringEvictions.Inc()
}

// UpdateComponentCount sets the number of tracked component instances.
func UpdateComponentCount(count int) {
	globalManager.componentCount.Set(float64(count))
}

// RecordTrackLatency records a single trackRender latency.
func RecordTrackLatency(latencyMs float64) {
	globalManager.trackLatency.Observe(latencyMs)
}

// Broadcast Metrics Functions.

// RecordBroadcastSent increments the sent counter for a transport.
func RecordBroadcastSent(transport string) {
	globalManager.broadcastSent.WithLabelValues(transport).Inc()
}

// RecordBroadcastReceived increments the received counter for a transport.
func RecordBroadcastReceived(transport string) {
	globalManager.broadcastReceived.WithLabelValues(transport).Inc()
}

// RecordBroadcastError increments the error counter for a transport.
func RecordBroadcastError(transport, errorType string) {
	globalManager.broadcastErrors.WithLabelValues(transport, errorType).Inc()
}

// RecordBroadcastDropped increments the dropped envelope counter.
func RecordBroadcastDropped() {
	globalManager.broadcastDropped.Inc()
}

// UpdateFallbackActive flags whether the storage fallback transport is active.
func UpdateFallbackActive(active bool) {
	if active {
		globalManager.fallbackActive.Set(1)
	} else {
		globalManager.fallbackActive.Set(0)
	}
}

// Archive Metrics Functions.

// RecordArchiveWrite increments the archive write counter.
func RecordArchiveWrite() {
	globalManager.archiveWrites.Inc()
}

// RecordArchiveWriteError increments the archive write error counter.
func RecordArchiveWriteError() {
	globalManager.archiveWriteErrors.Inc()
}

// RecordArchiveWriteLatency records archive write latency.
func RecordArchiveWriteLatency(latencyMs float64) {
	globalManager.archiveWriteLatency.Observe(latencyMs)
}

// RecordArchiveQueryLatency records archive query latency.
func RecordArchiveQueryLatency(latencyMs float64) {
	globalManager.archiveQueryLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
