// Package metrics provides Prometheus metrics for the scorenight service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Console commands
	commandsTotal *prometheus.CounterVec
	commandErrors *prometheus.CounterVec

	// Broadcast hub
	broadcastsTotal  prometheus.Counter
	broadcastDropped prometheus.Counter
	snapshotsSent    prometheus.Counter
	subscriberCount  prometheus.Gauge

	// Reveal state
	revealMutations *prometheus.CounterVec

	// Scoring
	scoreSubmissions prometheus.Counter
	duplicateAwards  prometheus.Counter
	finalizations    prometheus.Counter

	// Publish queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scorenight",
		subsystem:        "live",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.commandsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "commands_total",
		Help:      "Console commands executed, by command name.",
	}, []string{"command"})

	m.commandErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_errors_total",
		Help:      "Console commands rejected, by command name and reason.",
	}, []string{"command", "reason"})

	m.broadcastsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcasts_total",
		Help:      "Display messages fanned out to subscribers.",
	})

	m.broadcastDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcasts_dropped_total",
		Help:      "Per-subscriber deliveries dropped due to a full buffer or dead connection.",
	})

	m.snapshotsSent = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_sent_total",
		Help:      "Full reveal-state snapshots pushed to (re)connecting subscribers.",
	})

	m.subscriberCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subscribers",
		Help:      "Currently connected display subscribers.",
	})

	m.revealMutations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reveal_mutations_total",
		Help:      "Reveal-state mutations, by operation.",
	}, []string{"op"})

	m.scoreSubmissions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_submissions_total",
		Help:      "Score submissions accepted.",
	})

	m.duplicateAwards = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_awards_total",
		Help:      "Custom bonus awards rejected as duplicates.",
	})

	m.finalizations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "finalizations_total",
		Help:      "Weeks finalized.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_queue_size",
		Help:      "Messages currently waiting in the publish queue.",
	})

	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_queue_capacity",
		Help:      "Configured capacity of the publish queue.",
	})

	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_queue_utilization",
		Help:      "Publish queue fill ratio (0.0-1.0).",
	})

	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_queue_enqueue_errors_total",
		Help:      "Failed enqueues into the publish queue.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Allocated heap bytes.",
	})

	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current goroutine count.",
	})
}

// Package-level helpers operating on the global manager.

// RecordCommand increments the counter for an executed console command.
func RecordCommand(command string) {
	globalManager.commandsTotal.WithLabelValues(command).Inc()
}

// RecordCommandError increments the rejection counter for a command.
func RecordCommandError(command, reason string) {
	globalManager.commandErrors.WithLabelValues(command, reason).Inc()
}

// RecordBroadcast increments the fan-out counter.
func RecordBroadcast() {
	globalManager.broadcastsTotal.Inc()
}

// RecordBroadcastDrop increments the dropped-delivery counter.
func RecordBroadcastDrop() {
	globalManager.broadcastDropped.Inc()
}

// RecordSnapshot increments the snapshot push counter.
func RecordSnapshot() {
	globalManager.snapshotsSent.Inc()
}

// UpdateSubscriberCount sets the connected subscriber gauge.
func UpdateSubscriberCount(n int) {
	globalManager.subscriberCount.Set(float64(n))
}

// RecordRevealMutation increments the reveal-state mutation counter.
func RecordRevealMutation(op string) {
	globalManager.revealMutations.WithLabelValues(op).Inc()
}

// RecordScoreSubmission increments the score submission counter.
func RecordScoreSubmission() {
	globalManager.scoreSubmissions.Inc()
}

// RecordDuplicateAward increments the duplicate-award rejection counter.
func RecordDuplicateAward() {
	globalManager.duplicateAwards.Inc()
}

// RecordFinalization increments the finalized-weeks counter.
func RecordFinalization() {
	globalManager.finalizations.Inc()
}

// UpdateQueueSize sets the publish queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the publish queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the publish queue utilization gauge.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueueError increments the failed-enqueue counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes a request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
