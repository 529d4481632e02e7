// Package metrics provides Prometheus metrics for the revgate engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Engine activity
	scoresComputed      prometheus.Counter
	projectionsComputed prometheus.Counter
	awardsApplied       prometheus.Counter
	awardsDuplicate     prometheus.Counter
	pointsAwarded       prometheus.Counter
	unlockTransitions   *prometheus.CounterVec
	validationFailures  *prometheus.CounterVec

	// Persistence pipeline
	autosaveSuccess prometheus.Counter
	autosaveFailure prometheus.Counter
	saveQueueSize   prometheus.Gauge
	saveQueueCap    prometheus.Gauge

	// Operational
	profileCount   prometheus.Gauge
	workerCount    prometheus.Gauge
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "revgate",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}

	m.scoresComputed = prometheus.NewCounter(factory("scores_computed_total", "Fit scores computed."))
	m.projectionsComputed = prometheus.NewCounter(factory("projections_computed_total", "Cost projections computed."))
	m.awardsApplied = prometheus.NewCounter(factory("awards_applied_total", "Award events applied to the ledger."))
	m.awardsDuplicate = prometheus.NewCounter(factory("awards_duplicate_total", "Award events rejected as duplicates."))
	m.pointsAwarded = prometheus.NewCounter(factory("points_awarded_total", "Cumulative competency points awarded."))
	m.unlockTransitions = prometheus.NewCounterVec(factory("unlock_transitions_total", "Locked-to-unlocked transitions per tool."), []string{"tool"})
	m.validationFailures = prometheus.NewCounterVec(factory("validation_failures_total", "Validation and configuration errors by component."), []string{"component", "kind"})

	m.autosaveSuccess = prometheus.NewCounter(factory("autosave_success_total", "Successful background profile saves."))
	m.autosaveFailure = prometheus.NewCounter(factory("autosave_failure_total", "Failed background profile saves."))
	m.saveQueueSize = prometheus.NewGauge(gaugeOpts("save_queue_size", "Pending save requests."))
	m.saveQueueCap = prometheus.NewGauge(gaugeOpts("save_queue_capacity", "Save queue capacity."))

	m.profileCount = prometheus.NewGauge(gaugeOpts("profiles", "Competency profiles tracked."))
	m.workerCount = prometheus.NewGauge(gaugeOpts("workers", "Persistence workers running."))
	m.memoryUsage = prometheus.NewGauge(gaugeOpts("memory_bytes", "Heap bytes in use."))
	m.goroutineCount = prometheus.NewGauge(gaugeOpts("goroutines", "Goroutines running."))

	m.httpRequests = prometheus.NewCounterVec(factory("http_requests_total", "HTTP requests by endpoint, method and status."), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint"})

	m.registry.MustRegister(
		m.scoresComputed, m.projectionsComputed,
		m.awardsApplied, m.awardsDuplicate, m.pointsAwarded,
		m.unlockTransitions, m.validationFailures,
		m.autosaveSuccess, m.autosaveFailure,
		m.saveQueueSize, m.saveQueueCap,
		m.profileCount, m.workerCount,
		m.memoryUsage, m.goroutineCount,
		m.httpRequests, m.httpRequestDuration,
	)
}

// Handler returns an http.Handler serving the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handler exposes the global registry for the /metrics route.
func Handler() http.Handler { return globalManager.Handler() }

// Package-level recording helpers against the global manager.

func RecordScoreComputed() { globalManager.scoresComputed.Inc() }

func RecordProjectionComputed() { globalManager.projectionsComputed.Inc() }

func RecordAwardApplied(points float64) {
	globalManager.awardsApplied.Inc()
	globalManager.pointsAwarded.Add(points)
}

func RecordAwardDuplicate() { globalManager.awardsDuplicate.Inc() }

func RecordUnlockTransition(tool string) {
	globalManager.unlockTransitions.WithLabelValues(tool).Inc()
}

func RecordValidationFailure(component, kind string) {
	globalManager.validationFailures.WithLabelValues(component, kind).Inc()
}

func RecordAutosaveSuccess() { globalManager.autosaveSuccess.Inc() }

func RecordAutosaveFailure() { globalManager.autosaveFailure.Inc() }

func UpdateSaveQueueSize(n int) { globalManager.saveQueueSize.Set(float64(n)) }

func UpdateSaveQueueCapacity(n int) { globalManager.saveQueueCap.Set(float64(n)) }

func UpdateProfileCount(n int) { globalManager.profileCount.Set(float64(n)) }

func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

func UpdateMemoryUsage(bytes uint64) { globalManager.memoryUsage.Set(float64(bytes)) }

func UpdateGoroutineCount(n int) { globalManager.goroutineCount.Set(float64(n)) }

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(endpoint, method, status string, durationSeconds float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}
