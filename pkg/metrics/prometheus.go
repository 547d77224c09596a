package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values.
const (
	StatusOK        = "ok"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// defaultBuckets cover in-memory analysis runs (milliseconds).
var defaultBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // fixed bucket layout

// Manager owns the Prometheus collectors for engine runs and the HTTP API.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Run metrics
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	phaseDuration *prometheus.HistogramVec

	// Ingestion metrics
	ingested          *prometheus.CounterVec
	recordsDropped    *prometheus.CounterVec
	sourceUnavailable *prometheus.CounterVec

	// Ranking metrics
	evaluated          prometheus.Gauge
	reported           prometheus.Gauge
	counterpartDropped *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors are registered on a fresh private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "collab",
		subsystem:        "engine",
		histogramBuckets: defaultBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "analyze_runs_total",
		Help:        "Total number of analyze runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "analyze_duration_milliseconds",
		Help:        "End-to-end analyze latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.phaseDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "phase_duration_milliseconds",
		Help:        "Latency of each analyze phase in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"phase"})

	m.ingested = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "interactions_ingested_total",
		Help:        "Interactions accepted by the ingestion adapters",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.recordsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_dropped_total",
		Help:        "Raw records dropped during ingestion by reason",
		ConstLabels: m.constLabels,
	}, []string{"source", "reason"})

	m.sourceUnavailable = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "source_unavailable_total",
		Help:        "Sources whose retrieval failed",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.evaluated = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counterparts_evaluated",
		Help:        "Counterparts scored in the most recent run",
		ConstLabels: m.constLabels,
	})

	m.reported = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "collaborators_reported",
		Help:        "Collaborators surviving the filter in the most recent run",
		ConstLabels: m.constLabels,
	})

	m.counterpartDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counterparts_dropped_total",
		Help:        "Filter failures by reason (a counterpart may fail several rules)",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

func (m *Manager) active() bool { return m != nil && m.enabled }

// Registry returns the registry the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRun records the outcome and latency of one analyze call.
func (m *Manager) RecordRun(status string, d time.Duration) {
	if !m.active() {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(milliseconds(d))
}

// ObservePhase records the latency of one analyze phase.
func (m *Manager) ObservePhase(phase string, d time.Duration) {
	if !m.active() {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(milliseconds(d))
}

// AddIngested counts interactions accepted from a source.
func (m *Manager) AddIngested(source string, n int) {
	if !m.active() || n <= 0 {
		return
	}
	m.ingested.WithLabelValues(source).Add(float64(n))
}

// AddRecordsDropped counts raw records dropped during ingestion.
func (m *Manager) AddRecordsDropped(source, reason string, n int) {
	if !m.active() || n <= 0 {
		return
	}
	m.recordsDropped.WithLabelValues(source, reason).Add(float64(n))
}

// RecordSourceUnavailable counts a failed source retrieval.
func (m *Manager) RecordSourceUnavailable(source string) {
	if !m.active() {
		return
	}
	m.sourceUnavailable.WithLabelValues(source).Inc()
}

// SetRanking publishes the evaluated and surviving counterpart counts.
func (m *Manager) SetRanking(evaluated, reported int) {
	if !m.active() {
		return
	}
	m.evaluated.Set(float64(evaluated))
	m.reported.Set(float64(reported))
}

// AddCounterpartsDropped counts filter failures for one reason.
func (m *Manager) AddCounterpartsDropped(reason string, n int) {
	if !m.active() || n <= 0 {
		return
	}
	m.counterpartDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordHTTPRequest increments the HTTP request counter.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if !m.active() {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !m.active() {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
