// Package metrics provides Prometheus metrics for the propcast projection pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Artifact I/O - every stage reads and writes full tabular files
	rowsRead    *prometheus.CounterVec
	rowsWritten *prometheus.CounterVec

	// Identity resolution quality
	namesMalformed  prometheus.Counter
	rowsMatched     *prometheus.CounterVec
	rowsUnmatched   *prometheus.CounterVec
	duplicateRows   prometheus.Counter
	fallbacksUsed   prometheus.Counter
	playersDropped  prometheus.Counter

	// Projection
	propsProjected *prometheus.CounterVec
	cohortSize     *prometheus.GaugeVec

	// Run health
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	runsCompleted prometheus.Counter
	runsFailed    prometheus.Counter
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
		namespace:        "propcast",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsRead = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_read_total",
			Help:      "Total data rows read, labelled by artifact",
		},
		[]string{"artifact"},
	)

	m.rowsWritten = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_written_total",
			Help:      "Total data rows written, labelled by artifact",
		},
		[]string{"artifact"},
	)

	m.namesMalformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "names_malformed_total",
		Help:      "Rows whose name field could not be normalized (data quality)",
	})

	m.rowsMatched = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_matched_total",
			Help:      "Stat rows matched against the canonical roster, by role",
		},
		[]string{"role"},
	)

	m.rowsUnmatched = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_unmatched_total",
			Help:      "Stat rows with no roster entry, by role (data quality)",
		},
		[]string{"role"},
	)

	m.duplicateRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_rows_total",
		Help:      "Tagged rows collapsed by the deduplicator",
	})

	m.fallbacksUsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fallback_substitutions_total",
		Help:      "Numeric fields substituted from the season fallback table",
	})

	m.playersDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_without_game_total",
		Help:      "Players excluded because no scheduled game covers their team",
	})

	m.propsProjected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "props_projected_total",
			Help:      "Projected props produced, by stat type",
		},
		[]string{"stat_type"},
	)

	m.cohortSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cohort_size",
			Help:      "Players in the current run's cohort, by stat type",
		},
		[]string{"stat_type"},
	)

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of each pipeline stage",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.stageErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_errors_total",
			Help:      "Structural stage failures that aborted a run, by stage",
		},
		[]string{"stage"},
	)

	m.runsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_completed_total",
		Help:      "Pipeline runs that reached the artifacts-written state",
	})

	m.runsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_failed_total",
		Help:      "Pipeline runs aborted by a stage failure",
	})
}

// Handler returns an http.Handler serving the custom registry,
// suitable for mounting at /metrics while a run is in flight.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

// RecordRowsRead adds n to the rows-read counter for an artifact.
func RecordRowsRead(artifact string, n int) {
	if globalManager.enabled {
		globalManager.rowsRead.WithLabelValues(artifact).Add(float64(n))
	}
}

// RecordRowsWritten adds n to the rows-written counter for an artifact.
func RecordRowsWritten(artifact string, n int) {
	if globalManager.enabled {
		globalManager.rowsWritten.WithLabelValues(artifact).Add(float64(n))
	}
}

// RecordMalformedName counts a row whose name failed normalization.
func RecordMalformedName() {
	if globalManager.enabled {
		globalManager.namesMalformed.Inc()
	}
}

// RecordMatched adds n matched rows for a role.
func RecordMatched(role string, n int) {
	if globalManager.enabled {
		globalManager.rowsMatched.WithLabelValues(role).Add(float64(n))
	}
}

// RecordUnmatched adds n unmatched rows for a role.
func RecordUnmatched(role string, n int) {
	if globalManager.enabled {
		globalManager.rowsUnmatched.WithLabelValues(role).Add(float64(n))
	}
}

// RecordDuplicates adds n rows collapsed by the deduplicator.
func RecordDuplicates(n int) {
	if globalManager.enabled {
		globalManager.duplicateRows.Add(float64(n))
	}
}

// RecordFallback counts one field substituted from the fallback table.
func RecordFallback() {
	if globalManager.enabled {
		globalManager.fallbacksUsed.Inc()
	}
}

// RecordPlayerWithoutGame counts a player excluded for lack of game context.
func RecordPlayerWithoutGame() {
	if globalManager.enabled {
		globalManager.playersDropped.Inc()
	}
}

// RecordPropsProjected adds n projected props for a stat type.
func RecordPropsProjected(statType string, n int) {
	if globalManager.enabled {
		globalManager.propsProjected.WithLabelValues(statType).Add(float64(n))
	}
}

// UpdateCohortSize sets the cohort gauge for a stat type.
func UpdateCohortSize(statType string, n int) {
	if globalManager.enabled {
		globalManager.cohortSize.WithLabelValues(statType).Set(float64(n))
	}
}

// RecordStageDuration observes a stage's wall-clock duration in seconds.
func RecordStageDuration(stage string, seconds float64) {
	if globalManager.enabled {
		globalManager.stageDuration.WithLabelValues(stage).Observe(seconds)
	}
}

// RecordStageError counts a structural stage failure.
func RecordStageError(stage string) {
	if globalManager.enabled {
		globalManager.stageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordRunCompleted counts a run that wrote all artifacts.
func RecordRunCompleted() {
	if globalManager.enabled {
		globalManager.runsCompleted.Inc()
	}
}

// RecordRunFailed counts an aborted run.
func RecordRunFailed() {
	if globalManager.enabled {
		globalManager.runsFailed.Inc()
	}
}
