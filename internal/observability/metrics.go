// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	SessionsIngested prometheus.Counter
	SessionsRejected *prometheus.CounterVec
	SessionsStored   prometheus.Counter

	// Analysis metrics
	StakesEstimated     prometheus.Counter
	StakesExcluded      *prometheus.CounterVec
	BootstrapTrialsRun  prometheus.Counter
	TrialsSimulated     prometheus.Counter
	RecommendationsMade *prometheus.CounterVec

	// Latency metrics
	SimulateDuration prometheus.Histogram
	DBQueryDuration  *prometheus.HistogramVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bankroll_lab"
	}

	return &Metrics{
		SessionsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "sessions_ingested_total",
			Help:      "Total number of raw sessions ingested",
		}),
		SessionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "sessions_rejected_total",
			Help:      "Total number of sessions rejected by validation, by reason",
		}, []string{"reason"}),
		SessionsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "sessions_stored_total",
			Help:      "Total number of sessions stored to database",
		}),

		StakesEstimated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "stakes_estimated_total",
			Help:      "Total number of per-stake estimates computed",
		}),
		StakesExcluded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "stakes_excluded_total",
			Help:      "Total number of stakes excluded from a phase, by reason",
		}, []string{"phase", "reason"}),
		BootstrapTrialsRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "bootstrap_trials_total",
			Help:      "Total number of bootstrap resampling trials run",
		}),
		TrialsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "trials_simulated_total",
			Help:      "Total number of Monte Carlo bankroll trials simulated",
		}),
		RecommendationsMade: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "recommendations_total",
			Help:      "Total number of stake recommendations made, by verdict",
		}, []string{"verdict"}),

		SimulateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "simulate_duration_seconds",
			Help:      "Duration of one stake/horizon Monte Carlo batch in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by phase and status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline phase duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"phase"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of report files generated",
		}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSessionIngested increments the sessions ingested counter.
func RecordSessionIngested() {
	DefaultMetrics.SessionsIngested.Inc()
}

// RecordSessionRejected records a validation rejection.
func RecordSessionRejected(reason string) {
	DefaultMetrics.SessionsRejected.WithLabelValues(reason).Inc()
}

// RecordStakeExcluded records a stake dropped from a pipeline phase.
func RecordStakeExcluded(phase, reason string) {
	DefaultMetrics.StakesExcluded.WithLabelValues(phase, reason).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordPipelineRun records a pipeline phase outcome.
func RecordPipelineRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}
