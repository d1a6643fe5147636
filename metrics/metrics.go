// Package metrics exposes Prometheus counters for the ingestion pipelines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts pipeline executions by pipeline name and
	// outcome status (created, already-exists, failed).
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dse2db",
		Name:      "pipeline_runs_total",
		Help:      "Pipeline executions by pipeline and outcome.",
	}, []string{"pipeline", "status"})

	// RowsImported counts persisted rows by kind (stocks, quotes).
	RowsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dse2db",
		Name:      "rows_imported_total",
		Help:      "Rows persisted by kind.",
	}, []string{"kind"})

	// AlertsTriggered counts price alerts that fired.
	AlertsTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dse2db",
		Name:      "alerts_triggered_total",
		Help:      "Price alerts that fired.",
	})
)

// ObserveRun records one pipeline outcome.
func ObserveRun(pipeline, status string, rows int, kind string) {
	PipelineRuns.WithLabelValues(pipeline, status).Inc()
	if rows > 0 {
		RowsImported.WithLabelValues(kind).Add(float64(rows))
	}
}
