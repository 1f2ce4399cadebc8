package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds the prometheus instruments for pipeline runs.
type PipelineMetrics struct {
	RowsRead    prometheus.Counter
	RowsKept    prometheus.Counter
	RowsDropped *prometheus.CounterVec
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewPipelineMetrics registers the pipeline instruments with the given
// registerer. Pass prometheus.DefaultRegisterer in production and a fresh
// registry in tests.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		RowsRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "retail_pipeline_rows_read_total",
			Help: "Raw transaction rows read from the dataset.",
		}),
		RowsKept: factory.NewCounter(prometheus.CounterOpts{
			Name: "retail_pipeline_rows_kept_total",
			Help: "Rows that passed every cleaning rule.",
		}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retail_pipeline_rows_dropped_total",
			Help: "Rows removed during cleaning, labelled by rule.",
		}, []string{"rule"}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "retail_pipeline_runs_total",
			Help: "Pipeline runs, labelled by outcome.",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "retail_pipeline_run_duration_seconds",
			Help:    "Wall time of a full pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
