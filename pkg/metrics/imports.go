package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records the outcome of catalog import jobs.
type ImportMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewImportMetrics registers the import pipeline metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_import_duration_seconds",
		Help:    "Duration of catalog import jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_jobs_total",
		Help: "Catalog import jobs by terminal outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &ImportMetrics{duration: duration, outcomes: outcomes}
}

// ObserveRun records one finished import run.
func (m *ImportMetrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	m.outcomes.WithLabelValues(outcome).Inc()
}
