// Package jobmetrics holds the Prometheus collectors shared by the worker
// handlers and the web process that reads export results.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics groups the job collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs      *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	exports   *prometheus.CounterVec
	backendUp prometheus.Gauge
}

var (
	processOnce    sync.Once
	processMetrics *Metrics
)

// NewMetrics registers the collectors on reg. A nil reg shares one set
// registered on the default registerer, so repeated calls do not panic.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg != nil {
		return register(reg)
	}
	processOnce.Do(func() { processMetrics = register(prometheus.DefaultRegisterer) })
	return processMetrics
}

func register(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_jobs_total",
			Help: "Job executions by task type and outcome.",
		}, []string{"job", "status"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_jobs_failures_total",
			Help: "Failed job executions by task type.",
		}, []string{"job"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pharmacy_job_duration_seconds",
			Help:    "Job execution time.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"job"}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmacy_report_exports_total",
			Help: "Finished report exports by resource, format and status.",
		}, []string{"resource", "format", "status"}),
		backendUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "pharmacy_backend_up",
			Help: "1 when the last scheduled backend probe succeeded.",
		}),
	}
}

// Observe records one run of job that began at started and returns err so
// handlers can end with `return m.Observe(...)`.
func (m *Metrics) Observe(job string, started time.Time, err error) error {
	if m == nil || job == "" {
		return err
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
		m.failures.WithLabelValues(job).Inc()
	}
	m.runs.WithLabelValues(job, outcome).Inc()
	m.duration.WithLabelValues(job).Observe(time.Since(started).Seconds())
	return err
}

// AddExport counts a finished export.
func (m *Metrics) AddExport(resource, format, status string) {
	if m != nil {
		m.exports.WithLabelValues(resource, format, status).Inc()
	}
}

// SetBackendUp records the latest backend probe.
func (m *Metrics) SetBackendUp(up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.backendUp.Set(v)
}
