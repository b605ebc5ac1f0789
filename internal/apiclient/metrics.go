package apiclient

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend call counts and latency per resource.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the backend collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pharmacy_backend_requests_total",
		Help: "Backend REST calls partitioned by resource and outcome.",
	}, []string{"resource", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pharmacy_backend_request_duration_seconds",
		Help:    "Backend REST call latency per resource.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	registerer.MustRegister(requests, duration)
	return &Metrics{requests: requests, duration: duration}
}

func (m *Metrics) observe(path string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := resourceOf(path)
	outcome := "success"
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.requests.WithLabelValues(resource, outcome).Inc()
	m.duration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

func resourceOf(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
