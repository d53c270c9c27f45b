package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records latency and outcome counts for upstream fetches.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream fetch metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_fetch_duration_seconds",
		Help:    "Duration of upstream API fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_fetch_success",
		Help: "Successful upstream fetches.",
	}, []string{"resource"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_fetch_failure",
		Help: "Failed upstream fetches.",
	}, []string{"resource", "reason"})
	reg.MustRegister(duration, success, failure)
	return &UpstreamMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the fetch duration for the named resource.
func (m *UpstreamMetrics) ObserveDuration(resource string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(resource)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named resource.
func (m *UpstreamMetrics) IncSuccess(resource string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(resource)).Inc()
}

// IncFailure increments the failure counter for the named resource and reason.
func (m *UpstreamMetrics) IncFailure(resource, reason string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(resource), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
