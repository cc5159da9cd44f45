package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports operation timings and outcome counters
// as Prometheus collectors. It registers on its own registry so embedding
// processes control exposure.
type PrometheusMetricsRecorder struct {
	registry  *prometheus.Registry
	durations *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder constructs a recorder under the given
// namespace. An empty namespace defaults to "allocation".
func NewPrometheusMetricsRecorder(namespace string) *PrometheusMetricsRecorder {
	if namespace == "" {
		namespace = "allocation"
	}
	rec := &PrometheusMetricsRecorder{
		registry: prometheus.NewRegistry(),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Duration of allocation service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Count of allocation service operations by outcome.",
		}, []string{"operation", "status"}),
	}
	rec.registry.MustRegister(rec.durations, rec.outcomes)
	return rec
}

// Registry returns the registry holding the recorder's collectors, for
// mounting on a scrape endpoint.
func (r *PrometheusMetricsRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.outcomes.WithLabelValues(operation, status).Inc()
}
