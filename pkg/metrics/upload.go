package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UploadMetrics records per-step outcomes of the upload pipeline.
type UploadMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	degraded *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewUploadMetrics registers the upload metrics on the provided registerer.
func NewUploadMetrics(reg prometheus.Registerer) *UploadMetrics {
	if reg == nil {
		return &UploadMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upload_step_duration_seconds",
		Help:    "Duration of upload pipeline steps in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_step_success",
		Help: "Upload pipeline steps that completed.",
	}, []string{"step"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_step_degraded",
		Help: "Upload pipeline steps that failed but let the upload continue.",
	}, []string{"step"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_step_failure",
		Help: "Upload pipeline steps that aborted the upload.",
	}, []string{"step"})
	reg.MustRegister(duration, success, degraded, failure)
	return &UploadMetrics{
		duration: duration,
		success:  success,
		degraded: degraded,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named step.
func (u *UploadMetrics) ObserveDuration(step string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(step)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named step.
func (u *UploadMetrics) IncSuccess(step string) {
	if u == nil || u.success == nil {
		return
	}
	u.success.WithLabelValues(normalizeLabel(step)).Inc()
}

// IncDegraded increments the degraded counter for the named step.
func (u *UploadMetrics) IncDegraded(step string) {
	if u == nil || u.degraded == nil {
		return
	}
	u.degraded.WithLabelValues(normalizeLabel(step)).Inc()
}

// IncFailure increments the failure counter for the named step.
func (u *UploadMetrics) IncFailure(step string) {
	if u == nil || u.failure == nil {
		return
	}
	u.failure.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(step string) string {
	if step == "" {
		return "unknown"
	}
	return step
}
