package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records outbox dispatch outcomes per channel.
type DispatchMetrics struct {
	duration  *prometheus.HistogramVec
	delivered *prometheus.CounterVec
	queued    *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_duration_seconds",
		Help:    "Duration of outbox event dispatch in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_delivered_total",
		Help: "Notifications delivered through the direct transport.",
	}, []string{"channel"})
	queued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_queued_total",
		Help: "Notifications diverted to a durable fallback queue.",
	}, []string{"channel"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_failed_total",
		Help: "Dispatch attempts that failed outright.",
	}, []string{"channel"})
	reg.MustRegister(duration, delivered, queued, failed)
	return &DispatchMetrics{
		duration:  duration,
		delivered: delivered,
		queued:    queued,
		failed:    failed,
	}
}

// ObserveDuration records the dispatch latency for a channel.
func (d *DispatchMetrics) ObserveDuration(channel string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

// IncDelivered increments the direct delivery counter.
func (d *DispatchMetrics) IncDelivered(channel string) {
	if d == nil || d.delivered == nil {
		return
	}
	d.delivered.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncQueued increments the fallback queue counter.
func (d *DispatchMetrics) IncQueued(channel string) {
	if d == nil || d.queued == nil {
		return
	}
	d.queued.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncFailed increments the failure counter.
func (d *DispatchMetrics) IncFailed(channel string) {
	if d == nil || d.failed == nil {
		return
	}
	d.failed.WithLabelValues(normalizeLabel(channel)).Inc()
}
