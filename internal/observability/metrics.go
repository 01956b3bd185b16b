package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for tracking and detached work.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	TrackedEventsTotal    *prometheus.CounterVec
	DetachedTasksInFlight prometheus.Gauge
	DetachedTasksTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TrackedEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_analytics_tracked_events_total",
				Help: "Total number of tracked view/action events by outcome",
			},
			[]string{"target_type", "action", "outcome"},
		),
		DetachedTasksInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "coupon_analytics_detached_tasks_in_flight",
				Help: "Number of background tasks currently running",
			},
		),
		DetachedTasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_analytics_detached_tasks_total",
				Help: "Total number of background tasks by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.TrackedEventsTotal,
		m.DetachedTasksInFlight,
		m.DetachedTasksTotal,
	)
	return m
}

// ObserveTrack counts one tracked event.
func (m *Metrics) ObserveTrack(targetType, action string, ok bool) {
	if m == nil {
		return
	}
	m.TrackedEventsTotal.WithLabelValues(targetType, action, outcome(ok)).Inc()
}

// TaskStarted marks a background task as running.
func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.DetachedTasksInFlight.Inc()
}

// TaskFinished marks a background task as done.
func (m *Metrics) TaskFinished(ok bool) {
	if m == nil {
		return
	}
	m.DetachedTasksInFlight.Dec()
	m.DetachedTasksTotal.WithLabelValues(outcome(ok)).Inc()
}

// TaskDropped counts a task rejected because the dispatcher is draining.
func (m *Metrics) TaskDropped() {
	if m == nil {
		return
	}
	m.DetachedTasksTotal.WithLabelValues("dropped").Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
