package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PlatformMetrics records the marketplace's core lifecycle activity.
type PlatformMetrics struct {
	transitions *prometheus.CounterVec
	provisions  *prometheus.CounterVec
	toggles     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPlatformMetrics registers the lifecycle metrics on the provided registerer.
func NewPlatformMetrics(reg prometheus.Registerer) *PlatformMetrics {
	if reg == nil {
		return &PlatformMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "project_status_transitions",
		Help: "Project status transitions by from/to status and outcome.",
	}, []string{"from", "to", "outcome"})
	provisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donor_profile_resolutions",
		Help: "Donor profile resolutions by source (cache, store, created).",
	}, []string{"source"})
	toggles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_toggles",
		Help: "Wishlist toggle operations by resulting action.",
	}, []string{"action"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "operation_duration_seconds",
		Help:    "Duration of core marketplace operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(transitions, provisions, toggles, duration)
	return &PlatformMetrics{
		transitions: transitions,
		provisions:  provisions,
		toggles:     toggles,
		duration:    duration,
	}
}

// IncTransition counts one attempted status transition.
func (p *PlatformMetrics) IncTransition(from, to, outcome string) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to), normalizeLabel(outcome)).Inc()
}

// IncProvision counts a donor profile resolution by its source.
func (p *PlatformMetrics) IncProvision(source string) {
	if p == nil || p.provisions == nil {
		return
	}
	p.provisions.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncToggle counts one wishlist toggle by the action taken.
func (p *PlatformMetrics) IncToggle(action string) {
	if p == nil || p.toggles == nil {
		return
	}
	p.toggles.WithLabelValues(normalizeLabel(action)).Inc()
}

// ObserveDuration records how long the named operation took.
func (p *PlatformMetrics) ObserveDuration(operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
