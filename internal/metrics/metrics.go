// Package metrics exposes machine execution as Prometheus metrics fed by lifecycle hooks.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/turing/pkg/domain"
)

// Metrics holds the collectors updated by Hooks.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Runs        *prometheus.CounterVec
	RunSteps    prometheus.Histogram
}

// New creates the collectors and registers them with reg (skipped when nil).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_transitions_total",
				Help: "Total number of applied transitions, by head movement.",
			},
			[]string{"move"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of finished runs, by outcome.",
			},
			[]string{"outcome"},
		),
		RunSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Machine step counter at the end of each run.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Runs, m.RunSteps)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Transitions.WithLabelValues(e.Move).Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			outcome := "halted"
			if !e.Halted {
				outcome = e.Reason
			}
			m.Runs.WithLabelValues(outcome).Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
	}
}
