package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Metrics holds the batch collectors.
type Metrics struct {
	Batches       *prometheus.CounterVec
	Trials        *prometheus.CounterVec
	Profit        prometheus.Histogram
	BatchDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optionsbot_batches_total",
				Help: "Total number of Monte Carlo batches by status",
			},
			[]string{"status"},
		),
		Trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optionsbot_trials_total",
				Help: "Total number of simulated trials by outcome",
			},
			[]string{"outcome"},
		),
		Profit: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "optionsbot_trial_profit",
				Help:    "Profit of each simulated trial",
				Buckets: []float64{-1e5, -1e4, 0, 1e4, 1e5, 1e6, 1e7, 1e8},
			},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "optionsbot_batch_duration_seconds",
				Help:    "Duration of Monte Carlo batches",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Batches, m.Trials, m.Profit, m.BatchDuration)
	}
	return m
}

// Hooks records batch and trial events.
func (m *Metrics) Hooks() domain.BatchHooks {
	return domain.BatchHooks{
		OnTrial: func(_ context.Context, e *domain.TrialEvent) {
			m.Trials.WithLabelValues(trialOutcome(e)).Inc()
			if e.Err == nil {
				m.Profit.Observe(e.Outcome.Profit)
			}
		},
		OnBatchEnd: func(_ context.Context, e *domain.BatchEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.Batches.WithLabelValues(status).Inc()
			m.BatchDuration.Observe(e.Duration.Seconds())
		},
	}
}

func trialOutcome(e *domain.TrialEvent) string {
	switch {
	case e.Err != nil:
		return "error"
	case e.Outcome.Profit > 0:
		return "profit"
	case e.Outcome.Profit < 0:
		return "loss"
	default:
		return "zero"
	}
}
