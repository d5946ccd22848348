package domain

import (
	"context"
	"time"
)

// BatchEvent describes a Monte Carlo batch at its start or end.
type BatchEvent struct {
	ReportID string
	Trials   int
	Workers  int
	Seed     uint64
	// Duration and Err are set only at the end of a batch.
	Duration time.Duration
	Err      error
}

// TrialEvent describes one finished trial.
type TrialEvent struct {
	ReportID string
	Index    int
	Outcome  Outcome
	Err      error
}

// BatchHooks defines callbacks for batch observability.
// Hooks may be called from several goroutines at once.
type BatchHooks struct {
	OnBatchStart func(context.Context, *BatchEvent)
	OnTrial      func(context.Context, *TrialEvent)
	OnBatchEnd   func(context.Context, *BatchEvent)
}

// Merge returns hooks that call h first and then other.
func (h BatchHooks) Merge(other BatchHooks) BatchHooks {
	return BatchHooks{
		OnBatchStart: chain(h.OnBatchStart, other.OnBatchStart),
		OnTrial:      chain(h.OnTrial, other.OnTrial),
		OnBatchEnd:   chain(h.OnBatchEnd, other.OnBatchEnd),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
