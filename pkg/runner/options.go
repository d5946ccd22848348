package runner

import (
	"log/slog"

	"github.com/aretw0/optionsbot/internal/runtime"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// DefaultTrials is the number of trials a batch runs unless told otherwise.
const DefaultTrials = 10000

// MaxTrials caps a single batch. Outcomes are kept in memory, so the cap
// bounds a batch to a few hundred megabytes.
const MaxTrials = 10_000_000

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithTrials sets the number of trials per batch.
func WithTrials(n int) Option {
	return func(r *Runner) {
		r.trials = n
	}
}

// WithWorkers sets the size of the worker pool. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithSeed fixes the batch seed. Without it every batch draws a random seed,
// which is still recorded in the report.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
		r.seedSet = true
	}
}

// WithKeepOutcomes stores every trial outcome in the report.
func WithKeepOutcomes(keep bool) Option {
	return func(r *Runner) {
		r.keepOutcomes = keep
	}
}

// WithVariables overrides header variables for every trial.
func WithVariables(overrides map[string]float64) Option {
	return func(r *Runner) {
		r.overrides = overrides
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls add to the hooks
// already registered.
func WithHooks(hooks domain.BatchHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithSamplerFactory replaces the random source used for each trial.
func WithSamplerFactory(factory func(seed uint64) runtime.Sampler) Option {
	return func(r *Runner) {
		r.newSampler = factory
	}
}
