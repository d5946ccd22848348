package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	goruntime "runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/optionsbot/internal/logging"
	"github.com/aretw0/optionsbot/internal/runtime"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// Runner executes Monte Carlo batches. A Runner holds only configuration and
// may run several batches concurrently.
type Runner struct {
	trials       int
	workers      int
	seed         uint64
	seedSet      bool
	keepOutcomes bool
	overrides    map[string]float64
	logger       *slog.Logger
	hooks        domain.BatchHooks
	newSampler   func(seed uint64) runtime.Sampler
}

// New creates a Runner with DefaultTrials trials and one worker per CPU.
func New(opts ...Option) *Runner {
	r := &Runner{
		trials: DefaultTrials,
		logger: logging.NewNop(),
		newSampler: func(seed uint64) runtime.Sampler {
			return runtime.NewSampler(seed)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the batch and returns its report. The first failing trial
// aborts the batch.
func (r *Runner) Run(ctx context.Context, prog *runtime.Program) (*domain.Report, error) {
	if r.trials < 1 || r.trials > MaxTrials {
		return nil, fmt.Errorf("%w: %d not in 1..%d", domain.ErrInvalidTrials, r.trials, MaxTrials)
	}
	if len(r.overrides) > 0 {
		prog = prog.WithVariables(r.overrides)
	}

	seed := r.seed
	if !r.seedSet {
		seed = rand.Uint64()
	}
	workers := r.workers
	if workers <= 0 {
		workers = goruntime.GOMAXPROCS(0)
	}
	workers = min(workers, r.trials)

	report := &domain.Report{ID: uuid.NewString(), Seed: seed}
	logger := r.logger.With("report_id", report.ID)
	started := time.Now()

	batch := &domain.BatchEvent{ReportID: report.ID, Trials: r.trials, Workers: workers, Seed: seed}
	if r.hooks.OnBatchStart != nil {
		r.hooks.OnBatchStart(ctx, batch)
	}
	logger.Debug("batch started", "trials", r.trials, "workers", workers, "seed", seed)

	outcomes := make([]domain.Outcome, r.trials)
	var sample domain.SimulationResult

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := w; i < r.trials; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}

				result, err := prog.Run(runtime.NewMemory(r.newSampler(trialSeed(seed, i))))
				if err != nil {
					err = fmt.Errorf("trial %d: %w", i, err)
					r.trial(gctx, report.ID, i, domain.Outcome{}, err)
					return err
				}

				outcomes[i] = domain.Outcome{Months: result.Months, Profit: result.Profit}
				if i == 0 {
					sample = result
				}
				r.trial(gctx, report.ID, i, outcomes[i], nil)
			}
			return nil
		})
	}

	err := g.Wait()
	batch.Duration = time.Since(started)
	batch.Err = err
	if r.hooks.OnBatchEnd != nil {
		r.hooks.OnBatchEnd(ctx, batch)
	}
	if err != nil {
		logger.Warn("batch aborted", "err", err, "duration", batch.Duration)
		return nil, err
	}

	report.CreatedAt = time.Now().UTC()
	report.Summary = Summarize(outcomes)
	report.Sample = &sample
	if r.keepOutcomes {
		report.Outcomes = outcomes
	}

	logger.Info("batch finished",
		"trials", r.trials,
		"duration", batch.Duration,
		"mean_profit", report.Summary.MeanProfit,
		"p_profit", report.Summary.ProbabilityProfit,
	)
	return report, nil
}

func (r *Runner) trial(ctx context.Context, id string, i int, o domain.Outcome, err error) {
	if r.hooks.OnTrial == nil {
		return
	}
	r.hooks.OnTrial(ctx, &domain.TrialEvent{ReportID: id, Index: i, Outcome: o, Err: err})
}

// trialSeed mixes the batch seed with the trial index (splitmix64) so that
// neighbouring trials get unrelated streams.
func trialSeed(seed uint64, i int) uint64 {
	z := seed + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
