package runner_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/internal/runtime"
	"github.com/aretw0/optionsbot/internal/testutils"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/runner"
)

func compile(t *testing.T, src string) *runtime.Program {
	t.Helper()
	ast, err := compiler.Parse(src)
	require.NoError(t, err)
	prog, err := compiler.Compile(ast)
	require.NoError(t, err)
	return prog
}

func TestRunner_ReproducibleAcrossWorkerCounts(t *testing.T) {
	prog := compile(t, testutils.SampleProgram)

	one, err := runner.New(runner.WithTrials(500), runner.WithSeed(7), runner.WithWorkers(1)).Run(context.Background(), prog)
	require.NoError(t, err)
	many, err := runner.New(runner.WithTrials(500), runner.WithSeed(7), runner.WithWorkers(8)).Run(context.Background(), prog)
	require.NoError(t, err)

	assert.Equal(t, one.Summary, many.Summary)
	assert.Equal(t, uint64(7), one.Seed)
	assert.NotEqual(t, one.ID, many.ID)
	assert.Equal(t, 500, one.Summary.Trials)
}

func TestRunner_SeedsDiffer(t *testing.T) {
	prog := compile(t, testutils.SampleProgram)

	a, err := runner.New(runner.WithTrials(300), runner.WithSeed(1)).Run(context.Background(), prog)
	require.NoError(t, err)
	b, err := runner.New(runner.WithTrials(300), runner.WithSeed(2)).Run(context.Background(), prog)
	require.NoError(t, err)

	assert.NotEqual(t, a.Summary.MeanProfit, b.Summary.MeanProfit)
}

func TestRunner_Report(t *testing.T) {
	prog := compile(t, testutils.SampleProgram)

	report, err := runner.New(runner.WithTrials(50), runner.WithKeepOutcomes(true)).Run(context.Background(), prog)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.False(t, report.CreatedAt.IsZero())
	assert.Len(t, report.Outcomes, 50)
	require.NotNil(t, report.Sample)
	assert.NotEmpty(t, report.Sample.Events)
	assert.Equal(t, report.Outcomes[0].Profit, report.Sample.Profit)

	for _, o := range report.Outcomes {
		assert.GreaterOrEqual(t, o.Months, 0.0)
	}
	assert.LessOrEqual(t, report.Summary.MinProfit, report.Summary.Percentiles[50])
	assert.GreaterOrEqual(t, report.Summary.MaxProfit, report.Summary.Percentiles[50])
}

func TestRunner_DropsOutcomesByDefault(t *testing.T) {
	report, err := runner.New(runner.WithTrials(10)).Run(context.Background(), compile(t, testutils.SampleProgram))
	require.NoError(t, err)
	assert.Nil(t, report.Outcomes)
}

func TestRunner_InvalidTrials(t *testing.T) {
	prog := compile(t, testutils.SampleProgram)

	for _, n := range []int{0, -3, runner.MaxTrials + 1, 1 << 62} {
		_, err := runner.New(runner.WithTrials(n), runner.WithSeed(1)).Run(context.Background(), prog)
		assert.ErrorIs(t, err, domain.ErrInvalidTrials, "trials=%d", n)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(runner.WithTrials(1000)).Run(ctx, compile(t, testutils.SampleProgram))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_TrialFailureAbortsBatch(t *testing.T) {
	var failures atomic.Int32
	var ended *domain.BatchEvent

	r := runner.New(
		runner.WithTrials(20),
		runner.WithHooks(domain.BatchHooks{
			OnTrial: func(_ context.Context, e *domain.TrialEvent) {
				if e.Err != nil {
					failures.Add(1)
				}
			},
			OnBatchEnd: func(_ context.Context, e *domain.BatchEvent) { ended = e },
		}),
	)

	_, err := r.Run(context.Background(), compile(t, "[]{c_1: fail()}"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingVariable)
	assert.GreaterOrEqual(t, failures.Load(), int32(1))
	require.NotNil(t, ended)
	assert.Error(t, ended.Err)
}

func TestRunner_Hooks(t *testing.T) {
	var starts, trials, ends atomic.Int32
	hooks := domain.BatchHooks{
		OnBatchStart: func(context.Context, *domain.BatchEvent) { starts.Add(1) },
		OnTrial:      func(context.Context, *domain.TrialEvent) { trials.Add(1) },
		OnBatchEnd:   func(context.Context, *domain.BatchEvent) { ends.Add(1) },
	}

	_, err := runner.New(
		runner.WithTrials(40),
		runner.WithWorkers(4),
		runner.WithHooks(hooks),
		runner.WithHooks(domain.BatchHooks{OnTrial: hooks.OnTrial}),
	).Run(context.Background(), compile(t, testutils.SampleProgram))
	require.NoError(t, err)

	assert.Equal(t, int32(1), starts.Load())
	assert.Equal(t, int32(80), trials.Load(), "merged hooks both fire")
	assert.Equal(t, int32(1), ends.Load())
}

func TestRunner_SamplerFactoryAndOverrides(t *testing.T) {
	r := runner.New(
		runner.WithTrials(5),
		runner.WithSamplerFactory(func(uint64) runtime.Sampler { return testutils.NewSequenceSampler(0.05) }),
		runner.WithVariables(map[string]float64{domain.VarStartMonthLow: 3, domain.VarStartMonthHigh: 3}),
	)

	report, err := r.Run(context.Background(), compile(t, testutils.SampleProgram))
	require.NoError(t, err)

	// Every trial replays the same draws, so the spread is zero.
	assert.Equal(t, report.Summary.MinProfit, report.Summary.MaxProfit)
	assert.Equal(t, 0.0, report.Summary.StdDevProfit)
	assert.InDelta(t, 3, report.Sample.Events[0].Month, 1e-9, "start delay override applies")
}
