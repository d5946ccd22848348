package optionsbot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/internal/logging"
	"github.com/aretw0/optionsbot/internal/validator"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/ports"
	"github.com/aretw0/optionsbot/pkg/runner"
	"github.com/aretw0/optionsbot/pkg/schema"
)

// reportLockTTL bounds how long a report write may hold its lock.
const reportLockTTL = 10 * time.Second

// Engine compiles programs, runs Monte Carlo batches and keeps their reports.
type Engine struct {
	compilerOpts []compiler.Option
	runnerOpts   []runner.Option
	store        ports.ReportStore
	locker       ports.DistributedLocker
	library      ports.ScenarioLibrary
	constraints  schema.Schema
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCompilerOptions sets options for every compilation.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(e *Engine) {
		e.compilerOpts = append(e.compilerOpts, opts...)
	}
}

// WithRunnerOptions sets defaults for every batch. Options passed to Simulate
// are applied after these.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, opts...)
	}
}

// WithReportStore keeps the report of every batch.
func WithReportStore(store ports.ReportStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker guards report writes with a distributed lock.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLibrary sets where named scenarios are loaded from.
func WithLibrary(lib ports.ScenarioLibrary) Option {
	return func(e *Engine) {
		e.library = lib
	}
}

// WithConstraints adds header rules checked by Check.
func WithConstraints(s schema.Schema) Option {
	return func(e *Engine) {
		e.constraints = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile parses and compiles src with the engine's compiler options.
func (e *Engine) Compile(src string) (*Program, error) {
	opts := append([]compiler.Option{compiler.WithLogger(e.logger)}, e.compilerOpts...)
	return Compile(src, opts...)
}

// Check compiles src and lints it. The program must compile; the findings
// describe mistakes that do not stop it from running.
func (e *Engine) Check(src string) ([]validator.Finding, error) {
	prog, err := compiler.Parse(src)
	if err != nil {
		return nil, err
	}
	if _, err := compiler.Compile(prog, e.compilerOpts...); err != nil {
		return nil, err
	}
	return validator.Lint(prog, e.constraints), nil
}

// Simulate compiles src, runs a batch and stores its report when a store is set.
func (e *Engine) Simulate(ctx context.Context, src string, opts ...runner.Option) (*domain.Report, error) {
	prog, err := e.Compile(src)
	if err != nil {
		return nil, err
	}

	all := append([]runner.Option{runner.WithLogger(e.logger)}, e.runnerOpts...)
	report, err := runner.New(append(all, opts...)...).Run(ctx, prog)
	if err != nil {
		return nil, err
	}

	if err := e.save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// SimulateScenario runs a named scenario from the library. A scenario that
// sets its own trial count overrides the engine default but not opts.
func (e *Engine) SimulateScenario(ctx context.Context, name string, opts ...runner.Option) (*domain.Report, error) {
	s, err := e.Scenario(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.Trials > 0 {
		opts = append([]runner.Option{runner.WithTrials(s.Trials)}, opts...)
	}
	return e.Simulate(ctx, s.Source, opts...)
}

// Scenario loads a named scenario.
func (e *Engine) Scenario(ctx context.Context, name string) (*domain.Scenario, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: no library configured", domain.ErrScenarioNotFound)
	}
	return e.library.Get(ctx, name)
}

// Scenarios lists the library.
func (e *Engine) Scenarios(ctx context.Context) ([]string, error) {
	if e.library == nil {
		return nil, nil
	}
	return e.library.List(ctx)
}

// Report loads a stored report.
func (e *Engine) Report(ctx context.Context, id string) (*domain.Report, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	}
	return e.store.Load(ctx, id)
}

func (e *Engine) save(ctx context.Context, report *domain.Report) error {
	if e.store == nil {
		return nil
	}
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, report.ID, reportLockTTL)
		if err != nil {
			return fmt.Errorf("lock report %s: %w", report.ID, err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				e.logger.Warn("failed to release report lock", "report_id", report.ID, "err", err)
			}
		}()
	}
	if err := e.store.Save(ctx, report); err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}
	return nil
}
