package compiler

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/optionsbot/internal/logging"
	"github.com/aretw0/optionsbot/internal/runtime"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// Compiler lowers a parsed Program into a runtime instruction tree.
type Compiler struct {
	lenientElse bool
	logger      *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLenientElse accepts several else branches per actor group and picks one
// uniformly at run time instead of rejecting the program.
func WithLenientElse() Option {
	return func(c *Compiler) {
		c.lenientElse = true
	}
}

// WithLogger sets the logger used for compile diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile is a shorthand for New(opts...).Compile(prog).
func Compile(prog *domain.Program, opts ...Option) (*runtime.Program, error) {
	return New(opts...).Compile(prog)
}

// pending pairs a source branch set with the stage it compiles into.
type pending struct {
	set   domain.BranchSet
	stage *runtime.Stage
}

// Compile validates every branch set and builds the instruction tree.
// Nested raise bodies are handled with a work list rather than recursion.
func (c *Compiler) Compile(prog *domain.Program) (*runtime.Program, error) {
	root := &runtime.Stage{}
	queue := []pending{{set: prog.Root, stage: root}}
	stages := 0

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		stages++

		for _, actor := range []domain.Actor{domain.ActorEmployee, domain.ActorCompany} {
			sel, err := c.selector(p.set, actor, &queue)
			if err != nil {
				return nil, err
			}
			if actor == domain.ActorEmployee {
				p.stage.Employee = sel
			} else {
				p.stage.Company = sel
			}
		}
	}

	c.logger.Debug("program compiled", "stages", stages, "variables", len(prog.Variables))

	return &runtime.Program{
		Variables: append([]domain.Assignment(nil), prog.Variables...),
		Root:      root,
	}, nil
}

func (c *Compiler) selector(set domain.BranchSet, actor domain.Actor, queue *[]pending) (runtime.Selector, error) {
	var (
		sel   runtime.Selector
		total float64
		first *domain.Branch
	)

	for i := range set {
		b := &set[i]
		if b.Actor != actor {
			continue
		}
		if first == nil {
			first = b
		}

		op := c.op(b.Action, queue)
		if b.Chance.Else {
			if len(sel.Else) > 0 && !c.lenientElse {
				return sel, fmt.Errorf("%w %q at line %d:%d", domain.ErrMultipleElse, actor, b.Pos.Line, b.Pos.Column)
			}
			sel.Else = append(sel.Else, op)
			continue
		}

		total += b.Chance.P
		sel.Choices = append(sel.Choices, runtime.Choice{P: b.Chance.P, Op: op})
	}

	if total > 1+domain.ProbabilityEpsilon {
		return sel, fmt.Errorf("%w: %s branches starting at line %d:%d sum to %g",
			domain.ErrProbabilityOverflow, actorName(actor), first.Pos.Line, first.Pos.Column, total)
	}
	return sel, nil
}

func (c *Compiler) op(action domain.Action, queue *[]pending) runtime.Op {
	switch a := action.(type) {
	case domain.Buy:
		return runtime.Op{Kind: domain.KindBuy, Percent: a.Percent / 100}
	case domain.Sell:
		return runtime.Op{Kind: domain.KindSell, Low: a.Low, High: a.High, Units: a.Units}
	case domain.IPO:
		return runtime.Op{Kind: domain.KindIPO, Low: a.Low, High: a.High, Units: a.Units}
	case domain.Raise:
		next := &runtime.Stage{}
		*queue = append(*queue, pending{set: a.Next, stage: next})
		return runtime.Op{
			Kind:       domain.KindRaise,
			FMVLow:     a.FMVLow,
			FMVHigh:    a.FMVHigh,
			DiluteLow:  a.DiluteLow / 100,
			DiluteHigh: a.DiluteHigh / 100,
			DelayLow:   a.DelayLow,
			DelayHigh:  a.DelayHigh,
			Next:       next,
		}
	default:
		return runtime.Op{Kind: action.Kind()}
	}
}

func actorName(a domain.Actor) string {
	if a == domain.ActorCompany {
		return "company"
	}
	return "employee"
}
