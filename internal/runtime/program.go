package runtime

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// Program is a compiled simulation. It is immutable once built and can be run
// concurrently against independent Memory values.
type Program struct {
	Variables []domain.Assignment
	Root      *Stage
}

// Stage is one compiled decision point. The employee and company outcomes are
// drawn independently.
type Stage struct {
	Employee Selector
	Company  Selector
}

// Selector picks one outcome for an actor group.
type Selector struct {
	// Choices are the explicit outcomes in declaration order.
	Choices []Choice
	// Else holds the residual outcomes. More than one only survives lenient compilation.
	Else []Op
}

// Choice is an explicit outcome with its probability.
type Choice struct {
	P  float64
	Op Op
}

// Op is a compiled action. Fields are only meaningful for the matching Kind.
type Op struct {
	Kind domain.ActionKind

	// Percent is the buy fraction (0.8 for "80%").
	Percent float64

	// Low, High and Units describe sell and ipo ranges.
	Low   float64
	High  float64
	Units domain.Units

	// Raise ranges. Dilution is already a fraction.
	FMVLow     float64
	FMVHigh    float64
	DiluteLow  float64
	DiluteHigh float64
	DelayLow   float64
	DelayHigh  float64
	Next       *Stage
}

// Pick draws u ~ U(0,1) and returns the first choice whose cumulative
// probability reaches u. Choices with a zero probability never fire. When none does, an else outcome is used; with no
// else outcome the second result is false and nothing happens.
func (sel *Selector) Pick(s Sampler) (Op, bool) {
	u := s.Float64()

	acc := 0.0
	for _, c := range sel.Choices {
		acc += c.P
		if c.P > 0 && acc >= u {
			return c.Op, true
		}
	}

	switch len(sel.Else) {
	case 0:
		return Op{}, false
	case 1:
		return sel.Else[0], true
	default:
		return sel.Else[s.IntN(len(sel.Else))], true
	}
}

// WithVariables returns a copy of p whose header has overrides applied.
// Names the header does not declare are appended in lexical order.
func (p *Program) WithVariables(overrides map[string]float64) *Program {
	out := &Program{Root: p.Root}
	seen := make(map[string]bool, len(p.Variables))
	for _, a := range p.Variables {
		if v, ok := overrides[a.Name]; ok {
			a.Value = v
		}
		seen[a.Name] = true
		out.Variables = append(out.Variables, a)
	}
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if !seen[name] {
			out.Variables = append(out.Variables, domain.Assignment{Name: name, Value: overrides[name]})
		}
	}
	return out
}

// Run executes one full trial against mem: header, setup, decision tree and finalize.
// mem must be fresh.
func (p *Program) Run(mem *Memory) (domain.SimulationResult, error) {
	for _, a := range p.Variables {
		mem.SetValue(a.Name, a.Value)
	}
	if err := mem.FinishSetup(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("setup: %w", err)
	}

	p.Execute(mem)

	if err := mem.Finalize(); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("finalize: %w", err)
	}
	return mem.Result()
}

// work is either a stage to draw from or an op to apply.
type work struct {
	stage *Stage
	op    Op
}

// Execute walks the decision tree with an explicit stack. At every stage the
// employee and company outcomes are drawn first; the employee op is then
// applied, followed by its continuation if it has one, and only then the
// company op and its continuation.
func (p *Program) Execute(mem *Memory) {
	if p.Root == nil {
		return
	}
	stack := []work{{stage: p.Root}}

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.stage != nil {
			employee, okEmployee := w.stage.Employee.Pick(mem.sampler)
			company, okCompany := w.stage.Company.Pick(mem.sampler)
			if okCompany {
				stack = append(stack, work{op: company})
			}
			if okEmployee {
				stack = append(stack, work{op: employee})
			}
			continue
		}

		if next := apply(mem, w.op); next != nil {
			stack = append(stack, work{stage: next})
		}
	}
}

// apply mutates mem for a single op and returns the stage to continue into, if any.
func apply(mem *Memory, op Op) *Stage {
	switch op.Kind {
	case domain.KindFail:
		mem.AddEvent("Company failed.")
		mem.SetExitValue(0)

	case domain.KindQuit:
		pct := mem.value(domain.VarQuitBuy) / 100
		mem.BuyOptions(pct * mem.OptionsAvailable())
		mem.Quit()

	case domain.KindBuy:
		mem.BuyOptions(op.Percent * mem.OptionsAvailable())

	case domain.KindSell:
		exit(mem, op, "sold", domain.VarSellBuy)

	case domain.KindIPO:
		exit(mem, op, "IPO", domain.VarIPOBuy)

	case domain.KindRaise:
		rangeStd := mem.value(domain.VarRangeStd)
		fmv := Sample(mem.sampler, op.FMVLow, op.FMVHigh, true, rangeStd, false)
		dilution := Sample(mem.sampler, op.DiluteLow, op.DiluteHigh, true, rangeStd, false)
		delay := Sample(mem.sampler, op.DelayLow, op.DelayHigh, true, rangeStd, false)

		mem.AddEvent(fmt.Sprintf("Raised. FMV at %s with dilution %s",
			numfmt.Plain(numfmt.RoundCents(fmv)), numfmt.Plain(numfmt.RoundCents(dilution))))
		mem.SetFairMarketValue(fmv)
		mem.Dilute(dilution)
		mem.Delay(delay)
		return op.Next
	}
	return nil
}

// exit samples a sell or IPO price, fixes the exit and exercises the configured share of options.
func exit(mem *Memory, op Op, label, buyVariable string) {
	rangeStd := mem.value(domain.VarRangeStd)
	useLogNorm := mem.value(domain.VarUseLogNorm) > 0.5
	value := Sample(mem.sampler, op.Low, op.High, true, rangeStd, useLogNorm)

	numOptions := mem.OptionsAvailable() * mem.value(buyVariable) / 100

	mem.AddEvent(fmt.Sprintf("Company %s! New value: %s", label, numfmt.Cents(value)))
	if op.Units == domain.UnitsTotal {
		mem.SetExitValue(value)
	} else {
		mem.SetExitShare(value)
	}
	mem.BuyOptions(numOptions)
}

// Stages counts the decision points in the tree, the root included.
func (p *Program) Stages() int {
	if p.Root == nil {
		return 0
	}
	n := 0
	stack := []*Stage{p.Root}
	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, sel := range []Selector{st.Employee, st.Company} {
			for _, c := range sel.Choices {
				if c.Op.Next != nil {
					stack = append(stack, c.Op.Next)
				}
			}
			for _, op := range sel.Else {
				if op.Next != nil {
					stack = append(stack, op.Next)
				}
			}
		}
	}
	return n
}
