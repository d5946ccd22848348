package serialization

import (
	"fmt"
	"strings"

	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// Program rebuilds the decision tree from the stage list.
//
// Stages are consumed depth-first: the first stage is the root, and every
// raise takes the next unconsumed stage as its body before its later siblings
// are looked at. The document must hold exactly one more stage than raises.
func (d *Document) Program() (*domain.Program, error) {
	if len(d.States) == 0 {
		return nil, fmt.Errorf("%w: document has no stages", domain.ErrStageMismatch)
	}

	prog := &domain.Program{}
	if d.Variables != nil {
		for pair := d.Variables.Oldest(); pair != nil; pair = pair.Next() {
			prog.Variables = append(prog.Variables, domain.Assignment{Name: pair.Key, Value: pair.Value})
		}
	}

	raises := 0
	for _, s := range d.States {
		for _, b := range s.Current {
			if b.Target.Action == domain.KindRaise {
				raises++
			}
		}
	}
	if raises != len(d.States)-1 {
		return nil, fmt.Errorf("%w: %d stages for %d raises", domain.ErrStageMismatch, len(d.States), raises)
	}

	next := 0
	root, err := d.nest(&next)
	if err != nil {
		return nil, err
	}
	prog.Root = root
	return prog, nil
}

// frame is a stage being rebuilt. parent and index locate the raise waiting
// for it; the root frame has no parent.
type frame struct {
	stage  int
	pos    int
	set    domain.BranchSet
	parent *frame
	index  int
}

// nest rebuilds the tree with an explicit stack so that long raise chains do
// not grow the goroutine stack.
func (d *Document) nest(next *int) (domain.BranchSet, error) {
	root := &frame{stage: *next}
	*next++
	stack := []*frame{root}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		current := d.States[f.stage].Current
		if f.pos == len(current) {
			stack = stack[:len(stack)-1]
			if f.parent != nil {
				r := f.parent.set[f.index].Action.(domain.Raise)
				r.Next = f.set
				f.parent.set[f.index].Action = r
			}
			continue
		}

		b := current[f.pos]
		f.pos++
		branch, err := b.toDomain(f.stage)
		if err != nil {
			return nil, err
		}
		f.set = append(f.set, branch)

		if b.Target.Action == domain.KindRaise {
			stack = append(stack, &frame{stage: *next, parent: f, index: len(f.set) - 1})
			*next++
		}
	}
	return root.set, nil
}

func (b Branch) toDomain(stage int) (domain.Branch, error) {
	out := domain.Branch{Actor: domain.ActorEmployee}
	if b.IsCompany {
		out.Actor = domain.ActorCompany
	}
	if b.IsElse || b.Proba.Else {
		out.Chance = domain.Chance{Else: true}
	} else {
		out.Chance = domain.Chance{P: b.Proba.Value}
	}

	t := b.Target
	missing := func(field string) error {
		return fmt.Errorf("stage %d: %s action is missing %q", stage, t.Action, field)
	}
	need := func(fields map[string]*float64, order ...string) error {
		for _, name := range order {
			if fields[name] == nil {
				return missing(name)
			}
		}
		return nil
	}

	switch t.Action {
	case domain.KindFail:
		out.Action = domain.Fail{}
	case domain.KindQuit:
		out.Action = domain.Quit{}
	case domain.KindBuy:
		if t.PercentAmount == nil {
			return out, missing("percentAmount")
		}
		out.Action = domain.Buy{Percent: *t.PercentAmount}
	case domain.KindSell, domain.KindIPO:
		if err := need(map[string]*float64{"low": t.Low, "high": t.High}, "low", "high"); err != nil {
			return out, err
		}
		units := t.Units
		if units == "" {
			units = domain.UnitsShare
		}
		if units != domain.UnitsShare && units != domain.UnitsTotal {
			return out, fmt.Errorf("stage %d: unknown units %q", stage, units)
		}
		if t.Action == domain.KindSell {
			out.Action = domain.Sell{Low: *t.Low, High: *t.High, Units: units}
		} else {
			out.Action = domain.IPO{Low: *t.Low, High: *t.High, Units: units}
		}
	case domain.KindRaise:
		fields := map[string]*float64{
			"fmvLow": t.FMVLow, "fmvHigh": t.FMVHigh,
			"diluteLow": t.DiluteLow, "diluteHigh": t.DiluteHigh,
			"delayLow": t.DelayLow, "delayHigh": t.DelayHigh,
		}
		if err := need(fields, "fmvLow", "fmvHigh", "diluteLow", "diluteHigh", "delayLow", "delayHigh"); err != nil {
			return out, err
		}
		out.Action = domain.Raise{
			FMVLow: *t.FMVLow, FMVHigh: *t.FMVHigh,
			DiluteLow: *t.DiluteLow, DiluteHigh: *t.DiluteHigh,
			DelayLow: *t.DelayLow, DelayHigh: *t.DelayHigh,
		}
	default:
		return out, fmt.Errorf("stage %d: unknown action %q", stage, t.Action)
	}
	return out, nil
}

// Deserialize renders doc as compact source text that compiles to the same
// program. Use format.Format on the parsed result for the canonical layout.
func Deserialize(doc *Document) (string, error) {
	prog, err := doc.Program()
	if err != nil {
		return "", err
	}
	return Compact(prog), nil
}

// Compact renders prog on a single line with no optional whitespace.
func Compact(prog *domain.Program) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, a := range prog.Variables {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(a.Name)
		sb.WriteString("=")
		sb.WriteString(numfmt.Plain(a.Value))
	}
	sb.WriteString("]")
	writeSet(&sb, prog.Root)
	return sb.String()
}

func writeSet(sb *strings.Builder, set domain.BranchSet) {
	sb.WriteString("{")
	for i, b := range set {
		if i > 0 {
			sb.WriteString("|")
		}
		sb.WriteString(string(b.Actor))
		sb.WriteString("_")
		if b.Chance.Else {
			sb.WriteString("else")
		} else {
			sb.WriteString(numfmt.Plain(b.Chance.P))
		}
		sb.WriteString(":")
		writeAction(sb, b.Action)
	}
	sb.WriteString("}")
}

func writeAction(sb *strings.Builder, action domain.Action) {
	p := numfmt.Plain
	switch a := action.(type) {
	case domain.Buy:
		fmt.Fprintf(sb, "buy(%s%%)", p(a.Percent))
	case domain.Sell:
		fmt.Fprintf(sb, "sell(%s-%s %s)", p(a.Low), p(a.High), a.Units)
	case domain.IPO:
		fmt.Fprintf(sb, "ipo(%s-%s %s)", p(a.Low), p(a.High), a.Units)
	case domain.Raise:
		fmt.Fprintf(sb, "raise(%s-%sfmv diluting %s-%s%% wait %s-%smonths then ",
			p(a.FMVLow), p(a.FMVHigh), p(a.DiluteLow), p(a.DiluteHigh), p(a.DelayLow), p(a.DelayHigh))
		writeSet(sb, a.Next)
		sb.WriteString(")")
	default:
		sb.WriteString(string(action.Kind()))
		sb.WriteString("()")
	}
}
