package serialization

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Serialize flattens prog into a Document.
//
// The first stage is the root branch set. Each raise is emitted with
// nextBranches "accepted", and the stages of its body follow those of every
// raise that appears before it in the walk, giving a pre-order listing.
func Serialize(prog *domain.Program) *Document {
	doc := &Document{Variables: orderedmap.New[string, float64]()}
	for _, a := range prog.Variables {
		doc.Variables.Set(a.Name, a.Value)
	}

	// Pre-order over branch sets with an explicit stack; children are pushed
	// in reverse so the first raise's body is emitted next.
	stack := []domain.BranchSet{prog.Root}
	for len(stack) > 0 {
		set := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stage := Stage{Current: make([]Branch, 0, len(set))}
		var bodies []domain.BranchSet
		for _, b := range set {
			stage.Current = append(stage.Current, branch(b))
			if r, ok := b.Action.(domain.Raise); ok {
				bodies = append(bodies, r.Next)
			}
		}
		doc.States = append(doc.States, stage)
		for i := len(bodies) - 1; i >= 0; i-- {
			stack = append(stack, bodies[i])
		}
	}
	return doc
}

func branch(b domain.Branch) Branch {
	out := Branch{
		IsElse:    b.Chance.Else,
		IsCompany: b.Actor == domain.ActorCompany,
		Target:    target(b.Action),
	}
	if b.Chance.Else {
		out.Proba = Else()
	} else {
		out.Proba = Explicit(b.Chance.P)
	}
	return out
}

func target(action domain.Action) Target {
	t := Target{Action: action.Kind()}
	switch a := action.(type) {
	case domain.Buy:
		t.PercentAmount = num(a.Percent)
	case domain.Sell:
		t.Low, t.High, t.Units = num(a.Low), num(a.High), a.Units
	case domain.IPO:
		t.Low, t.High, t.Units = num(a.Low), num(a.High), a.Units
	case domain.Raise:
		t.FMVLow, t.FMVHigh = num(a.FMVLow), num(a.FMVHigh)
		t.DiluteLow, t.DiluteHigh = num(a.DiluteLow), num(a.DiluteHigh)
		t.DelayLow, t.DelayHigh = num(a.DelayLow), num(a.DelayHigh)
		t.NextBranches = Accepted
	}
	return t
}
