package serialization

import (
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// editorRangeStds are the spreads a stage editor offers.
var editorRangeStds = []float64{1, 2, 3}

// EditorSupported reports why doc cannot be shown in a linear stage editor.
// An empty result means it can.
//
// A linear editor shows each stage as a set of distinct actions where every
// stage except the last continues through a single else raise, and the last
// stage has no else at all.
func EditorSupported(doc *Document) []string {
	var reasons []string

	var (
		std float64
		ok  bool
	)
	if doc.Variables != nil {
		std, ok = doc.Variables.Get(domain.VarRangeStd)
	}
	switch {
	case !ok:
		reasons = append(reasons, "rangeStd missing")
	case !editorRangeStd(std):
		reasons = append(reasons, fmt.Sprintf("rangeStd %g is not one of 1, 2 or 3", std))
	}

	last := len(doc.States) - 1
	for i, s := range doc.States {
		if len(s.Current) == 0 {
			continue
		}

		var elses []Branch
		seen := make(map[domain.ActionKind]bool, len(s.Current))
		for _, b := range s.Current {
			if b.IsElse || b.Proba.Else {
				elses = append(elses, b)
			}
			if seen[b.Target.Action] {
				reasons = append(reasons, fmt.Sprintf("stage %d repeats action %q", i, b.Target.Action))
			}
			seen[b.Target.Action] = true
		}

		switch {
		case len(elses) > 1:
			reasons = append(reasons, fmt.Sprintf("stage %d has %d else branches", i, len(elses)))
		case i == last && len(elses) == 1:
			reasons = append(reasons, fmt.Sprintf("final stage %d has an else branch", i))
		case i != last && len(elses) == 0:
			reasons = append(reasons, fmt.Sprintf("stage %d has no else raise", i))
		case i != last && elses[0].Target.Action != domain.KindRaise:
			reasons = append(reasons, fmt.Sprintf("stage %d continues with %q instead of raise", i, elses[0].Target.Action))
		}
	}
	return reasons
}

func editorRangeStd(v float64) bool {
	for _, allowed := range editorRangeStds {
		if math.Abs(v-allowed) < 0.01 {
			return true
		}
	}
	return false
}

// RaiseTerms are the ranges of a funding round added by AddStage.
type RaiseTerms struct {
	FMVLow, FMVHigh       float64
	DiluteLow, DiluteHigh float64
	DelayLow, DelayHigh   float64
}

// AddStage adds a funding round to the end of an editor-style document:
// the current final stage gains an else raise with the given terms, and a new
// final stage is created in which the company fails.
func (d *Document) AddStage(terms RaiseTerms) {
	if d.Variables == nil {
		d.Variables = orderedmap.New[string, float64]()
	}
	if len(d.States) == 0 {
		d.States = append(d.States, Stage{})
	}
	last := &d.States[len(d.States)-1]
	last.Current = append(last.Current, Branch{
		Proba:     Else(),
		IsElse:    true,
		IsCompany: true,
		Target: Target{
			Action:       domain.KindRaise,
			FMVLow:       num(terms.FMVLow),
			FMVHigh:      num(terms.FMVHigh),
			DiluteLow:    num(terms.DiluteLow),
			DiluteHigh:   num(terms.DiluteHigh),
			DelayLow:     num(terms.DelayLow),
			DelayHigh:    num(terms.DelayHigh),
			NextBranches: Accepted,
		},
	})
	d.States = append(d.States, Stage{Current: []Branch{{
		Proba:     Explicit(1),
		IsCompany: true,
		Target:    Target{Action: domain.KindFail},
	}}})
}

// RemoveStage drops the final stage together with the else raise that led
// into it. A document with a single stage is left unchanged and false is
// returned.
func (d *Document) RemoveStage() bool {
	if len(d.States) < 2 {
		return false
	}
	d.States = d.States[:len(d.States)-1]
	last := &d.States[len(d.States)-1]
	for i := len(last.Current) - 1; i >= 0; i-- {
		b := last.Current[i]
		if (b.IsElse || b.Proba.Else) && b.Target.Action == domain.KindRaise {
			last.Current = append(last.Current[:i], last.Current[i+1:]...)
			break
		}
	}
	return true
}
