package validator

import (
	"fmt"
	"sort"

	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/schema"
)

// Finding is one lint result.
type Finding struct {
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Line == 0 {
		return f.Message
	}
	return fmt.Sprintf("line %d:%d %s", f.Line, f.Column, f.Message)
}

// Lint checks a parsed program for mistakes that still compile: header values
// outside their rules, branches that can never be drawn and ranges written
// high-to-low. extra adds or overrides header rules.
func Lint(prog *domain.Program, extra schema.Schema) []Finding {
	var findings []Finding

	positions := make(map[string]domain.Position, len(prog.Variables))
	for _, a := range prog.Variables {
		positions[a.Name] = a.Pos
	}
	for _, err := range schema.ValidationErrors(schema.Validate(schema.Header().Merge(extra), schema.Variables(prog))) {
		f := Finding{Message: err.Error()}
		if ve, ok := err.(*schema.ValidationError); ok && !ve.Missing {
			pos := positions[ve.Key]
			f.Line, f.Column = pos.Line, pos.Column
		}
		findings = append(findings, f)
	}

	stack := []domain.BranchSet{prog.Root}
	for len(stack) > 0 {
		set := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		findings = append(findings, unreachable(set, domain.ActorEmployee)...)
		findings = append(findings, unreachable(set, domain.ActorCompany)...)
		for _, b := range set {
			findings = append(findings, reversed(b)...)
			if r, ok := b.Action.(domain.Raise); ok {
				stack = append(stack, r.Next)
			}
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Column < findings[j].Column
	})
	return findings
}

// unreachable flags branches of one actor that come after the explicit
// probabilities have already covered every draw.
func unreachable(set domain.BranchSet, actor domain.Actor) []Finding {
	var (
		out   []Finding
		total float64
	)
	for _, b := range set {
		if b.Actor != actor {
			continue
		}
		if total >= 1-1e-9 {
			out = append(out, Finding{
				Line:    b.Pos.Line,
				Column:  b.Pos.Column,
				Message: fmt.Sprintf("%s branch is never drawn", b.Action.Kind()),
			})
			continue
		}
		if !b.Chance.Else {
			total += b.Chance.P
		}
	}
	return out
}

func reversed(b domain.Branch) []Finding {
	type bounds struct {
		what      string
		low, high float64
	}
	var check []bounds
	switch a := b.Action.(type) {
	case domain.Sell:
		check = []bounds{{"sell price", a.Low, a.High}}
	case domain.IPO:
		check = []bounds{{"ipo price", a.Low, a.High}}
	case domain.Raise:
		check = []bounds{
			{"raise fmv", a.FMVLow, a.FMVHigh},
			{"raise dilution", a.DiluteLow, a.DiluteHigh},
			{"raise wait", a.DelayLow, a.DelayHigh},
		}
	}

	var out []Finding
	for _, c := range check {
		if c.low > c.high {
			out = append(out, Finding{
				Line:    b.Pos.Line,
				Column:  b.Pos.Column,
				Message: fmt.Sprintf("%s range %g - %g is written high to low", c.what, c.low, c.high),
			})
		}
	}
	return out
}
