// Package graph draws a program's decision tree as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of prog. Decision points are
// numbered in the same pre-order as the structured stage list. It applies
// semantic styling:
// - Decision point: ((Circle))
// - Raise: {{Hexagon}}, linked to the decision point it leads into
// - Sell / IPO: [[Subroutine]]
// - Buy / Quit: [/Parallelogram/]
// - Fail: [Rectangle]
func GenerateMermaid(prog *domain.Program) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	classes := map[string][]string{}
	type frame struct {
		id  int
		set domain.BranchSet
	}
	stack := []frame{{id: 0, set: prog.Root}}
	next := 1

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stageID := fmt.Sprintf("s%d", f.id)
		label := fmt.Sprintf("stage %d", f.id)
		if f.id == 0 {
			label = "start"
		}
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", stageID, label)

		var children []frame
		for i, b := range f.set {
			nodeID := fmt.Sprintf("%s_b%d", stageID, i)
			opener, closer := shape(b.Action.Kind())
			fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID, opener, describe(b.Action), closer)
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", stageID, chance(b), nodeID)
			classes[string(b.Action.Kind())] = append(classes[string(b.Action.Kind())], nodeID)

			if r, ok := b.Action.(domain.Raise); ok {
				child := frame{id: next, set: r.Next}
				next++
				fmt.Fprintf(&sb, "    %s --> s%d\n", nodeID, child.id)
				children = append(children, child)
			}
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	if len(classes) > 0 {
		sb.WriteString("\n    %% Outcome Styles\n")
		sb.WriteString("    classDef fail fill:#fee2e2,stroke:#b91c1c,color:#000;\n")
		sb.WriteString("    classDef exit fill:#dcfce7,stroke:#15803d,color:#000;\n")
		sb.WriteString("    classDef raise fill:#e0e7ff,stroke:#4338ca,color:#000;\n")
		for _, kind := range []domain.ActionKind{domain.KindFail, domain.KindSell, domain.KindIPO, domain.KindRaise} {
			ids := classes[string(kind)]
			if len(ids) == 0 {
				continue
			}
			class := string(kind)
			if kind == domain.KindSell || kind == domain.KindIPO {
				class = "exit"
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", strings.Join(ids, ","), class)
		}
	}

	return sb.String()
}

func shape(kind domain.ActionKind) (string, string) {
	switch kind {
	case domain.KindRaise:
		return "{{", "}}"
	case domain.KindSell, domain.KindIPO:
		return "[[", "]]"
	case domain.KindBuy, domain.KindQuit:
		return "[/", "/]"
	default:
		return "[", "]"
	}
}

func chance(b domain.Branch) string {
	who := "company"
	if b.Actor == domain.ActorEmployee {
		who = "employee"
	}
	if b.Chance.Else {
		return who + " else"
	}
	return who + " " + numfmt.Format(numfmt.RoundCents(b.Chance.P*100)) + "%"
}

func describe(action domain.Action) string {
	switch a := action.(type) {
	case domain.Buy:
		return "buy " + numfmt.Format(a.Percent) + "%"
	case domain.Sell:
		return "sell " + span(a.Low, a.High) + " " + string(a.Units)
	case domain.IPO:
		return "ipo " + span(a.Low, a.High) + " " + string(a.Units)
	case domain.Raise:
		return fmt.Sprintf("raise %s fmv <br/> dilute %s%% <br/> wait %s months",
			span(a.FMVLow, a.FMVHigh), span(a.DiluteLow, a.DiluteHigh), span(a.DelayLow, a.DelayHigh))
	default:
		return string(action.Kind())
	}
}

func span(low, high float64) string {
	return numfmt.Format(low) + " - " + numfmt.Format(high)
}
