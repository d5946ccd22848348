// Package format renders a parsed program as canonical, indented source text.
//
// Output is deterministic: variables on one header line, one branch per line,
// siblings joined with "|", two spaces of indentation per raise level and
// numbers grouped the en-US way. Formatting never changes what a program means,
// so the result always parses and compiles whenever the input did.
package format

import (
	"strings"

	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/pkg/domain"
)

const indentUnit = "  "

// Format renders prog.
func Format(prog *domain.Program) string {
	var sb strings.Builder

	sb.WriteString("[")
	for i, a := range prog.Variables {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(a.Name)
		sb.WriteString("=")
		sb.WriteString(numfmt.Format(a.Value))
	}
	sb.WriteString("]\n{")
	writeBranches(&sb, prog.Root, 1)
	sb.WriteString("\n}")

	return sb.String()
}

func writeBranches(sb *strings.Builder, set domain.BranchSet, depth int) {
	for i, b := range set {
		sb.WriteString("\n")
		indent(sb, depth)
		if i > 0 {
			sb.WriteString("|")
		}
		writeBranch(sb, b, depth)
	}
}

func writeBranch(sb *strings.Builder, b domain.Branch, depth int) {
	sb.WriteString(string(b.Actor))
	sb.WriteString("_")
	if b.Chance.Else {
		sb.WriteString("else")
	} else {
		sb.WriteString(numfmt.Format(b.Chance.P))
	}
	sb.WriteString(": ")

	switch a := b.Action.(type) {
	case domain.Fail:
		sb.WriteString("fail()")
	case domain.Quit:
		sb.WriteString("quit()")
	case domain.Buy:
		sb.WriteString("buy(" + numfmt.Format(a.Percent) + "%)")
	case domain.Sell:
		writeExit(sb, "sell", a.Low, a.High, a.Units)
	case domain.IPO:
		writeExit(sb, "ipo", a.Low, a.High, a.Units)
	case domain.Raise:
		sb.WriteString("raise(" + span(a.FMVLow, a.FMVHigh) + " fmv")
		sb.WriteString(" diluting " + span(a.DiluteLow, a.DiluteHigh) + "%")
		sb.WriteString(" wait " + span(a.DelayLow, a.DelayHigh) + " months")
		sb.WriteString(" then {")
		writeBranches(sb, a.Next, depth+1)
		sb.WriteString("\n")
		indent(sb, depth)
		sb.WriteString("})")
	}
}

func writeExit(sb *strings.Builder, label string, low, high float64, units domain.Units) {
	sb.WriteString(label + "(" + span(low, high) + " " + string(units) + ")")
}

func span(low, high float64) string {
	return numfmt.Format(low) + " - " + numfmt.Format(high)
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(indentUnit, depth))
}
