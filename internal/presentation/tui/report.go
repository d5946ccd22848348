package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/optionsbot/internal/numfmt"
	"github.com/aretw0/optionsbot/pkg/domain"
)

// ReportMarkdown renders a batch report as a markdown document.
func ReportMarkdown(r *domain.Report) string {
	s := r.Summary
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Simulation %s\n\n", r.ID)
	fmt.Fprintf(&sb, "%s trials, seed `%d`.\n\n", numfmt.Format(float64(s.Trials)), r.Seed)

	sb.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| mean profit | %s |\n", numfmt.Cents(s.MeanProfit))
	fmt.Fprintf(&sb, "| std. deviation | %s |\n", numfmt.Cents(s.StdDevProfit))
	fmt.Fprintf(&sb, "| min / max | %s / %s |\n", numfmt.Cents(s.MinProfit), numfmt.Cents(s.MaxProfit))
	fmt.Fprintf(&sb, "| chance of profit | %s%% |\n", numfmt.Cents(s.ProbabilityProfit*100))
	fmt.Fprintf(&sb, "| chance of nothing | %s%% |\n", numfmt.Cents(s.ProbabilityZero*100))
	fmt.Fprintf(&sb, "| mean / median months | %s / %s |\n", numfmt.Cents(s.MeanMonths), numfmt.Cents(s.MedianMonths))

	if len(s.Percentiles) > 0 {
		sb.WriteString("\n## Profit percentiles\n\n| percentile | profit |\n|---|---|\n")
		for _, p := range slices.Sorted(maps.Keys(s.Percentiles)) {
			fmt.Fprintf(&sb, "| p%d | %s |\n", p, numfmt.Cents(s.Percentiles[p]))
		}
	}

	if r.Sample != nil && len(r.Sample.Events) > 0 {
		sb.WriteString("\n## Sample trial\n\n")
		for _, e := range r.Sample.Events {
			fmt.Fprintf(&sb, "- month %s: %s\n", numfmt.Cents(e.Month), e.Text)
		}
		fmt.Fprintf(&sb, "\nProfit **%s** after %s months.\n", numfmt.Cents(r.Sample.Profit), numfmt.Cents(r.Sample.Months))
	}

	return sb.String()
}
