package runner

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Percentiles are the profit quantiles reported in every summary.
var Percentiles = []int{5, 25, 50, 75, 95}

// Summarize reduces trial outcomes to summary statistics. Quantiles use the
// empirical distribution; the standard deviation is the sample one and is zero
// for a single outcome.
func Summarize(outcomes []domain.Outcome) domain.Summary {
	n := len(outcomes)
	s := domain.Summary{Trials: n, Percentiles: make(map[int]float64, len(Percentiles))}
	if n == 0 {
		return s
	}

	profits := make([]float64, n)
	months := make([]float64, n)
	var positive, zero int
	for i, o := range outcomes {
		profits[i] = o.Profit
		months[i] = o.Months
		switch {
		case o.Profit > 0:
			positive++
		case o.Profit == 0:
			zero++
		}
	}
	slices.Sort(profits)
	slices.Sort(months)

	s.MeanProfit = stat.Mean(profits, nil)
	if n > 1 {
		s.StdDevProfit = stat.StdDev(profits, nil)
	}
	s.MinProfit = profits[0]
	s.MaxProfit = profits[n-1]
	for _, p := range Percentiles {
		s.Percentiles[p] = stat.Quantile(float64(p)/100, stat.Empirical, profits, nil)
	}

	s.MeanMonths = stat.Mean(months, nil)
	s.MedianMonths = stat.Quantile(0.5, stat.Empirical, months, nil)

	s.ProbabilityProfit = float64(positive) / float64(n)
	s.ProbabilityZero = float64(zero) / float64(n)
	return s
}
