package domain

import "time"

// Outcome is the {months, profit} sample of one trial.
type Outcome struct {
	Months float64 `json:"months" yaml:"months"`
	Profit float64 `json:"profit" yaml:"profit"`
}

// Summary aggregates the outcomes of a Monte Carlo batch.
type Summary struct {
	Trials int `json:"trials" yaml:"trials"`

	MeanProfit   float64 `json:"mean_profit" yaml:"mean_profit"`
	StdDevProfit float64 `json:"stddev_profit" yaml:"stddev_profit"`
	MinProfit    float64 `json:"min_profit" yaml:"min_profit"`
	MaxProfit    float64 `json:"max_profit" yaml:"max_profit"`

	// Percentiles maps 5, 25, 50, 75 and 95 to the profit at that percentile.
	Percentiles map[int]float64 `json:"percentiles" yaml:"percentiles"`

	MeanMonths   float64 `json:"mean_months" yaml:"mean_months"`
	MedianMonths float64 `json:"median_months" yaml:"median_months"`

	// ProbabilityProfit is the share of trials with a positive profit.
	ProbabilityProfit float64 `json:"probability_profit" yaml:"probability_profit"`
	// ProbabilityZero is the share of trials that ended with exactly zero profit.
	ProbabilityZero float64 `json:"probability_zero" yaml:"probability_zero"`
}

// Report is a persisted batch run.
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Seed      uint64    `json:"seed" yaml:"seed"`
	Summary   Summary   `json:"summary" yaml:"summary"`
	// Outcomes is only filled when the batch keeps raw samples.
	Outcomes []Outcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	// Sample is the event log of the first trial, kept for display.
	Sample *SimulationResult `json:"sample,omitempty" yaml:"sample,omitempty"`
	// Sealed is set instead of the fields above when the report was written
	// through an encrypting store.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}
