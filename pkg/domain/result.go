package domain

// Event is a month-stamped entry in a trial's log.
type Event struct {
	Month float64 `json:"months" yaml:"months"`
	Text  string  `json:"event" yaml:"event"`
}

// SimulationResult is the immutable outcome of one finalized trial.
type SimulationResult struct {
	Months float64 `json:"months" yaml:"months"`
	Profit float64 `json:"profit" yaml:"profit"`
	Events []Event `json:"events,omitempty" yaml:"events,omitempty"`
}
