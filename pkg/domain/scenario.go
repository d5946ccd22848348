package domain

// Scenario is a named program kept in a library, with optional batch settings.
type Scenario struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Trials overrides the default batch size when positive.
	Trials int `json:"trials,omitempty" yaml:"trials,omitempty"`
	// Source is the program text.
	Source string `json:"source" yaml:"source"`
}
