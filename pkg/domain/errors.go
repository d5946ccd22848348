package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingVariable is wrapped by MissingVariableError.
	ErrMissingVariable = errors.New("missing required variable")

	// ErrProbabilityOverflow is returned when the explicit probabilities of one actor group exceed 1.
	ErrProbabilityOverflow = errors.New("probabilities add up to over 1")

	// ErrMultipleElse is returned when an actor group declares more than one else branch.
	ErrMultipleElse = errors.New("more than one else branch for actor")

	// ErrDoubleSetup is returned when a simulation memory is set up twice.
	ErrDoubleSetup = errors.New("already set up")

	// ErrDoubleFinalize is returned when a simulation memory is finalized twice.
	ErrDoubleFinalize = errors.New("already finalized")

	// ErrResultBeforeFinalize is returned when a result is requested from an unfinalized memory.
	ErrResultBeforeFinalize = errors.New("simulation not finalized")

	// ErrNotSetUp is returned when the ledger is used before setup completed.
	ErrNotSetUp = errors.New("simulation not set up")

	// ErrInvalidNumber is wrapped by syntax errors for malformed numeric literals.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrStageMismatch is returned when a structured document has a different
	// number of stages than its raise actions can consume.
	ErrStageMismatch = errors.New("stage count does not match raise count")

	// ErrInvalidTrials is returned when a batch trial count is below one or above the cap.
	ErrInvalidTrials = errors.New("trial count out of range")

	// ErrScenarioNotFound is returned when a named scenario is not in the library.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrReportNotFound is returned when a report ID cannot be found in the store.
	ErrReportNotFound = errors.New("report not found")
)

// MissingVariableError names the variable absent at setup.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("variable not provided: %s", e.Name)
}

func (e *MissingVariableError) Unwrap() error {
	return ErrMissingVariable
}

// SyntaxError is a single lexer or parser diagnostic.
type SyntaxError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	// Err optionally classifies the failure (e.g. ErrInvalidNumber).
	Err error `json:"-"`
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// SyntaxErrors collects every diagnostic found while parsing one source text.
type SyntaxErrors struct {
	Errors []*SyntaxError
}

func (e *SyntaxErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d syntax errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual diagnostics to errors.Is and errors.As.
func (e *SyntaxErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Messages flattens err into the list of strings returned to callers.
// A *SyntaxErrors yields one entry per diagnostic; any other error yields its message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var syn *SyntaxErrors
	if errors.As(err, &syn) {
		out := make([]string, len(syn.Errors))
		for i, e := range syn.Errors {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}
