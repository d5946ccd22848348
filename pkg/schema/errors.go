package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is one header variable that broke its rule.
type ValidationError struct {
	Key    string
	Reason string
	Value  float64
	// Missing is set when the variable was not declared at all.
	Missing bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("variable %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("variable %q: %s (got %g)", e.Key, e.Reason, e.Value)
}

// AggregateError collects every broken rule of one header.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("header has %d problems: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors unpacks an AggregateError anywhere in err's chain.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
