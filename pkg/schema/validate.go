package schema

import (
	"maps"
	"slices"
)

// Schema is a map of variable names to their rules.
type Schema map[string]Rule

// Merge returns a copy of s with the rules of other added on top.
func (s Schema) Merge(other Schema) Schema {
	out := make(Schema, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

// Validate checks every variable named by the schema. Missing variables are
// reported as well as values that break their rule. Variables the schema does
// not name are ignored. Failures are returned in variable name order.
func Validate(schema Schema, vars map[string]float64) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(schema)) {
		value, exists := vars[name]
		if !exists {
			errs = append(errs, &ValidationError{Key: name, Reason: "required", Missing: true})
			continue
		}
		if err := schema[name].Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
