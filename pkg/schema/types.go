package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rule defines the contract for variable validation.
type Rule interface {
	// Name returns the parseable name of the rule (e.g. "percent", "range(0,1)").
	Name() string
	// Validate checks if a value satisfies the rule.
	Validate(value float64) error
}

// --- Built-in Rule Implementations ---

// AnyRule accepts every finite number.
type AnyRule struct{}

func (r *AnyRule) Name() string { return "number" }

func (r *AnyRule) Validate(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("must be a finite number")
	}
	return nil
}

// RangeRule validates values inside a closed interval.
type RangeRule struct {
	min, max float64
}

func (r *RangeRule) Name() string {
	return fmt.Sprintf("range(%s,%s)", formatBound(r.min), formatBound(r.max))
}

func (r *RangeRule) Validate(value float64) error {
	if err := (&AnyRule{}).Validate(value); err != nil {
		return err
	}
	if value < r.min || value > r.max {
		return fmt.Errorf("must be between %s and %s", formatBound(r.min), formatBound(r.max))
	}
	return nil
}

// PositiveRule validates values strictly greater than zero.
type PositiveRule struct{}

func (r *PositiveRule) Name() string { return "positive" }

func (r *PositiveRule) Validate(value float64) error {
	if err := (&AnyRule{}).Validate(value); err != nil {
		return err
	}
	if value <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// CustomRule applies a user-defined validation function.
type CustomRule struct {
	name     string
	validate func(float64) error
}

func (r *CustomRule) Name() string { return r.name }

func (r *CustomRule) Validate(value float64) error {
	return r.validate(value)
}

// --- Factory Functions ---

// Number accepts any finite value.
func Number() Rule { return &AnyRule{} }

// Range accepts values in [min, max].
func Range(min, max float64) Rule { return &RangeRule{min: min, max: max} }

// Percent accepts values in [0, 100].
func Percent() Rule { return Range(0, 100) }

// Flag accepts values in [0, 1]. Values above one half read as true.
func Flag() Rule { return Range(0, 1) }

// NonNegative accepts zero and positive values.
func NonNegative() Rule { return Range(0, math.Inf(1)) }

// Positive accepts values above zero.
func Positive() Rule { return &PositiveRule{} }

// Custom creates a rule with a user-defined function.
func Custom(name string, validate func(float64) error) Rule {
	return &CustomRule{name: name, validate: validate}
}

// ParseRule converts a rule name to a Rule.
// Supports "number", "percent", "flag", "non_negative", "positive" and "range(min,max)".
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "range(") && strings.HasSuffix(s, ")") {
		bounds := strings.Split(s[len("range("):len(s)-1], ",")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("range needs two bounds: %s", s)
		}
		lo, err := parseBound(bounds[0])
		if err != nil {
			return nil, err
		}
		hi, err := parseBound(bounds[1])
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("range bounds are reversed: %s", s)
		}
		return Range(lo, hi), nil
	}

	switch s {
	case "number":
		return Number(), nil
	case "percent":
		return Percent(), nil
	case "flag":
		return Flag(), nil
	case "non_negative":
		return NonNegative(), nil
	case "positive":
		return Positive(), nil
	default:
		return nil, fmt.Errorf("unsupported rule: %s", s)
	}
}

// ParseRuleMap converts a map of variable names to rule names into a Schema.
// Example: {"ipoBuy": "percent", "waitToSell": "range(0,1)"}
func ParseRuleMap(ruleMap map[string]string) (Schema, error) {
	result := make(Schema, len(ruleMap))
	for key, ruleStr := range ruleMap {
		r, err := ParseRule(ruleStr)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", key, err)
		}
		result[key] = r
	}
	return result, nil
}

func parseBound(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid range bound %q", s)
	}
	return v, nil
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
