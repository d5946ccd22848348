package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclProfile is the decoding target for .hcl profiles. Map attributes are kept
// as raw values so both object and map literals are accepted.
type hclProfile struct {
	Trials       *int      `hcl:"trials,optional"`
	Workers      *int      `hcl:"workers,optional"`
	Seed         *uint64   `hcl:"seed,optional"`
	KeepOutcomes *bool     `hcl:"keep_outcomes,optional"`
	Overrides    cty.Value `hcl:"overrides,optional"`
	Constraints  cty.Value `hcl:"constraints,optional"`
}

func parseHCL(data []byte, filename string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var raw hclProfile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	p := &Profile{}
	if raw.Trials != nil {
		p.Trials = *raw.Trials
	}
	if raw.Workers != nil {
		p.Workers = *raw.Workers
	}
	if raw.KeepOutcomes != nil {
		p.KeepOutcomes = *raw.KeepOutcomes
	}
	p.Seed = raw.Seed

	var err error
	if p.Overrides, err = ctyMap[float64](raw.Overrides, "overrides"); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if p.Constraints, err = ctyMap[string](raw.Constraints, "constraints"); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// ctyMap converts an object or map value into a Go map of T.
func ctyMap[T any](v cty.Value, attr string) (map[string]T, error) {
	if v.Type() == cty.NilType || v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", attr, ty.FriendlyName())
	}

	out := make(map[string]T, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		key, val := it.Element()
		var target T
		if err := gocty.FromCtyValue(val, &target); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", attr, key.AsString(), err)
		}
		out[key.AsString()] = target
	}
	return out, nil
}
