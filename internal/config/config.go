// Package config loads batch profiles: the run settings and header overrides a
// simulation uses on top of the program it is given.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/optionsbot/pkg/runner"
	"github.com/aretw0/optionsbot/pkg/schema"
)

// Profile represents one batch profile file.
type Profile struct {
	Trials       int                `yaml:"trials" json:"trials"`
	Workers      int                `yaml:"workers" json:"workers"`
	Seed         *uint64            `yaml:"seed" json:"seed"`
	KeepOutcomes bool               `yaml:"keep_outcomes" json:"keep_outcomes"`
	Overrides    map[string]float64 `yaml:"overrides" json:"overrides"`
	// Constraints maps a variable to a rule such as "percent" or "range(0,10)".
	Constraints map[string]string `yaml:"constraints" json:"constraints"`
}

// Load reads a profile. The format follows the extension: .json, .hcl, and
// YAML for anything else.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p *Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		p = &Profile{}
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".hcl":
		p, err = parseHCL(data, path)
		if err != nil {
			return nil, err
		}
	default:
		p = &Profile{}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", filepath.Base(path), err)
	}
	return p, nil
}

func (p *Profile) validate() error {
	if p.Trials < 0 {
		return fmt.Errorf("trials must not be negative, got %d", p.Trials)
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	_, err := p.Schema()
	return err
}

// RunnerOptions turns the profile into runner options. Unset fields leave the
// runner defaults alone.
func (p *Profile) RunnerOptions() []runner.Option {
	if p == nil {
		return nil
	}
	var opts []runner.Option
	if p.Trials > 0 {
		opts = append(opts, runner.WithTrials(p.Trials))
	}
	if p.Workers > 0 {
		opts = append(opts, runner.WithWorkers(p.Workers))
	}
	if p.Seed != nil {
		opts = append(opts, runner.WithSeed(*p.Seed))
	}
	if p.KeepOutcomes {
		opts = append(opts, runner.WithKeepOutcomes(true))
	}
	if len(p.Overrides) > 0 {
		opts = append(opts, runner.WithVariables(p.Overrides))
	}
	return opts
}

// Schema parses the profile constraints.
func (p *Profile) Schema() (schema.Schema, error) {
	if p == nil || len(p.Constraints) == 0 {
		return nil, nil
	}
	return schema.ParseRuleMap(p.Constraints)
}
