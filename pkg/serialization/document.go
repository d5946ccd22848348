package serialization

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Accepted marks a raise whose body was moved into the stage list.
const Accepted = "accepted"

// Document is the structured form of a program.
type Document struct {
	Variables *orderedmap.OrderedMap[string, float64] `json:"variables" yaml:"variables"`
	States    []Stage                                 `json:"states" yaml:"states"`
}

// Stage is one decision point.
type Stage struct {
	Current []Branch `json:"current" yaml:"current" mapstructure:"current"`
}

// Branch is one outcome of a stage.
type Branch struct {
	Proba     Proba  `json:"proba" yaml:"proba" mapstructure:"proba"`
	IsElse    bool   `json:"isElse" yaml:"isElse" mapstructure:"isElse"`
	IsCompany bool   `json:"isCompany" yaml:"isCompany" mapstructure:"isCompany"`
	Target    Target `json:"target" yaml:"target" mapstructure:"target"`
}

// Target describes the action of a branch. Only the fields of its action are set.
type Target struct {
	Action domain.ActionKind `json:"action" yaml:"action" mapstructure:"action"`

	Low   *float64     `json:"low,omitempty" yaml:"low,omitempty" mapstructure:"low"`
	High  *float64     `json:"high,omitempty" yaml:"high,omitempty" mapstructure:"high"`
	Units domain.Units `json:"units,omitempty" yaml:"units,omitempty" mapstructure:"units"`

	PercentAmount *float64 `json:"percentAmount,omitempty" yaml:"percentAmount,omitempty" mapstructure:"percentAmount"`

	FMVLow       *float64 `json:"fmvLow,omitempty" yaml:"fmvLow,omitempty" mapstructure:"fmvLow"`
	FMVHigh      *float64 `json:"fmvHigh,omitempty" yaml:"fmvHigh,omitempty" mapstructure:"fmvHigh"`
	DiluteLow    *float64 `json:"diluteLow,omitempty" yaml:"diluteLow,omitempty" mapstructure:"diluteLow"`
	DiluteHigh   *float64 `json:"diluteHigh,omitempty" yaml:"diluteHigh,omitempty" mapstructure:"diluteHigh"`
	DelayLow     *float64 `json:"delayLow,omitempty" yaml:"delayLow,omitempty" mapstructure:"delayLow"`
	DelayHigh    *float64 `json:"delayHigh,omitempty" yaml:"delayHigh,omitempty" mapstructure:"delayHigh"`
	NextBranches string   `json:"nextBranches,omitempty" yaml:"nextBranches,omitempty" mapstructure:"nextBranches"`
}

// Proba is a branch probability: a number, or "else" for the residual branch.
type Proba struct {
	Value float64
	Else  bool
}

// Explicit returns a numeric probability.
func Explicit(p float64) Proba { return Proba{Value: p} }

// Else returns the residual probability marker.
func Else() Proba { return Proba{Else: true} }

func (p Proba) MarshalJSON() ([]byte, error) {
	if p.Else {
		return []byte(`"else"`), nil
	}
	return json.Marshal(p.Value)
}

func (p *Proba) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return p.parseString(s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("proba: expected number or \"else\": %w", err)
	}
	*p = Explicit(v)
	return nil
}

func (p Proba) MarshalYAML() (any, error) {
	if p.Else {
		return "else", nil
	}
	return p.Value, nil
}

func (p *Proba) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!str" {
		return p.parseString(node.Value)
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("proba: expected number or \"else\": %w", err)
	}
	*p = Explicit(v)
	return nil
}

func (p *Proba) parseString(s string) error {
	if s != "else" {
		return fmt.Errorf("proba: expected number or \"else\", got %q", s)
	}
	*p = Else()
	return nil
}

func num(v float64) *float64 { return &v }
