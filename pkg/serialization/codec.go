package serialization

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// ToJSON encodes doc with variables in insertion order.
func ToJSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// FromJSON decodes a document, keeping the variable order of the input.
func FromJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}
	return &doc, nil
}

// ToYAML encodes doc as YAML.
func ToYAML(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// FromYAML decodes a YAML document, keeping the variable order of the input.
func FromYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml document: %w", err)
	}
	return &doc, nil
}

// DecodeMap builds a document from a generic map such as an MCP tool argument
// or a frontmatter block. Go maps carry no order, so variables are arranged
// with the required names first, in their check order, followed by any extra
// names sorted lexically.
func DecodeMap(raw map[string]any) (*Document, error) {
	var intermediate struct {
		Variables map[string]float64 `mapstructure:"variables"`
		States    []Stage            `mapstructure:"states"`
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       probaHook,
		WeaklyTypedInput: true,
		Result:           &intermediate,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &Document{Variables: orderedmap.New[string, float64](), States: intermediate.States}
	for _, name := range domain.RequiredVariables {
		if v, ok := intermediate.Variables[name]; ok {
			doc.Variables.Set(name, v)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(intermediate.Variables)) {
		if _, ok := doc.Variables.Get(name); !ok {
			doc.Variables.Set(name, intermediate.Variables[name])
		}
	}
	return doc, nil
}

var probaType = reflect.TypeOf(Proba{})

func probaHook(from, to reflect.Type, data any) (any, error) {
	if to != probaType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		var p Proba
		if err := p.parseString(v); err != nil {
			return nil, err
		}
		return p, nil
	case float64:
		return Explicit(v), nil
	case float32:
		return Explicit(float64(v)), nil
	case int:
		return Explicit(float64(v)), nil
	case int64:
		return Explicit(float64(v)), nil
	case nil:
		return Proba{}, nil
	default:
		return nil, fmt.Errorf("proba: unsupported %s", from)
	}
}
