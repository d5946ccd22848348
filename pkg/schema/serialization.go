package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Names returns the rule of every variable in its textual form, the same form
// ParseRule accepts.
func (s Schema) Names() (map[string]string, error) {
	names := make(map[string]string, len(s))
	for name, rule := range s {
		if rule == nil {
			return nil, fmt.Errorf("variable %s: rule is nil", name)
		}
		names[name] = rule.Name()
	}
	return names, nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	names, err := s.Names()
	if err != nil {
		return nil, err
	}
	return json.Marshal(names)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	return s.fromNames(names)
}

func (s Schema) MarshalYAML() (any, error) {
	return s.Names()
}

func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var names map[string]string
	if err := node.Decode(&names); err != nil {
		return err
	}
	return s.fromNames(names)
}

func (s *Schema) fromNames(names map[string]string) error {
	if names == nil {
		*s = nil
		return nil
	}
	parsed, err := ParseRuleMap(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
