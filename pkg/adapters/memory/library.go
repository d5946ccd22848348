package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Library implements ports.ScenarioLibrary using an in-memory map.
type Library struct {
	scenarios map[string]domain.Scenario
}

// NewLibrary creates a library holding the given scenarios.
func NewLibrary(scenarios ...domain.Scenario) (*Library, error) {
	data := make(map[string]domain.Scenario, len(scenarios))
	for _, s := range scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario missing name")
		}
		data[s.Name] = s
	}
	return &Library{scenarios: data}, nil
}

// NewLibraryFromSources creates a library from raw program text keyed by name.
func NewLibraryFromSources(sources map[string]string) *Library {
	data := make(map[string]domain.Scenario, len(sources))
	for name, src := range sources {
		data[name] = domain.Scenario{Name: name, Source: src}
	}
	return &Library{scenarios: data}
}

// List returns all scenario names.
func (l *Library) List(ctx context.Context) ([]string, error) {
	return slices.Sorted(maps.Keys(l.scenarios)), nil
}

// Get returns the scenario with the given name.
func (l *Library) Get(ctx context.Context, name string) (*domain.Scenario, error) {
	s, ok := l.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScenarioNotFound, name)
	}
	return &s, nil
}
