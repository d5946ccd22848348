package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/ports"
)

// ScenarioLibraryContractTest is a reusable test suite that verifies if an
// adapter complies with ports.ScenarioLibrary. sources maps scenario names to
// the program text the library holds for them.
func ScenarioLibraryContractTest(t *testing.T, lib ports.ScenarioLibrary, sources map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, want := range sources {
			scenario, err := lib.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting scenario %s: %v", name, err)
			}
			if scenario.Name != name {
				t.Errorf("name mismatch: got %q, want %q", scenario.Name, name)
			}
			if scenario.Source != want {
				t.Errorf("source mismatch for %s. got %q, want %q", name, scenario.Source, want)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := lib.Get(ctx, "non-existent-scenario")
		if !errors.Is(err, domain.ErrScenarioNotFound) {
			t.Errorf("expected ErrScenarioNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := lib.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing scenarios: %v", err)
		}
		if len(names) != len(sources) {
			t.Errorf("expected %d scenarios, got %d", len(sources), len(names))
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range sources {
			if !lookup[name] {
				t.Errorf("scenario %s missing from list", name)
			}
		}
	})
}
