package ports

import (
	"context"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// ScenarioLibrary defines how named programs are retrieved.
type ScenarioLibrary interface {
	// List returns every scenario name in lexical order.
	List(ctx context.Context) ([]string, error)

	// Get loads a scenario by name.
	// Returns domain.ErrScenarioNotFound if the name is unknown.
	Get(ctx context.Context, name string) (*domain.Scenario, error)
}
