package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Library adapts a Loam repository of markdown scenarios to ports.ScenarioLibrary.
type Library struct {
	Repo *loam.TypedRepository[ScenarioMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ScenarioMetadata]) *Library {
	return &Library{
		Repo: repo,
	}
}

// Get loads a scenario. Loam resolves "unicorn" to "unicorn.md".
func (l *Library) Get(ctx context.Context, name string) (*domain.Scenario, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		// Loam does not distinguish a missing file from an unreadable one.
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrScenarioNotFound, name, err)
	}

	rawName := doc.Data.Name
	if rawName == "" {
		rawName = doc.ID
	}
	return &domain.Scenario{
		Name:        trimExtension(rawName),
		Title:       doc.Data.Title,
		Description: doc.Data.Description,
		Trials:      doc.Data.Trials,
		Source:      strings.TrimSpace(doc.Content),
	}, nil
}

// List lists all scenarios in the repository.
func (l *Library) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the name from metadata if available, otherwise the file ID
		rawName := doc.Data.Name
		if rawName == "" {
			rawName = doc.ID
		}
		name := trimExtension(rawName)

		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: scenario '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Save writes a scenario as "<name>.md" with its settings in the frontmatter.
func (l *Library) Save(ctx context.Context, s *domain.Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario missing name")
	}
	err := l.Repo.Save(ctx, &loam.DocumentModel[ScenarioMetadata]{
		ID:      s.Name + ".md",
		Content: s.Source + "\n",
		Data: ScenarioMetadata{
			Name:        s.Name,
			Title:       s.Title,
			Description: s.Description,
			Trials:      s.Trials,
		},
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", s.Name, err)
	}
	return nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
