package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Report),
	}
}

// Save persists a copy of the report in memory.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	copied := clone(report)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[report.ID] = copied
	return nil
}

// Load retrieves a copy of the report so callers cannot mutate the store.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	}
	return clone(report), nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored report IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data)), nil
}

func clone(r *domain.Report) *domain.Report {
	out := *r
	out.Summary.Percentiles = maps.Clone(r.Summary.Percentiles)
	out.Outcomes = slices.Clone(r.Outcomes)
	if r.Sample != nil {
		sample := *r.Sample
		sample.Events = slices.Clone(r.Sample.Events)
		out.Sample = &sample
	}
	return &out
}
