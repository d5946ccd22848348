package ports

import (
	"context"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// ReportStore defines the interface for persisting batch reports.
type ReportStore interface {
	// Save persists report under report.ID, replacing any previous value.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report by ID.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, id string) (*domain.Report, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored reports in lexical order.
	List(ctx context.Context) ([]string, error)
}
