package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore
// implementation adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	id := "contract-test-report-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := &domain.Report{
			ID:        id,
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Seed:      42,
			Summary: domain.Summary{
				Trials:      2,
				MeanProfit:  1500.5,
				Percentiles: map[int]float64{5: 0, 50: 1500.5, 95: 3001},
			},
			Outcomes: []domain.Outcome{{Months: 12, Profit: 0}, {Months: 30, Profit: 3001}},
			Sample: &domain.SimulationResult{
				Months: 12,
				Events: []domain.Event{{Month: 12, Text: "Company failed."}},
			},
		}

		require.NoError(t, store.Save(ctx, report), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		require.NotNil(t, loaded)

		assert.Equal(t, report.ID, loaded.ID)
		assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
		assert.Equal(t, report.Seed, loaded.Seed)
		assert.Equal(t, report.Summary, loaded.Summary)
		assert.Equal(t, report.Outcomes, loaded.Outcomes)
		assert.Equal(t, report.Sample, loaded.Sample)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Report{ID: id, Seed: 7}))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), loaded.Seed)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is fine")
	})
}
