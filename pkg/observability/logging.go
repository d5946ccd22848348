package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/optionsbot/pkg/domain"
)

// LoggingHooks logs batch boundaries at info level and failed trials at warn.
func LoggingHooks(logger *slog.Logger) domain.BatchHooks {
	return domain.BatchHooks{
		OnBatchStart: func(ctx context.Context, e *domain.BatchEvent) {
			logger.InfoContext(ctx, "batch_start",
				"report_id", e.ReportID,
				"trials", e.Trials,
				"workers", e.Workers,
			)
		},
		OnTrial: func(ctx context.Context, e *domain.TrialEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "trial_failed", "report_id", e.ReportID, "index", e.Index, "err", e.Err)
			}
		},
		OnBatchEnd: func(ctx context.Context, e *domain.BatchEvent) {
			logger.InfoContext(ctx, "batch_end",
				"report_id", e.ReportID,
				"duration", e.Duration,
				"is_error", e.Err != nil,
			)
		},
	}
}
