package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTrial(ctx, &domain.TrialEvent{Outcome: domain.Outcome{Profit: 10}})
	hooks.OnTrial(ctx, &domain.TrialEvent{Outcome: domain.Outcome{Profit: 0}})
	hooks.OnTrial(ctx, &domain.TrialEvent{Outcome: domain.Outcome{Profit: -3}})
	hooks.OnTrial(ctx, &domain.TrialEvent{Err: errors.New("boom")})
	hooks.OnBatchEnd(ctx, &domain.BatchEvent{Duration: time.Second})
	hooks.OnBatchEnd(ctx, &domain.BatchEvent{Err: errors.New("boom")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trials.WithLabelValues("profit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trials.WithLabelValues("zero")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trials.WithLabelValues("loss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trials.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Batches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Batches.WithLabelValues("error")))

	count, err := testutil.GatherAndCount(reg, "optionsbot_trial_profit")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotPanics(t, func() {
		m.Hooks().OnTrial(context.Background(), &domain.TrialEvent{})
	})
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := observability.LoggingHooks(logger)
	ctx := context.Background()

	hooks.OnBatchStart(ctx, &domain.BatchEvent{ReportID: "r1", Trials: 3})
	hooks.OnTrial(ctx, &domain.TrialEvent{ReportID: "r1"})
	hooks.OnTrial(ctx, &domain.TrialEvent{ReportID: "r1", Index: 2, Err: errors.New("boom")})
	hooks.OnBatchEnd(ctx, &domain.BatchEvent{ReportID: "r1"})

	out := buf.String()
	assert.Contains(t, out, "batch_start")
	assert.Contains(t, out, "trials=3")
	assert.Contains(t, out, "trial_failed")
	assert.Contains(t, out, "index=2")
	assert.Contains(t, out, "batch_end")
}
