package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/optionsbot/pkg/adapters/memory"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/persistence/middleware"
	"github.com/aretw0/optionsbot/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sealedStore(t *testing.T, next ports.ReportStore, cfg middleware.EncryptionConfig) ports.ReportStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

func report(id string, mean float64) *domain.Report {
	return &domain.Report{
		ID:   id,
		Seed: 3,
		Summary: domain.Summary{
			Trials:      10,
			MeanProfit:  mean,
			Percentiles: map[int]float64{50: mean},
		},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	store := sealedStore(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, report("r1", 1234.5)))

	raw, err := underlying.Load(ctx, "r1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Zero(t, raw.Summary.MeanProfit, "the summary is hidden from the backend")
	assert.Equal(t, uint64(3), raw.Seed)

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, loaded.Summary.MeanProfit)
	assert.Empty(t, loaded.Sealed)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)

	require.NoError(t, store.Delete(ctx, "r1"))
	_, err = store.Load(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := sealedStore(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, oldStore.Save(ctx, report("r1", 1)))

	newStore := sealedStore(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	loaded, err := newStore.Load(ctx, "r1")
	require.NoError(t, err, "fallback key decrypts old reports")
	assert.Equal(t, 1.0, loaded.Summary.MeanProfit)

	require.NoError(t, newStore.Save(ctx, report("r1", 2)))
	_, err = oldStore.Load(ctx, "r1")
	assert.Error(t, err, "old key cannot read reports sealed with the new key")
}

func TestEncryptionMiddleware_RejectsPlainReports(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, report("plain", 1)))

	store := sealedStore(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(ctx, "plain")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    make([]byte, 32),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, sealedStore(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}
