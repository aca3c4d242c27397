package cache_test

import (
	"testing"
	"time"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/testutils"
	"github.com/credifraud/fraud-api-go/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	logger := testutils.TestLogger(t)
	c := cache.NewMemoryCache(time.Minute, 2*time.Minute, nil, logger)

	ctx, cancel := testutils.ContextWithTimeout(t)
	defer cancel()

	t.Run("set and get string", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", "valor", time.Minute))

		var got string
		found, err := c.Get(ctx, "k", &got)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "valor", got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		var got string
		found, err := c.Get(ctx, "desconhecida", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("structs round trip through json", func(t *testing.T) {
		stored := &model.ScoredTransaction{
			Transaction: &model.Transaction{ID: "tx-1", Fields: map[string]interface{}{"transaction_id": "tx-1"}},
			Predictions: &model.PredictionSet{
				KNeighbors: model.ModelScore{NonFraud: 0.8, Fraud: 0.2},
			},
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, c.Set(ctx, "tx", stored, time.Minute))

		var got model.ScoredTransaction
		found, err := c.Get(ctx, "tx", &got)
		require.NoError(t, err)
		require.True(t, found)
		require.NotNil(t, got.Predictions)
		assert.InDelta(t, 0.8, got.Predictions.KNeighbors.NonFraud, 1e-9)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "del", "x", time.Minute))
		require.NoError(t, c.Delete(ctx, "del"))

		var got string
		found, err := c.Get(ctx, "del", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("clear flushes everything", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
		require.NoError(t, c.Clear(ctx))

		var got string
		found, err := c.Get(ctx, "a", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, c.Ping(ctx))
	})
}
