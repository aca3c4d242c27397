package model_test

import (
	"testing"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransaction(t *testing.T) {
	t.Run("extracts string transaction_id", func(t *testing.T) {
		txn, err := model.ParseTransaction([]byte(`{"transaction_id": "tx-1", "amount": 12.5}`))
		require.NoError(t, err)
		assert.Equal(t, "tx-1", txn.ID)
	})

	t.Run("extracts numeric transaction_id", func(t *testing.T) {
		txn, err := model.ParseTransaction([]byte(`{"transaction_id": 42}`))
		require.NoError(t, err)
		assert.Equal(t, "42", txn.ID)
	})

	t.Run("missing transaction_id yields empty ID", func(t *testing.T) {
		txn, err := model.ParseTransaction([]byte(`{"amount": 1}`))
		require.NoError(t, err)
		assert.Empty(t, txn.ID)
	})

	t.Run("invalid json fails", func(t *testing.T) {
		_, err := model.ParseTransaction([]byte(`not-json`))
		require.Error(t, err)
	})

	t.Run("preserves the original payload", func(t *testing.T) {
		txn, err := model.ParseTransaction([]byte(`{"transaction_id": "tx-2", "extra": "kept"}`))
		require.NoError(t, err)
		assert.Equal(t, "kept", txn.Fields["extra"])
	})
}

func TestTransaction_Number(t *testing.T) {
	txn, err := model.ParseTransaction([]byte(`{
		"Amount": 99.5,
		"V1": "-1.25",
		"note": "texto"
	}`))
	require.NoError(t, err)

	t.Run("case insensitive lookup", func(t *testing.T) {
		v, ok := txn.Number("amount")
		require.True(t, ok)
		assert.InDelta(t, 99.5, v, 1e-9)
	})

	t.Run("parses numeric strings", func(t *testing.T) {
		v, ok := txn.Number("v1")
		require.True(t, ok)
		assert.InDelta(t, -1.25, v, 1e-9)
	})

	t.Run("non numeric value", func(t *testing.T) {
		_, ok := txn.Number("note")
		assert.False(t, ok)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := txn.Number("v28")
		assert.False(t, ok)
	})
}

func TestPredictionSet_Verdict(t *testing.T) {
	t.Run("nil predictions", func(t *testing.T) {
		var p *model.PredictionSet
		assert.Equal(t, model.VerdictNoResult, p.Verdict())
	})

	t.Run("kneighbors non fraud dominant", func(t *testing.T) {
		p := &model.PredictionSet{
			KNeighbors: model.ModelScore{NonFraud: 0.9, Fraud: 0.1},
		}
		assert.Equal(t, model.VerdictFraud, p.Verdict())
	})

	t.Run("kneighbors fraud dominant", func(t *testing.T) {
		p := &model.PredictionSet{
			KNeighbors: model.ModelScore{NonFraud: 0.2, Fraud: 0.8},
		}
		assert.Equal(t, model.VerdictApproved, p.Verdict())
	})

	t.Run("tie approves", func(t *testing.T) {
		p := &model.PredictionSet{
			KNeighbors: model.ModelScore{NonFraud: 0.5, Fraud: 0.5},
		}
		assert.Equal(t, model.VerdictApproved, p.Verdict())
	})
}
