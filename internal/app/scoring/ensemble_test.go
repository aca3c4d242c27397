package scoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, dir, name string, v interface{}) {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func writeModelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	kerasWeights := make([][]float64, NumFeatures)
	for i := range kerasWeights {
		kerasWeights[i] = []float64{0, 0}
	}

	far := make([]float64, NumFeatures)
	for i := range far {
		far[i] = 10
	}

	writeArtifact(t, dir, "scalers.json", Scalers{
		Amount: RobustScaler{Center: 0, Scale: 1},
		Time:   RobustScaler{Center: 0, Scale: 1},
	})
	writeArtifact(t, dir, "logistic_regression_model.json", &LogisticModel{
		Weights: make([]float64, NumFeatures),
	})
	writeArtifact(t, dir, "knears_neighbors_model.json", &KNeighborsModel{
		K:      1,
		Points: [][]float64{make([]float64, NumFeatures), far},
		Labels: []int{0, 1},
	})
	writeArtifact(t, dir, "svc_model.json", &SVCModel{
		Weights: make([]float64, NumFeatures),
	})
	writeArtifact(t, dir, "decision_tree_model.json", &TreeModel{
		Nodes: []TreeNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
			{Feature: -1, Value: []float64{10, 0}},
			{Feature: -1, Value: []float64{0, 10}},
		},
	})
	writeArtifact(t, dir, "undersample_model.json", &KerasModel{
		Layers: []DenseLayer{
			{Weights: kerasWeights, Biases: []float64{0, 0}, Activation: "softmax"},
		},
	})

	return dir
}

func TestLoadEnsemble(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("loads all artifacts", func(t *testing.T) {
		dir := writeModelDir(t)

		ensemble, err := LoadEnsemble(dir, nil, logger)
		require.NoError(t, err)
		require.NotNil(t, ensemble)
	})

	t.Run("missing artifact fails", func(t *testing.T) {
		dir := writeModelDir(t)
		require.NoError(t, os.Remove(filepath.Join(dir, "svc_model.json")))

		_, err := LoadEnsemble(dir, nil, logger)
		require.Error(t, err)
	})

	t.Run("invalid artifact fails", func(t *testing.T) {
		dir := writeModelDir(t)
		writeArtifact(t, dir, "logistic_regression_model.json", &LogisticModel{
			Weights: []float64{1, 2}, // dimensão errada
		})

		_, err := LoadEnsemble(dir, nil, logger)
		require.Error(t, err)
	})

	t.Run("corrupt json fails", func(t *testing.T) {
		dir := writeModelDir(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scalers.json"), []byte("{"), 0644))

		_, err := LoadEnsemble(dir, nil, logger)
		require.Error(t, err)
	})
}

func TestEnsemble_Score(t *testing.T) {
	logger := testutils.TestLogger(t)
	dir := writeModelDir(t)

	ensemble, err := LoadEnsemble(dir, nil, logger)
	require.NoError(t, err)

	ctx, cancel := testutils.ContextWithTimeout(t)
	defer cancel()

	txn, err := model.ParseTransaction([]byte(`{"transaction_id": "tx-42", "amount": 0, "time": 0}`))
	require.NoError(t, err)

	predictions, err := ensemble.Score(ctx, txn)
	require.NoError(t, err)

	// Vetor de entrada zero: vizinho mais próximo é o ponto não fraude
	assert.Zero(t, predictions.KNeighbors.Fraud)
	assert.Equal(t, 1.0, predictions.KNeighbors.NonFraud)

	assert.InDelta(t, 0.5, predictions.Logistic.Fraud, 1e-9)
	assert.InDelta(t, 0.5, predictions.SVC.Fraud, 1e-9)
	assert.InDelta(t, 0.5, predictions.Keras.Fraud, 1e-9)
	assert.Zero(t, predictions.Tree.Fraud)

	// O veredito segue a regra do kneighbors: NonFraud maior marca fraude
	assert.Equal(t, model.VerdictFraud, predictions.Verdict())
}
