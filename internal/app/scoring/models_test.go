package scoring

import (
	"testing"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroFeatures() []float64 {
	return make([]float64, NumFeatures)
}

func TestRobustScaler_Transform(t *testing.T) {
	t.Run("scales around center", func(t *testing.T) {
		s := RobustScaler{Center: 10, Scale: 2}
		assert.InDelta(t, 5.0, s.Transform(20), 1e-9)
		assert.InDelta(t, 0.0, s.Transform(10), 1e-9)
	})

	t.Run("zero scale only recenters", func(t *testing.T) {
		s := RobustScaler{Center: 3, Scale: 0}
		assert.InDelta(t, 7.0, s.Transform(10), 1e-9)
	})
}

func TestFeatureVector(t *testing.T) {
	payload := []byte(`{
		"transaction_id": "tx-1",
		"amount": 100.0,
		"time": 50.0,
		"V1": 1.5,
		"v2": -0.5
	}`)

	txn, err := model.ParseTransaction(payload)
	require.NoError(t, err)

	scalers := Scalers{
		Amount: RobustScaler{Center: 0, Scale: 2},
		Time:   RobustScaler{Center: 10, Scale: 1},
	}

	features := FeatureVector(txn, scalers)
	require.Len(t, features, NumFeatures)

	assert.InDelta(t, 50.0, features[0], 1e-9) // scaled_amount
	assert.InDelta(t, 40.0, features[1], 1e-9) // scaled_time
	assert.InDelta(t, 1.5, features[2], 1e-9)  // V1, sem distinção de maiúsculas
	assert.InDelta(t, -0.5, features[3], 1e-9) // v2

	// Componentes ausentes assumem zero
	for i := 4; i < NumFeatures; i++ {
		assert.Zero(t, features[i])
	}
}

func TestLogisticModel_Predict(t *testing.T) {
	m := &LogisticModel{Weights: zeroFeatures(), Intercept: 0}
	require.NoError(t, m.validate())

	score := m.Predict(zeroFeatures())
	assert.InDelta(t, 0.5, score.Fraud, 1e-9)
	assert.InDelta(t, 0.5, score.NonFraud, 1e-9)

	// Intercepto muito positivo leva a probabilidade de fraude perto de 1
	m.Intercept = 20
	score = m.Predict(zeroFeatures())
	assert.Greater(t, score.Fraud, 0.99)
	assert.InDelta(t, 1.0, score.Fraud+score.NonFraud, 1e-9)
}

func TestSVCModel_Predict(t *testing.T) {
	weights := zeroFeatures()
	weights[0] = 1

	m := &SVCModel{Weights: weights, Intercept: -1}
	require.NoError(t, m.validate())

	features := zeroFeatures()
	features[0] = 1 // decisão = 0

	score := m.Predict(features)
	assert.InDelta(t, 0.5, score.Fraud, 1e-9)
}

func TestKNeighborsModel_Predict(t *testing.T) {
	near := zeroFeatures()
	far := zeroFeatures()
	for i := range far {
		far[i] = 10
	}

	m := &KNeighborsModel{
		K:      1,
		Points: [][]float64{near, far},
		Labels: []int{0, 1},
	}
	require.NoError(t, m.validate())

	t.Run("nearest neighbor decides", func(t *testing.T) {
		score := m.Predict(zeroFeatures())
		assert.Zero(t, score.Fraud)
		assert.Equal(t, 1.0, score.NonFraud)

		score = m.Predict(far)
		assert.Equal(t, 1.0, score.Fraud)
	})

	t.Run("vote fraction with k=2", func(t *testing.T) {
		m2 := &KNeighborsModel{K: 2, Points: m.Points, Labels: m.Labels}
		require.NoError(t, m2.validate())

		score := m2.Predict(zeroFeatures())
		assert.InDelta(t, 0.5, score.Fraud, 1e-9)
	})
}

func TestTreeModel_Predict(t *testing.T) {
	m := &TreeModel{
		Nodes: []TreeNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
			{Feature: -1, Value: []float64{10, 0}},
			{Feature: -1, Value: []float64{1, 9}},
		},
	}
	require.NoError(t, m.validate())

	left := zeroFeatures()
	score := m.Predict(left)
	assert.Zero(t, score.Fraud)

	right := zeroFeatures()
	right[0] = 1
	score = m.Predict(right)
	assert.InDelta(t, 0.9, score.Fraud, 1e-9)
	assert.InDelta(t, 0.1, score.NonFraud, 1e-9)
}

func TestKerasModel_Predict(t *testing.T) {
	// Uma única camada softmax com pesos zero responde [0.5, 0.5]
	weights := make([][]float64, NumFeatures)
	for i := range weights {
		weights[i] = []float64{0, 0}
	}

	m := &KerasModel{
		Layers: []DenseLayer{
			{Weights: weights, Biases: []float64{0, 0}, Activation: "softmax"},
		},
	}
	require.NoError(t, m.validate())

	score := m.Predict(zeroFeatures())
	assert.InDelta(t, 0.5, score.Fraud, 1e-9)
	assert.InDelta(t, 0.5, score.NonFraud, 1e-9)

	// Viés maior na unidade de fraude desloca a distribuição
	m.Layers[0].Biases = []float64{0, 2}
	score = m.Predict(zeroFeatures())
	assert.Greater(t, score.Fraud, score.NonFraud)
	assert.InDelta(t, 1.0, score.Fraud+score.NonFraud, 1e-9)
}

func TestKerasModel_Validate(t *testing.T) {
	t.Run("rejects empty network", func(t *testing.T) {
		m := &KerasModel{}
		require.Error(t, m.validate())
	})

	t.Run("rejects output layer without two units", func(t *testing.T) {
		weights := make([][]float64, NumFeatures)
		for i := range weights {
			weights[i] = []float64{0}
		}
		m := &KerasModel{
			Layers: []DenseLayer{{Weights: weights, Biases: []float64{0}}},
		}
		require.Error(t, m.validate())
	})
}

func TestSoftmax(t *testing.T) {
	out := softmax([]float64{1000, 1000})
	assert.InDelta(t, 0.5, out[0], 1e-9)
	assert.InDelta(t, 0.5, out[1], 1e-9)
}
