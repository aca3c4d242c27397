package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
)

// Classifier produz um par de probabilidades [não fraude, fraude] para um
// vetor de entrada
type Classifier interface {
	Predict(features []float64) model.ModelScore
}

// LogisticModel é uma regressão logística binária
type LogisticModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (m *LogisticModel) Predict(features []float64) model.ModelScore {
	fraud := sigmoid(dot(m.Weights, features) + m.Intercept)
	return model.ModelScore{Fraud: fraud, NonFraud: 1 - fraud}
}

func (m *LogisticModel) validate() error {
	if len(m.Weights) != NumFeatures {
		return fmt.Errorf("regressão logística espera %d pesos, encontrou %d", NumFeatures, len(m.Weights))
	}
	return nil
}

// SVCModel é um SVC linear; a distância à margem é convertida em
// probabilidade com uma sigmoide, como no serviço original
type SVCModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (m *SVCModel) Predict(features []float64) model.ModelScore {
	decision := dot(m.Weights, features) + m.Intercept
	fraud := sigmoid(decision)
	return model.ModelScore{Fraud: fraud, NonFraud: 1 - fraud}
}

func (m *SVCModel) validate() error {
	if len(m.Weights) != NumFeatures {
		return fmt.Errorf("svc espera %d pesos, encontrou %d", NumFeatures, len(m.Weights))
	}
	return nil
}

// KNeighborsModel classifica por votação dos k vizinhos mais próximos
// (distância euclidiana) entre os pontos de referência armazenados
type KNeighborsModel struct {
	K      int         `json:"k"`
	Points [][]float64 `json:"points"`
	Labels []int       `json:"labels"`
}

func (m *KNeighborsModel) Predict(features []float64) model.ModelScore {
	type neighbor struct {
		dist  float64
		label int
	}

	neighbors := make([]neighbor, len(m.Points))
	for i, point := range m.Points {
		neighbors[i] = neighbor{dist: euclidean(point, features), label: m.Labels[i]}
	}

	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })

	k := m.K
	if k > len(neighbors) {
		k = len(neighbors)
	}

	fraudVotes := 0
	for _, n := range neighbors[:k] {
		if n.label == 1 {
			fraudVotes++
		}
	}

	fraud := float64(fraudVotes) / float64(k)
	return model.ModelScore{Fraud: fraud, NonFraud: 1 - fraud}
}

func (m *KNeighborsModel) validate() error {
	if m.K <= 0 {
		return fmt.Errorf("kneighbors requer k positivo, encontrou %d", m.K)
	}
	if len(m.Points) == 0 {
		return fmt.Errorf("kneighbors requer pontos de referência")
	}
	if len(m.Points) != len(m.Labels) {
		return fmt.Errorf("kneighbors tem %d pontos e %d rótulos", len(m.Points), len(m.Labels))
	}
	for i, point := range m.Points {
		if len(point) != NumFeatures {
			return fmt.Errorf("ponto %d tem dimensão %d, esperado %d", i, len(point), NumFeatures)
		}
	}
	return nil
}

// TreeNode é um nó de árvore de decisão. Feature -1 indica folha; Value
// guarda a contagem de amostras por classe no nó
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// TreeModel é uma árvore de decisão binária serializada como lista de nós
type TreeModel struct {
	Nodes []TreeNode `json:"nodes"`
}

func (m *TreeModel) Predict(features []float64) model.ModelScore {
	idx := 0
	for {
		node := m.Nodes[idx]
		if node.Feature < 0 {
			total := node.Value[0] + node.Value[1]
			if total == 0 {
				return model.ModelScore{Fraud: 0.5, NonFraud: 0.5}
			}
			fraud := node.Value[1] / total
			return model.ModelScore{Fraud: fraud, NonFraud: 1 - fraud}
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

func (m *TreeModel) validate() error {
	if len(m.Nodes) == 0 {
		return fmt.Errorf("árvore de decisão vazia")
	}
	for i, node := range m.Nodes {
		if node.Feature < 0 {
			if len(node.Value) != 2 {
				return fmt.Errorf("folha %d sem contagens de classe", i)
			}
			continue
		}
		if node.Feature >= NumFeatures {
			return fmt.Errorf("nó %d referencia feature inválida %d", i, node.Feature)
		}
		if node.Left <= i || node.Left >= len(m.Nodes) || node.Right <= i || node.Right >= len(m.Nodes) {
			return fmt.Errorf("nó %d tem filhos inválidos", i)
		}
	}
	return nil
}

// DenseLayer é uma camada densa da rede neural
type DenseLayer struct {
	Weights    [][]float64 `json:"weights"` // [entrada][saída]
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"` // relu, softmax, linear
}

// KerasModel é uma rede neural densa exportada do modelo Keras original
type KerasModel struct {
	Layers []DenseLayer `json:"layers"`
}

func (m *KerasModel) Predict(features []float64) model.ModelScore {
	current := features
	for _, layer := range m.Layers {
		current = layer.apply(current)
	}

	// A saída final tem duas unidades: [não fraude, fraude]
	return model.ModelScore{NonFraud: current[0], Fraud: current[1]}
}

func (l *DenseLayer) apply(input []float64) []float64 {
	out := make([]float64, len(l.Biases))
	for j := range out {
		sum := l.Biases[j]
		for i, x := range input {
			sum += x * l.Weights[i][j]
		}
		out[j] = sum
	}

	switch l.Activation {
	case "relu":
		for j, v := range out {
			if v < 0 {
				out[j] = 0
			}
		}
	case "softmax":
		out = softmax(out)
	}

	return out
}

func (m *KerasModel) validate() error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("rede neural sem camadas")
	}

	expected := NumFeatures
	for i, layer := range m.Layers {
		if len(layer.Weights) != expected {
			return fmt.Errorf("camada %d espera entrada %d, encontrou %d", i, expected, len(layer.Weights))
		}
		if len(layer.Weights) > 0 && len(layer.Weights[0]) != len(layer.Biases) {
			return fmt.Errorf("camada %d tem pesos e vieses incompatíveis", i)
		}
		expected = len(layer.Biases)
	}

	if expected != 2 {
		return fmt.Errorf("camada de saída deve ter 2 unidades, encontrou %d", expected)
	}
	return nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(values []float64) []float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	sum := 0.0
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
