package scoring

import (
	"fmt"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
)

// NumFeatures é a dimensão do vetor de entrada dos modelos
const NumFeatures = 30

// featureOrder é a ordem esperada pelos modelos: valor e instante
// escalados seguidos das componentes v1..v28
var featureOrder = buildFeatureOrder()

func buildFeatureOrder() []string {
	order := []string{"scaled_amount", "scaled_time"}
	for i := 1; i <= 28; i++ {
		order = append(order, fmt.Sprintf("v%d", i))
	}
	return order
}

// RobustScaler escala um valor com os parâmetros (mediana e IQR) ajustados
// durante o treinamento dos modelos
type RobustScaler struct {
	Center float64 `json:"center"`
	Scale  float64 `json:"scale"`
}

// Transform aplica a escala robusta a um valor
func (s RobustScaler) Transform(value float64) float64 {
	if s.Scale == 0 {
		return value - s.Center
	}
	return (value - s.Center) / s.Scale
}

// Scalers reúne os escaladores das colunas amount e time
type Scalers struct {
	Amount RobustScaler `json:"amount"`
	Time   RobustScaler `json:"time"`
}

// FeatureVector monta o vetor de entrada a partir do payload da transação.
// Campos ausentes (amount, time ou qualquer v*) assumem zero; chaves são
// resolvidas sem distinção de maiúsculas.
func FeatureVector(txn *model.Transaction, scalers Scalers) []float64 {
	features := make([]float64, 0, NumFeatures)

	amount, _ := txn.Number("amount")
	timeVal, _ := txn.Number("time")

	features = append(features,
		scalers.Amount.Transform(amount),
		scalers.Time.Transform(timeVal),
	)

	for i := 1; i <= 28; i++ {
		v, _ := txn.Number(fmt.Sprintf("v%d", i))
		features = append(features, v)
	}

	return features
}
