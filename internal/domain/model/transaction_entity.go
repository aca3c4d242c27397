package model

import (
	"time"
)

// TransactionEntity é a representação de banco de dados de uma transação
// analisada. O payload original fica em JSON e cada modelo do ensemble tem
// um par de colunas fraude/não-fraude, espelhando o esquema histórico.
type TransactionEntity struct {
	ID                         uint      `gorm:"primaryKey"`
	TransactionJSON            string    `gorm:"column:transaction_json;type:json"`
	LogisticRegressionFraud    float64   `gorm:"column:logistic_regression_fraud"`
	LogisticRegressionNonFraud float64   `gorm:"column:logistic_regression_non_fraud"`
	KNeighborsFraud            float64   `gorm:"column:kneighbors_fraud"`
	KNeighborsNonFraud         float64   `gorm:"column:kneighbors_non_fraud"`
	SVCFraud                   float64   `gorm:"column:svc_fraud"`
	SVCNonFraud                float64   `gorm:"column:svc_non_fraud"`
	DecisionTreeFraud          float64   `gorm:"column:decision_tree_fraud"`
	DecisionTreeNonFraud       float64   `gorm:"column:decision_tree_non_fraud"`
	KerasFraud                 float64   `gorm:"column:keras_fraud"`
	KerasNonFraud              float64   `gorm:"column:keras_non_fraud"`
	CreatedAt                  time.Time `gorm:"autoCreateTime"`
}

// TableName define o nome da tabela
func (TransactionEntity) TableName() string {
	return "transactions"
}
