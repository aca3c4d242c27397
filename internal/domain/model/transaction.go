package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Veredictos possíveis de uma transação analisada
const (
	VerdictFraud    = "fraude"
	VerdictApproved = "aprobada"
	VerdictNoResult = "sin resultado"
)

// Transaction representa uma transação de cartão recebida para análise.
// O payload original é preservado integralmente; os campos numéricos são
// acessados de forma insensível a maiúsculas.
type Transaction struct {
	ID     string
	Fields map[string]interface{}
}

// ParseTransaction decodifica uma transação a partir de JSON
func ParseTransaction(data []byte) (*Transaction, error) {
	fields := map[string]interface{}{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("payload de transação inválido: %w", err)
	}
	return NewTransaction(fields), nil
}

// NewTransaction cria uma transação a partir de um payload decodificado
func NewTransaction(fields map[string]interface{}) *Transaction {
	t := &Transaction{Fields: fields}

	if raw, ok := lookup(fields, "transaction_id"); ok {
		switch v := raw.(type) {
		case string:
			t.ID = v
		case float64:
			t.ID = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return t
}

// JSON serializa o payload original da transação
func (t *Transaction) JSON() ([]byte, error) {
	return json.Marshal(t.Fields)
}

// Number retorna um campo numérico do payload, aceitando também valores em
// forma de string. A busca ignora maiúsculas/minúsculas.
func (t *Transaction) Number(key string) (float64, bool) {
	raw, ok := lookup(t.Fields, key)
	if !ok {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}

	return 0, false
}

func lookup(fields map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := fields[key]; ok {
		return v, true
	}
	for k, v := range fields {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// ModelScore é o par de probabilidades produzido por um modelo
type ModelScore struct {
	NonFraud float64 `json:"non_fraud"`
	Fraud    float64 `json:"fraud"`
}

// PredictionSet reúne as probabilidades de todos os modelos do ensemble
type PredictionSet struct {
	Logistic   ModelScore `json:"logistic"`
	KNeighbors ModelScore `json:"kneighbors"`
	SVC        ModelScore `json:"svc"`
	Tree       ModelScore `json:"tree"`
	Keras      ModelScore `json:"keras"`
}

// Verdict deriva o status da transação a partir do modelo kneighbors,
// reproduzindo a regra de decisão usada pelo serviço de consulta
func (p *PredictionSet) Verdict() string {
	if p == nil {
		return VerdictNoResult
	}
	if p.KNeighbors.NonFraud > p.KNeighbors.Fraud {
		return VerdictFraud
	}
	return VerdictApproved
}

// ScoredTransaction é uma transação já processada, com suas predições
type ScoredTransaction struct {
	Transaction *Transaction   `json:"transaction"`
	Predictions *PredictionSet `json:"predictions"`
	CreatedAt   time.Time      `json:"created_at"`
}

// MarshalJSON garante que o payload original apareça sob "transaction"
func (s *ScoredTransaction) MarshalJSON() ([]byte, error) {
	type out struct {
		Transaction map[string]interface{} `json:"transaction"`
		Predictions *PredictionSet         `json:"predictions"`
		CreatedAt   time.Time              `json:"created_at"`
	}
	o := out{Predictions: s.Predictions, CreatedAt: s.CreatedAt}
	if s.Transaction != nil {
		o.Transaction = s.Transaction.Fields
	}
	return json.Marshal(o)
}

// UnmarshalJSON reconstrói a transação a partir do payload serializado
func (s *ScoredTransaction) UnmarshalJSON(data []byte) error {
	var in struct {
		Transaction map[string]interface{} `json:"transaction"`
		Predictions *PredictionSet         `json:"predictions"`
		CreatedAt   time.Time              `json:"created_at"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	s.Predictions = in.Predictions
	s.CreatedAt = in.CreatedAt
	if in.Transaction != nil {
		s.Transaction = NewTransaction(in.Transaction)
	} else {
		s.Transaction = nil
	}
	return nil
}
