package mocks

import (
	"context"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository é um mock para o repositório de transações
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Store(ctx context.Context, txn *model.Transaction, predictions *model.PredictionSet) error {
	args := m.Called(ctx, txn, predictions)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.ScoredTransaction, error) {
	args := m.Called(ctx, transactionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.ScoredTransaction), args.Error(1)
}

func (m *MockTransactionRepository) Recent(ctx context.Context, limit int) ([]*model.ScoredTransaction, error) {
	args := m.Called(ctx, limit)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*model.ScoredTransaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
