package mocks

import (
	"context"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// MockScorer é um mock para o ensemble de modelos
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, txn *model.Transaction) (*model.PredictionSet, error) {
	args := m.Called(ctx, txn)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.PredictionSet), args.Error(1)
}

// MockPublisher é um mock para o publicador de predições
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockMessageReader é um mock para o leitor de mensagens Kafka
type MockMessageReader struct {
	mock.Mock
}

func (m *MockMessageReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafkago.Message), args.Error(1)
}

func (m *MockMessageReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageReader) Close() error {
	args := m.Called()
	return args.Error(0)
}
