package consumer_test

import (
	"context"
	"testing"
	"time"

	"github.com/credifraud/fraud-api-go/internal/app/transaction"
	"github.com/credifraud/fraud-api-go/internal/consumer"
	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/mocks"
	"github.com/credifraud/fraud-api-go/internal/testutils"
	"github.com/credifraud/fraud-api-go/pkg/resilience"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(logger *zap.Logger, repo *mocks.MockTransactionRepository, scorer *mocks.MockScorer) *transaction.Service {
	cache := new(mocks.MockCache)
	cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:            "test",
		MaxRequestsFail: 3,
		Timeout:         time.Second,
		MaxRequests:     1,
	}, logger, nil)

	return transaction.NewService(repo, cache, scorer, nil, breaker, nil, logger)
}

func TestConsumer_StartIsIdempotent(t *testing.T) {
	logger := testutils.TestLogger(t)

	reader := new(mocks.MockMessageReader)
	// Bloqueia até o contexto ser cancelado
	reader.On("FetchMessage", mock.Anything).
		Return(kafkago.Message{}, context.Canceled).
		WaitUntil(time.After(50 * time.Millisecond))

	service := newService(logger, new(mocks.MockTransactionRepository), new(mocks.MockScorer))
	c := consumer.NewConsumer(reader, service, "transactions_stream", nil, logger)

	ctx := context.Background()

	assert.True(t, c.Start(ctx))
	assert.False(t, c.Start(ctx), "second start should be a no-op")
	assert.True(t, c.Running())

	c.Stop()
	assert.False(t, c.Running())
}

func TestConsumer_ProcessesMessages(t *testing.T) {
	logger := testutils.TestLogger(t)

	payload := []byte(`{"transaction_id": "tx-7", "amount": 5}`)
	msg := kafkago.Message{Topic: "transactions_stream", Offset: 3, Value: payload}

	predictions := &model.PredictionSet{
		KNeighbors: model.ModelScore{NonFraud: 0.6, Fraud: 0.4},
	}

	repo := new(mocks.MockTransactionRepository)
	scorer := new(mocks.MockScorer)

	scorer.On("Score", mock.Anything, mock.Anything).Return(predictions, nil).Once()
	repo.On("Store", mock.Anything, mock.Anything, predictions).Return(nil).Once()

	reader := new(mocks.MockMessageReader)
	reader.On("FetchMessage", mock.Anything).Return(msg, nil).Once()
	// Encerra o laço depois da primeira mensagem
	reader.On("FetchMessage", mock.Anything).Return(kafkago.Message{}, context.Canceled)
	reader.On("CommitMessages", mock.Anything, mock.Anything).Return(nil).Once()

	service := newService(logger, repo, scorer)
	c := consumer.NewConsumer(reader, service, "transactions_stream", nil, logger)

	require.True(t, c.Start(context.Background()))

	require.Eventually(t, func() bool { return !c.Running() }, 2*time.Second, 10*time.Millisecond)

	repo.AssertExpectations(t)
	scorer.AssertExpectations(t)
	reader.AssertExpectations(t)
}

func TestConsumer_SkipsMalformedMessages(t *testing.T) {
	logger := testutils.TestLogger(t)

	msg := kafkago.Message{Topic: "transactions_stream", Offset: 9, Value: []byte("not-json")}

	repo := new(mocks.MockTransactionRepository)
	scorer := new(mocks.MockScorer)

	reader := new(mocks.MockMessageReader)
	reader.On("FetchMessage", mock.Anything).Return(msg, nil).Once()
	reader.On("FetchMessage", mock.Anything).Return(kafkago.Message{}, context.Canceled)
	// Mensagem malformada ainda é confirmada para não travar a partição
	reader.On("CommitMessages", mock.Anything, mock.Anything).Return(nil).Once()

	service := newService(logger, repo, scorer)
	c := consumer.NewConsumer(reader, service, "transactions_stream", nil, logger)

	require.True(t, c.Start(context.Background()))
	require.Eventually(t, func() bool { return !c.Running() }, 2*time.Second, 10*time.Millisecond)

	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
	reader.AssertExpectations(t)
}
