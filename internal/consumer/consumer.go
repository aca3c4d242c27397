package consumer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/credifraud/fraud-api-go/internal/app/transaction"
	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/infra/metrics"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader é o subconjunto de kafka.Reader usado pelo consumidor
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer consome transações do tópico de entrada em segundo plano e as
// encaminha ao pipeline de processamento
type Consumer struct {
	reader  MessageReader
	service *transaction.Service
	topic   string
	logger  *zap.Logger
	metrics *metrics.PipelineMetrics

	mutex   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// Pausa após erro de fetch, para não martelar um broker indisponível
	retryDelay time.Duration
}

// NewConsumer cria um consumidor de transações
func NewConsumer(reader MessageReader, service *transaction.Service, topic string, pipelineMetrics *metrics.PipelineMetrics, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		service:    service,
		topic:      topic,
		logger:     logger,
		metrics:    pipelineMetrics,
		retryDelay: time.Second,
	}
}

// Start inicia o laço de consumo em segundo plano. Retorna false se o
// consumidor já estava em execução.
func (c *Consumer) Start(ctx context.Context) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.running {
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	if c.metrics != nil {
		c.metrics.SetConsumerRunning(true)
	}
	c.logger.Info("Consumo de transações iniciado em segundo plano",
		zap.String("topic", c.topic))

	go c.loop(loopCtx)

	return true
}

// Stop interrompe o laço de consumo e aguarda sua finalização
func (c *Consumer) Stop() {
	c.mutex.Lock()
	if !c.running {
		c.mutex.Unlock()
		return
	}
	cancel := c.cancel
	done := c.done
	c.mutex.Unlock()

	cancel()
	<-done
}

// Running informa se o consumidor está ativo
func (c *Consumer) Running() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.running
}

func (c *Consumer) loop(ctx context.Context) {
	defer func() {
		c.mutex.Lock()
		c.running = false
		close(c.done)
		c.mutex.Unlock()

		if c.metrics != nil {
			c.metrics.SetConsumerRunning(false)
		}
		c.logger.Info("Consumo de transações encerrado", zap.String("topic", c.topic))
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}

			c.logger.Error("Erro no Kafka Consumer", zap.Error(err))
			if c.metrics != nil {
				c.metrics.KafkaError(c.topic, "fetch")
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}

		c.handle(ctx, msg)

		// Mensagem malformada também é confirmada: reprocessá-la nunca
		// terá sucesso
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Erro ao confirmar offset", zap.Error(err))
			if c.metrics != nil {
				c.metrics.KafkaError(c.topic, "commit")
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) {
	if c.metrics != nil {
		c.metrics.KafkaMessage(c.topic, "in")
	}

	txn, err := model.ParseTransaction(msg.Value)
	if err != nil {
		c.logger.Error("Erro processando transação",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		if c.metrics != nil {
			c.metrics.TransactionProcessed("decode", "error")
		}
		return
	}

	c.logger.Info("Transação recebida",
		zap.String("transaction_id", txn.ID),
		zap.Int64("offset", msg.Offset))

	if _, err := c.service.Process(ctx, txn); err != nil {
		// Registrado pelo serviço; o laço continua com a próxima mensagem
		c.logger.Error("Erro processando transação",
			zap.String("transaction_id", txn.ID),
			zap.Error(err))
	}
}
