package kafka

import (
	"context"

	"github.com/credifraud/fraud-api-go/internal/infra/metrics"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter é o subconjunto de kafka.Writer usado pelo publicador
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Publisher envia predições para o tópico de saída
type Publisher struct {
	writer  messageWriter
	topic   string
	logger  *zap.Logger
	metrics *metrics.PipelineMetrics
}

// NewPublisher cria um publicador sobre o writer informado
func NewPublisher(writer messageWriter, topic string, pipelineMetrics *metrics.PipelineMetrics, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer:  writer,
		topic:   topic,
		logger:  logger,
		metrics: pipelineMetrics,
	}
}

// Publish envia uma mensagem com a chave informada
func (p *Publisher) Publish(ctx context.Context, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Erro enviando mensagem ao tópico",
			zap.String("topic", p.topic),
			zap.String("key", key),
			zap.Error(err))
		if p.metrics != nil {
			p.metrics.KafkaError(p.topic, "produce")
		}
		return err
	}

	if p.metrics != nil {
		p.metrics.KafkaMessage(p.topic, "out")
	}
	p.logger.Debug("Mensagem enviada ao tópico",
		zap.String("topic", p.topic),
		zap.String("key", key))

	return nil
}
