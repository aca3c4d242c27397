package kafka

import (
	"crypto/tls"
	"time"

	"github.com/credifraud/fraud-api-go/pkg/config"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

// saslMechanism monta o mecanismo SASL a partir da configuração.
// Retorna nil quando o cluster não exige autenticação.
func saslMechanism(cfg config.KafkaConfig) sasl.Mechanism {
	if cfg.SecurityProtocol != "SASL_SSL" {
		return nil
	}
	return plain.Mechanism{
		Username: cfg.SASLUsername,
		Password: cfg.SASLPassword,
	}
}

func tlsConfig(cfg config.KafkaConfig) *tls.Config {
	if cfg.SecurityProtocol != "SASL_SSL" {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// NewReader cria um consumidor para o tópico de entrada, inscrito no grupo
// configurado e começando do offset mais antigo
func NewReader(cfg config.KafkaConfig, logger *zap.Logger) *kafkago.Reader {
	dialer := &kafkago.Dialer{
		Timeout:       cfg.DialTimeout,
		DualStack:     true,
		SASLMechanism: saslMechanism(cfg),
		TLS:           tlsConfig(cfg),
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.ConsumerGroup,
		Topic:          cfg.TopicInput,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		StartOffset:    kafkago.FirstOffset,
		Dialer:         dialer,
		CommitInterval: 0, // commit explícito após processar
	})

	logger.Info("Kafka Consumer inscrito no tópico",
		zap.String("topic", cfg.TopicInput),
		zap.String("group", cfg.ConsumerGroup),
		zap.Strings("brokers", cfg.Brokers))

	return reader
}

// NewWriter cria um produtor para o tópico de saída
func NewWriter(cfg config.KafkaConfig, logger *zap.Logger) *kafkago.Writer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.TopicOutput,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		WriteTimeout: 10 * time.Second,
		Transport: &kafkago.Transport{
			SASL:        saslMechanism(cfg),
			TLS:         tlsConfig(cfg),
			DialTimeout: cfg.DialTimeout,
		},
	}

	logger.Info("Kafka Producer criado",
		zap.String("topic", cfg.TopicOutput),
		zap.Strings("brokers", cfg.Brokers))

	return writer
}
