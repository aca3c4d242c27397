package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/credifraud/fraud-api-go/internal/adapter/kafka"
	"github.com/credifraud/fraud-api-go/pkg/config"
	"github.com/credifraud/fraud-api-go/pkg/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gera uma transação sintética e a publica no tópico de entrada. Útil para
// testar o pipeline de ponta a ponta sem um produtor real.
func main() {
	var (
		brokers  string
		topic    string
		protocol string
		username string
		password string
		count    int
	)

	flag.StringVar(&brokers, "brokers", "localhost:9092", "Lista de brokers separados por vírgula")
	flag.StringVar(&topic, "topic", "transactions_stream", "Tópico de destino")
	flag.StringVar(&protocol, "protocol", "PLAINTEXT", "Protocolo de segurança (PLAINTEXT, SASL_SSL)")
	flag.StringVar(&username, "username", "", "Usuário SASL")
	flag.StringVar(&password, "password", "", "Senha SASL")
	flag.IntVar(&count, "count", 1, "Quantidade de transações a enviar")
	flag.Parse()

	logger, err := logging.NewLogger()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.KafkaConfig{
		Enabled:          true,
		Brokers:          strings.Split(brokers, ","),
		SecurityProtocol: protocol,
		SASLMechanism:    "PLAIN",
		SASLUsername:     username,
		SASLPassword:     password,
		TopicOutput:      topic,
		DialTimeout:      10 * time.Second,
	}

	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()

	publisher := kafka.NewPublisher(writer, topic, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 0; i < count; i++ {
		txn := sampleTransaction()
		payload, err := json.Marshal(txn)
		if err != nil {
			logger.Fatal("Erro ao serializar transação", zap.Error(err))
		}

		id := txn["transaction_id"].(string)
		if err := publisher.Publish(ctx, id, payload); err != nil {
			logger.Fatal("Erro ao publicar transação", zap.Error(err))
		}

		logger.Info("Transação publicada",
			zap.String("transaction_id", id),
			zap.String("topic", topic))
	}
}

func sampleTransaction() map[string]interface{} {
	txn := map[string]interface{}{
		"transaction_id": uuid.NewString(),
		"amount":         rand.Float64() * 500,
		"time":           float64(rand.Intn(172800)),
	}
	for i := 1; i <= 28; i++ {
		txn[fmt.Sprintf("v%d", i)] = rand.NormFloat64()
	}
	return txn
}
