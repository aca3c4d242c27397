package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/domain/repository"
	"github.com/credifraud/fraud-api-go/internal/infra/metrics"
	"github.com/credifraud/fraud-api-go/pkg/cache"
	"github.com/credifraud/fraud-api-go/pkg/resilience"
	"go.uber.org/zap"
)

// Scorer aplica o ensemble de modelos a uma transação
type Scorer interface {
	Score(ctx context.Context, txn *model.Transaction) (*model.PredictionSet, error)
}

// Publisher envia as predições ao tópico de saída
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Result é a resposta da consulta de uma transação analisada
type Result struct {
	TransactionID string                   `json:"transaction_id"`
	Status        string                   `json:"status"`
	Details       *model.ScoredTransaction `json:"details"`
}

// Service orquestra o pipeline pontuar → armazenar → publicar e as
// consultas de transações analisadas
type Service struct {
	repo      repository.TransactionRepository
	cache     cache.Cache
	scorer    Scorer
	publisher Publisher
	breaker   *resilience.CircuitBreaker
	metrics   *metrics.PipelineMetrics
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewService cria o serviço de transações
func NewService(
	repo repository.TransactionRepository,
	cache cache.Cache,
	scorer Scorer,
	publisher Publisher,
	breaker *resilience.CircuitBreaker,
	pipelineMetrics *metrics.PipelineMetrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		scorer:    scorer,
		publisher: publisher,
		breaker:   breaker,
		metrics:   pipelineMetrics,
		logger:    logger,
		cacheTTL:  5 * time.Minute,
	}
}

// Process pontua, armazena e publica uma transação. Falha de pontuação ou
// de armazenamento interrompe o processamento; falha de publicação é
// registrada mas não invalida o resultado, pois a transação já está
// persistida.
func (s *Service) Process(ctx context.Context, txn *model.Transaction) (*model.PredictionSet, error) {
	predictions, err := s.scorer.Score(ctx, txn)
	if err != nil {
		s.logger.Error("Erro ao pontuar transação",
			zap.String("transaction_id", txn.ID),
			zap.Error(err))
		s.observe("score", "error")
		return nil, err
	}
	s.observe("score", "ok")

	if err := s.repo.Store(ctx, txn, predictions); err != nil {
		s.observe("store", "error")
		return nil, err
	}
	s.observe("store", "ok")
	s.logger.Info("Transação armazenada",
		zap.String("transaction_id", txn.ID))

	s.publish(ctx, txn.ID, predictions)

	// Invalidar resultado possivelmente em cache para este ID
	if txn.ID != "" {
		if err := s.cache.Delete(ctx, cacheKey(txn.ID)); err != nil {
			s.logger.Warn("Erro ao invalidar cache de transação", zap.Error(err))
		}
	}

	return predictions, nil
}

// publish envia as predições através do circuit breaker
func (s *Service) publish(ctx context.Context, key string, predictions *model.PredictionSet) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(predictions)
	if err != nil {
		s.logger.Error("Erro ao serializar predições", zap.Error(err))
		s.observe("publish", "error")
		return
	}

	err = s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.publisher.Publish(ctx, key, payload)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		s.logger.Warn("Publicação de predições suspensa, circuit breaker aberto",
			zap.String("transaction_id", key))
		s.observe("publish", "skipped")
		return
	}
	if err != nil {
		s.observe("publish", "error")
		return
	}
	s.observe("publish", "ok")
}

// GetTransaction consulta uma transação analisada e deriva seu status
func (s *Service) GetTransaction(ctx context.Context, transactionID string) (*Result, error) {
	var scored model.ScoredTransaction

	// Tentar cache primeiro
	key := cacheKey(transactionID)
	found, err := s.cache.Get(ctx, key, &scored)
	if err != nil {
		s.logger.Warn("Erro ao buscar transação do cache",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		// Continuar para buscar do repositório em caso de erro
	} else if found {
		return buildResult(transactionID, &scored), nil
	}

	// Se não estiver no cache, buscar do repositório
	fromRepo, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	// Armazenar no cache para futuras consultas
	if err := s.cache.Set(ctx, key, fromRepo, s.cacheTTL); err != nil {
		s.logger.Warn("Erro ao armazenar transação no cache", zap.Error(err))
	}

	return buildResult(transactionID, fromRepo), nil
}

// Recent retorna as transações analisadas mais recentes
func (s *Service) Recent(ctx context.Context, limit int) ([]*model.ScoredTransaction, error) {
	return s.repo.Recent(ctx, limit)
}

// Count retorna o total de transações armazenadas
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ClearCache limpa o cache de resultados
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Error("Erro ao limpar cache", zap.Error(err))
		return err
	}
	s.logger.Info("Cache de transações limpo com sucesso")
	return nil
}

func (s *Service) observe(stage, outcome string) {
	if s.metrics != nil {
		s.metrics.TransactionProcessed(stage, outcome)
	}
}

func cacheKey(transactionID string) string {
	return "transaction:" + transactionID
}

func buildResult(transactionID string, scored *model.ScoredTransaction) *Result {
	return &Result{
		TransactionID: transactionID,
		Status:        scored.Predictions.Verdict(),
		Details:       scored,
	}
}
