package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/credifraud/fraud-api-go/internal/app/transaction"
	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/domain/repository"
	apperrors "github.com/credifraud/fraud-api-go/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConsumerController controla o consumidor de transações em segundo plano
type ConsumerController interface {
	Start(ctx context.Context) bool
	Running() bool
}

// TransactionHandler expõe o pipeline de análise de fraude via HTTP
type TransactionHandler struct {
	service  *transaction.Service
	consumer ConsumerController
	// Contexto base do processo: o laço de consumo deve sobreviver à
	// requisição que o iniciou
	baseCtx context.Context
	logger  *zap.Logger
}

// NewTransactionHandler cria um novo handler de transações
func NewTransactionHandler(service *transaction.Service, consumer ConsumerController, baseCtx context.Context, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		service:  service,
		consumer: consumer,
		baseCtx:  baseCtx,
		logger:   logger,
	}
}

// GetTransaction retorna o resultado da análise de uma transação
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID := c.Param("id")
	if transactionID == "" {
		respondError(c, apperrors.BadRequest("ID da transação não fornecido", nil))
		return
	}

	result, err := h.service.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			respondError(c, apperrors.NotFound("Transação", err))
			return
		}

		h.logger.Error("Erro ao consultar transação",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		respondError(c, apperrors.InternalServer("Erro ao consultar transação", err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// StartConsuming inicia o consumo de transações em segundo plano.
// Chamadas subsequentes são idempotentes.
func (h *TransactionHandler) StartConsuming(c *gin.Context) {
	if h.consumer == nil {
		respondError(c, apperrors.New(http.StatusServiceUnavailable, "Consumidor não configurado", apperrors.ErrServiceUnavailable))
		return
	}

	if h.consumer.Start(h.baseCtx) {
		c.JSON(http.StatusOK, gin.H{"message": "Consumo de transações iniciado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consumo de transações já está em execução"})
}

// ProcessTransaction analisa uma transação enviada diretamente via HTTP,
// sem passar pelo tópico de entrada
func (h *TransactionHandler) ProcessTransaction(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apperrors.BadRequest("Erro ao ler o corpo da requisição", err))
		return
	}

	txn, err := model.ParseTransaction(payload)
	if err != nil {
		respondError(c, apperrors.BadRequest("Transação inválida", err).WithDetails(err.Error()))
		return
	}

	predictions, err := h.service.Process(c.Request.Context(), txn)
	if err != nil {
		h.logger.Error("Erro processando transação",
			zap.String("transaction_id", txn.ID),
			zap.Error(err))
		respondError(c, apperrors.InternalServer("Erro ao processar transação", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction_id": txn.ID,
		"status":         predictions.Verdict(),
		"predictions":    predictions,
	})
}

// RecentTransactions lista as transações analisadas mais recentes
func (h *TransactionHandler) RecentTransactions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(c, apperrors.BadRequest("Parâmetro limit inválido", err))
			return
		}
		limit = parsed
	}

	transactions, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Erro ao listar transações recentes", zap.Error(err))
		respondError(c, apperrors.InternalServer("Erro ao listar transações", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":        len(transactions),
		"transactions": transactions,
	})
}

// Stats retorna estatísticas do pipeline (apenas administradores)
func (h *TransactionHandler) Stats(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Erro ao contar transações", zap.Error(err))
		respondError(c, apperrors.InternalServer("Erro ao obter estatísticas", err))
		return
	}

	running := h.consumer != nil && h.consumer.Running()

	c.JSON(http.StatusOK, gin.H{
		"transactions_stored": count,
		"consumer_running":    running,
	})
}

// ClearCache limpa o cache de transações (apenas administradores)
func (h *TransactionHandler) ClearCache(c *gin.Context) {
	if err := h.service.ClearCache(c.Request.Context()); err != nil {
		h.logger.Error("Erro ao limpar o cache", zap.Error(err))
		respondError(c, apperrors.InternalServer("Erro ao limpar o cache", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cache limpo com sucesso"})
}
