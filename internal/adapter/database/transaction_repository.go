package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/domain/repository"
	"github.com/credifraud/fraud-api-go/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TransactionRepository implementa repository.TransactionRepository
type TransactionRepository struct {
	db     *gorm.DB
	logger *logging.ContextLogger
	tracer trace.Tracer
}

// NewTransactionRepository cria um novo repositório de transações
func NewTransactionRepository(db *gorm.DB, logger *zap.Logger) repository.TransactionRepository {
	tracer := otel.GetTracerProvider().Tracer("fraud-api.repository.transaction")

	return &TransactionRepository{
		db: db,
		// Logs do repositório carregam trace_id/span_id quando há span ativo
		logger: &logging.ContextLogger{Logger: logger},
		tracer: tracer,
	}
}

// Store grava uma transação e suas predições
func (r *TransactionRepository) Store(ctx context.Context, txn *model.Transaction, predictions *model.PredictionSet) error {
	ctx, span := r.tracer.Start(
		ctx,
		"TransactionRepository.Store",
		trace.WithAttributes(
			attribute.String("db.operation", "insert"),
			attribute.String("db.table", "transactions"),
			attribute.String("transaction.id", txn.ID),
		),
	)
	defer span.End()

	entity, err := modelToEntity(txn, predictions)
	if err != nil {
		span.SetStatus(codes.Error, "serialization error")
		return err
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		r.logger.ErrorCtx(ctx, "falha ao armazenar transação",
			zap.String("transaction_id", txn.ID),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao armazenar transação: %w", err)
	}

	return nil
}

// GetByTransactionID obtém a transação mais recente com o ID informado,
// filtrando pelo campo transaction_id do payload JSON
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.ScoredTransaction, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"TransactionRepository.GetByTransactionID",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "transactions"),
			attribute.String("transaction.id", transactionID),
		),
	)
	defer span.End()

	var entity model.TransactionEntity
	err := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", r.jsonIDExpr()), transactionID).
		Order("id DESC").
		First(&entity).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrTransactionNotFound
	}
	if err != nil {
		r.logger.ErrorCtx(ctx, "falha ao buscar transação",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao buscar transação: %w", err)
	}

	return entityToModel(&entity)
}

// Recent retorna as transações analisadas mais recentes
func (r *TransactionRepository) Recent(ctx context.Context, limit int) ([]*model.ScoredTransaction, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"TransactionRepository.Recent",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "transactions"),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	var entities []model.TransactionEntity
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&entities).Error; err != nil {
		r.logger.ErrorCtx(ctx, "falha ao buscar transações recentes", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao buscar transações recentes: %w", err)
	}

	results := make([]*model.ScoredTransaction, 0, len(entities))
	for i := range entities {
		scored, err := entityToModel(&entities[i])
		if err != nil {
			// Payload corrompido não derruba a listagem
			r.logger.WarnCtx(ctx, "falha ao converter entidade para modelo",
				zap.Uint("id", entities[i].ID),
				zap.Error(err))
			continue
		}
		results = append(results, scored)
	}

	return results, nil
}

// Count retorna o total de transações armazenadas
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TransactionEntity{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("falha ao contar transações: %w", err)
	}
	return count, nil
}

// jsonIDExpr retorna a expressão SQL que extrai transaction_id do payload,
// conforme o dialeto do banco
func (r *TransactionRepository) jsonIDExpr() string {
	switch r.db.Dialector.Name() {
	case "postgres":
		return "transaction_json::json->>'transaction_id'"
	case "mysql":
		return "JSON_UNQUOTE(JSON_EXTRACT(transaction_json, '$.transaction_id'))"
	default: // sqlite
		return "json_extract(transaction_json, '$.transaction_id')"
	}
}

// modelToEntity converte a transação e predições para a linha da tabela
func modelToEntity(txn *model.Transaction, p *model.PredictionSet) (*model.TransactionEntity, error) {
	payload, err := txn.JSON()
	if err != nil {
		return nil, fmt.Errorf("falha ao serializar payload da transação: %w", err)
	}

	return &model.TransactionEntity{
		TransactionJSON:            string(payload),
		LogisticRegressionFraud:    p.Logistic.Fraud,
		LogisticRegressionNonFraud: p.Logistic.NonFraud,
		KNeighborsFraud:            p.KNeighbors.Fraud,
		KNeighborsNonFraud:         p.KNeighbors.NonFraud,
		SVCFraud:                   p.SVC.Fraud,
		SVCNonFraud:                p.SVC.NonFraud,
		DecisionTreeFraud:          p.Tree.Fraud,
		DecisionTreeNonFraud:       p.Tree.NonFraud,
		KerasFraud:                 p.Keras.Fraud,
		KerasNonFraud:              p.Keras.NonFraud,
	}, nil
}

// entityToModel converte a linha da tabela de volta para o modelo de domínio
func entityToModel(entity *model.TransactionEntity) (*model.ScoredTransaction, error) {
	fields := map[string]interface{}{}
	if err := json.Unmarshal([]byte(entity.TransactionJSON), &fields); err != nil {
		return nil, fmt.Errorf("falha ao decodificar payload da transação: %w", err)
	}

	return &model.ScoredTransaction{
		Transaction: model.NewTransaction(fields),
		Predictions: &model.PredictionSet{
			Logistic:   model.ModelScore{Fraud: entity.LogisticRegressionFraud, NonFraud: entity.LogisticRegressionNonFraud},
			KNeighbors: model.ModelScore{Fraud: entity.KNeighborsFraud, NonFraud: entity.KNeighborsNonFraud},
			SVC:        model.ModelScore{Fraud: entity.SVCFraud, NonFraud: entity.SVCNonFraud},
			Tree:       model.ModelScore{Fraud: entity.DecisionTreeFraud, NonFraud: entity.DecisionTreeNonFraud},
			Keras:      model.ModelScore{Fraud: entity.KerasFraud, NonFraud: entity.KerasNonFraud},
		},
		CreatedAt: entity.CreatedAt,
	}, nil
}
