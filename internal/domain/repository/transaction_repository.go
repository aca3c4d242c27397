package repository

import (
	"context"
	"errors"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
)

// TransactionRepository define a interface para armazenamento de transações
type TransactionRepository interface {
	// Store grava uma transação e suas predições
	Store(ctx context.Context, txn *model.Transaction, predictions *model.PredictionSet) error

	// GetByTransactionID obtém a transação mais recente com o ID informado
	GetByTransactionID(ctx context.Context, transactionID string) (*model.ScoredTransaction, error)

	// Recent retorna as transações analisadas mais recentes
	Recent(ctx context.Context, limit int) ([]*model.ScoredTransaction, error)

	// Count retorna o total de transações armazenadas
	Count(ctx context.Context) (int64, error)
}

// UserRepository define a interface para acesso a operadores
type UserRepository interface {
	// GetUserByCredentials autentica um operador por usuário e senha
	GetUserByCredentials(ctx context.Context, username, password string) (*model.User, error)

	// GetUserByID obtém um operador pelo ID
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// CreateUser cria um operador com a senha já protegida
	CreateUser(ctx context.Context, username, password, role string) (*model.User, error)
}
