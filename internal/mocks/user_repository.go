package mocks

import (
	"context"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository é um mock para o repositório de operadores
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, username, password, role string) (*model.User, error) {
	args := m.Called(ctx, username, password, role)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.User), args.Error(1)
}
