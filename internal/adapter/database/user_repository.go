package database

import (
	"context"
	"errors"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/domain/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository implementa repository.UserRepository
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetUserByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	var user model.UserEntity

	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, result.Error
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("senha inválida")
	}

	return &model.User{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.UserEntity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}

	return &model.User{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// CreateUser cria um operador com senha protegida por bcrypt
func (r *UserRepository) CreateUser(ctx context.Context, username, password, role string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	entity := model.UserEntity{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hash),
		Role:     role,
	}

	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, err
	}

	return &model.User{
		ID:       entity.ID,
		Username: entity.Username,
		Role:     entity.Role,
	}, nil
}
