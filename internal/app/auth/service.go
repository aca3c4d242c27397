package auth

import (
	"context"
	"errors"
	"time"

	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/domain/repository"
	"github.com/credifraud/fraud-api-go/pkg/security"
	"go.uber.org/zap"
)

// AuthService gerencia operações de autenticação
type AuthService struct {
	keyManager *security.KeyManager
	userRepo   repository.UserRepository
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewAuthService cria um novo serviço de autenticação
func NewAuthService(keyManager *security.KeyManager, userRepo repository.UserRepository, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		keyManager: keyManager,
		userRepo:   userRepo,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Login autentica um operador e gera um token JWT
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetUserByCredentials(ctx, username, password)
	if err != nil {
		s.logger.Warn("Falha na autenticação", zap.String("username", username), zap.Error(err))
		return "", errors.New("credenciais inválidas")
	}

	token, err := s.keyManager.GenerateToken(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		s.logger.Error("Falha ao gerar token", zap.String("user_id", user.ID), zap.Error(err))
		return "", err
	}

	s.logger.Info("Login bem-sucedido", zap.String("user_id", user.ID))
	return token, nil
}

// ValidateToken valida um token JWT e retorna o operador correspondente
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.keyManager.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("Usuário do token não encontrado", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, errors.New("usuário inválido")
	}

	return user, nil
}

// IsAdmin verifica se um operador tem permissão administrativa
func (s *AuthService) IsAdmin(user *model.User) bool {
	return user != nil && user.Role == "admin"
}
