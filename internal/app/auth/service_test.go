package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/credifraud/fraud-api-go/internal/app/auth"
	"github.com/credifraud/fraud-api-go/internal/domain/model"
	"github.com/credifraud/fraud-api-go/internal/mocks"
	"github.com/credifraud/fraud-api-go/internal/testutils"
	"github.com/credifraud/fraud-api-go/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "um-segredo-de-teste-com-32-bytes!"

func TestAuthService_Login(t *testing.T) {
	logger := testutils.TestLogger(t)

	keyManager, err := security.NewKeyManager(testSecret, logger)
	require.NoError(t, err)

	admin := &model.User{ID: "u-1", Username: "admin", Role: "admin"}

	t.Run("valid credentials produce a token", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		mockRepo.On("GetUserByCredentials", mock.Anything, "admin", "s3cret").Return(admin, nil).Once()

		service := auth.NewAuthService(keyManager, mockRepo, time.Hour, logger)

		token, err := service.Login(ctx, "admin", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid credentials are rejected", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		mockRepo.On("GetUserByCredentials", mock.Anything, "admin", "wrong").
			Return(nil, errors.New("invalid credentials")).Once()

		service := auth.NewAuthService(keyManager, mockRepo, time.Hour, logger)

		_, err := service.Login(ctx, "admin", "wrong")
		require.Error(t, err)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	logger := testutils.TestLogger(t)

	keyManager, err := security.NewKeyManager(testSecret, logger)
	require.NoError(t, err)

	admin := &model.User{ID: "u-1", Username: "admin", Role: "admin"}

	t.Run("round trip", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		mockRepo := new(mocks.MockUserRepository)
		mockRepo.On("GetUserByCredentials", mock.Anything, "admin", "s3cret").Return(admin, nil).Once()
		mockRepo.On("GetUserByID", mock.Anything, "u-1").Return(admin, nil).Once()

		service := auth.NewAuthService(keyManager, mockRepo, time.Hour, logger)

		token, err := service.Login(ctx, "admin", "s3cret")
		require.NoError(t, err)

		user, err := service.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "admin", user.Role)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		service := auth.NewAuthService(keyManager, new(mocks.MockUserRepository), time.Hour, logger)

		_, err := service.ValidateToken(ctx, "not-a-token")
		require.Error(t, err)
	})

	t.Run("expired token fails", func(t *testing.T) {
		ctx, cancel := testutils.ContextWithTimeout(t)
		defer cancel()

		expired, err := keyManager.GenerateToken("u-1", "admin", -time.Minute)
		require.NoError(t, err)

		service := auth.NewAuthService(keyManager, new(mocks.MockUserRepository), time.Hour, logger)

		_, err = service.ValidateToken(ctx, expired)
		require.Error(t, err)
	})
}

func TestAuthService_IsAdmin(t *testing.T) {
	logger := testutils.TestLogger(t)

	keyManager, err := security.NewKeyManager(testSecret, logger)
	require.NoError(t, err)

	service := auth.NewAuthService(keyManager, new(mocks.MockUserRepository), time.Hour, logger)

	assert.True(t, service.IsAdmin(&model.User{Role: "admin"}))
	assert.False(t, service.IsAdmin(&model.User{Role: "user"}))
	assert.False(t, service.IsAdmin(nil))
}
