package http

import (
	"net/http"

	"github.com/credifraud/fraud-api-go/internal/app/auth"
	apperrors "github.com/credifraud/fraud-api-go/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler expõe o endpoint de autenticação
type AuthHandler struct {
	authService *auth.AuthService
	logger      *zap.Logger
}

// NewAuthHandler cria um novo handler de autenticação
func NewAuthHandler(authService *auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login autentica um usuário e retorna um token JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.BadRequest("Dados inválidos", err).WithDetails(err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Falha de autenticação", zap.String("username", req.Username))
		respondError(c, apperrors.Unauthorized("Credenciais inválidas", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
