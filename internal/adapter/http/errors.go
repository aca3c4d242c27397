package http

import (
	apperrors "github.com/credifraud/fraud-api-go/pkg/errors"
	"github.com/gin-gonic/gin"
)

// respondError escreve um APIError como resposta JSON com o status adequado
func respondError(c *gin.Context, err *apperrors.APIError) {
	body := gin.H{"error": err.Message}
	if err.Details != nil {
		body["details"] = err.Details
	}
	c.JSON(err.Code, body)
}
