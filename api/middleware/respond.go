package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/use-agent/recipy/models"
)

// apiKeyCtx is the gin context key under which Auth stores the caller's key.
const apiKeyCtx = "api_key"

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ExtractResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}
