package handlers

import (
	"context"
	"net/http"
	"strings"

	"irrigation_panel/internal/models"
	"irrigation_panel/internal/service"

	"github.com/gin-gonic/gin"
)

// ctxOperator is the gin context key holding the authenticated models.Operator.
const ctxOperator = "operator"

// operatorMiddleware guards /api/v1 with a bearer JWT and records who is calling.
func (h *Handler) operatorMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	op, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxOperator, op)
	c.Next()
}

func operatorFrom(c *gin.Context) (models.Operator, bool) {
	v, ok := c.Get(ctxOperator)
	if !ok {
		return models.Operator{}, false
	}
	op, ok := v.(models.Operator)
	return op, ok
}

// actionContext is the request context tagged with the calling operator, so
// the events an action records name who triggered it.
func actionContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if op, ok := operatorFrom(c); ok {
		return service.WithOperator(ctx, op)
	}
	return ctx
}
