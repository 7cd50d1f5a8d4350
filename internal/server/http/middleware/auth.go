package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/habittracker/internal/pkg/auth"
	"github.com/polkiloo/habittracker/internal/server/http/dto"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// MsgInvalidToken is returned for every authentication failure.
	MsgInvalidToken = "Missing or invalid token"
	// MsgInternal hides unexpected failures from clients.
	MsgInternal = "Internal server error"

	bearerPrefix = "bearer "
)

// TokenParser resolves a bearer token into the owning user id.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (int64, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.MessageResponse{Message: MsgInvalidToken})
			return
		}

		userID, err := parser.ParseToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.MessageResponse{Message: MsgInvalidToken})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.MessageResponse{Message: MsgInternal})
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return ""
}

// SetAuthHeader echoes the issued token in the Authorization response header.
func SetAuthHeader(c *gin.Context, token string) {
	c.Header("Authorization", "Bearer "+token)
}
