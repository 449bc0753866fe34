package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey   = "userID"
	ContextEmailKey    = "email"
	ContextVerifiedKey = "emailVerified"
	ContextRolesKey    = "roles"
)

// AuthMiddleware проверяет JWT access токен.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		claims, err := tokens.ParseAccess(raw)
		if err != nil || claims.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextVerifiedKey, claims.Verified)
		c.Set(ContextRolesKey, claims.Roles)
		c.Next()
	}
}

// RequireVerifiedEmail пускает дальше только пользователей с подтверждённым email.
// Вешается после AuthMiddleware.
func RequireVerifiedEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		verified, ok := c.Get(ContextVerifiedKey)
		if !ok || verified != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "email verification required"})
			return
		}
		c.Next()
	}
}
