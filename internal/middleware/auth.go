package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/models"
	"roomtrack/api/internal/repository"
	"roomtrack/api/internal/security"
)

const currentUserKey = "current_user"

// UserFinder re-resolves the canonical account for a token's identity
// claim, so a deleted account loses access immediately even while its
// token is still valid.
type UserFinder interface {
	FindByRegisterNumber(ctx context.Context, registerNumber int64) (models.User, error)
}

// Auth is the gate in front of every protected route: header -> bearer
// token -> signature/expiry check -> canonical user re-fetch. The
// resolved user is attached to the request context for handlers; auth
// failures are terminal for the request.
func Auth(cfg *config.AppConfig, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no_token"})
			return
		}

		tokenStr := extractToken(authHeader)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_header"})
			return
		}

		claims, err := security.ParseToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, security.ErrTokenExpired) {
				code = "token_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		user, err := users.FindByRegisterNumber(c.Request.Context(), claims.RegisterNumber)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// extractToken accepts both "Bearer <token>" and a bare token.
func extractToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(header)
}

// CurrentUser returns the account the gate resolved for this request.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
