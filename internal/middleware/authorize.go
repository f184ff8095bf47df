package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomtrack/api/internal/models"
)

// RequireRoles rejects the request with 403 unless the user resolved
// by Auth carries one of the given roles. Routes without a RequireRoles
// entry accept any authenticated user.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no_token"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
