package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/utils"
)

// RequireRole admits only the listed roles and must run after JWTAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.TrimSpace(c.GetString("role"))
		for _, r := range roles {
			if strings.EqualFold(role, string(r)) {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, utils.CodeForbidden, "forbidden")
	}
}

// RequireAdmin guards question bank writes.
func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }
