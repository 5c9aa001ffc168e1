package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kei-test/mega/internal/domain/audit"
	"github.com/kei-test/mega/internal/domain/auth"
	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/domain/member/repository"
)

const principalKey = "principal"

// Principal returns the authenticated account stored by AuthMiddleware.
func Principal(c *gin.Context) *aggregate.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	user, _ := v.(*aggregate.User)
	return user
}

// AuthMiddleware verifies the bearer token and loads the account behind it.
func AuthMiddleware(tokens *auth.TokenIssuer, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			RespondError(c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil || user.DeletedAt.Valid {
			RespondError(c, http.StatusUnauthorized, "unknown account", nil)
			c.Abort()
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// AdminMiddleware rejects principals without an elevated role.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Principal(c)
		if user == nil || !user.Role.Elevated() {
			RespondError(c, http.StatusForbidden, "admin privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuditContextMiddleware seeds a fresh audit context from the principal so
// mutating handlers can record who did what.
func AuditContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Principal(c)
		if user != nil {
			ac := audit.NewContext(user.Username, user.ID, c.ClientIP())
			c.Request = c.Request.WithContext(audit.WithContext(c.Request.Context(), ac))
		}
		c.Next()
	}
}
