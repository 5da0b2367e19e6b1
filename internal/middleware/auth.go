package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fleetledger/internal/auth"
	"fleetledger/internal/config"
	"fleetledger/internal/domain"
	"fleetledger/internal/httpapi"
)

// Authenticate validates the bearer JWT and sets UserID/Email/Roles on the
// context directly from its claims — unlike the teacher's IsAuthenticated,
// it never re-queries the database per request, since roles travel with the
// token.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httpapi.RespondError(c, domain.NewError(domain.CodeUnauthenticated, "missing Authorization header"))
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			httpapi.RespondError(c, domain.NewError(domain.CodeUnauthenticated, "expected Authorization: Bearer <token>"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			httpapi.RespondError(c, domain.NewError(domain.CodeUnauthenticated, "invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("UserID", claims.UserID)
		c.Set("Email", claims.Email)
		c.Set("Roles", claims.Roles)
		c.Next()
	}
}

// RequireRoles aborts with FORBIDDEN unless the authenticated principal
// carries at least one of the given roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get("Roles")
		if !ok {
			httpapi.RespondError(c, domain.NewError(domain.CodeUnauthenticated, "no authenticated principal"))
			c.Abort()
			return
		}
		held, _ := val.([]string)
		if !hasAny(held, roles) {
			httpapi.RespondError(c, domain.NewError(domain.CodeForbidden, "insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasAny(held []string, want []string) bool {
	set := make(map[string]struct{}, len(held))
	for _, r := range held {
		set[r] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// RequireAdminSecret validates the x-admin-secret header for break-glass
// administrative endpoints, mirroring the teacher's IsAdmin guard.
func RequireAdminSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := config.Envs.AdminSecret
		if secret == "" {
			httpapi.RespondError(c, domain.NewError(domain.CodeInternalError, "admin access not configured"))
			c.Abort()
			return
		}
		header := c.GetHeader("x-admin-secret")
		if header == "" || header != secret {
			httpapi.RespondError(c, domain.NewError(domain.CodeForbidden, "invalid admin credentials"))
			c.Abort()
			return
		}
		c.Next()
	}
}
