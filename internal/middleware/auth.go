package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
	"github.com/christa-jose1/student-migration-portal/pkg/response"
)

// Context keys set by RequireAuth. pkg/log's request middleware reads
// user_id and username for its completion log line.
const (
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyEmail    = "email"
	KeyRole     = "role"
)

// RequireAuth validates the Bearer token and stores the caller's
// identity on the request context.
func RequireAuth(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyUsername, claims.Name)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin allows only callers holding the admin role. It must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller's local user id.
func GetUserID(c *gin.Context) string {
	return c.GetString(KeyUserID)
}

// GetUsername returns the authenticated caller's display name.
func GetUsername(c *gin.Context) string {
	return c.GetString(KeyUsername)
}

// GetRole returns the authenticated caller's role.
func GetRole(c *gin.Context) string {
	return c.GetString(KeyRole)
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == domain.RoleAdmin
}
