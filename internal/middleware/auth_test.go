package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.NewManager("test-secret", time.Hour, "migration-portal")
	r := gin.New()
	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "name": GetUsername(c)})
	})
	r.GET("/admin", RequireAuth(tokens), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, tokens
}

func Test_Require_Auth_Accepts_Valid_Bearer_Token(t *testing.T) {
	req := require.New(t)
	r, tokens := newAuthRouter(t)

	token, _, err := tokens.Generate("alice", "a@example.com", "Alice", domain.RoleUser)
	req.NoError(err)

	w := httptest.NewRecorder()
	hr := httptest.NewRequest(http.MethodGet, "/me", nil)
	hr.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, hr)

	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Body.String(), "alice")
}

func Test_Require_Auth_Rejects_Missing_Or_Malformed_Header(t *testing.T) {
	req := require.New(t)
	r, _ := newAuthRouter(t)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-token"} {
		w := httptest.NewRecorder()
		hr := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			hr.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, hr)
		req.Equal(http.StatusUnauthorized, w.Code)
	}
}

func Test_Require_Admin_Checks_Role(t *testing.T) {
	req := require.New(t)
	r, tokens := newAuthRouter(t)

	userToken, _, err := tokens.Generate("alice", "a@example.com", "Alice", domain.RoleUser)
	req.NoError(err)
	adminToken, _, err := tokens.Generate("root", "root@example.com", "Root", domain.RoleAdmin)
	req.NoError(err)

	w := httptest.NewRecorder()
	hr := httptest.NewRequest(http.MethodGet, "/admin", nil)
	hr.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, hr)
	req.Equal(http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	hr = httptest.NewRequest(http.MethodGet, "/admin", nil)
	hr.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, hr)
	req.Equal(http.StatusNoContent, w.Code)
}
