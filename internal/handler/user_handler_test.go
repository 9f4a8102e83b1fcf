package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/internal/service"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
)

// signupUserRepo extends stubUserRepo with just enough state to
// exercise registration: uid lookups and the unique-email constraint.
type signupUserRepo struct {
	stubUserRepo
	seq     int
	byUID   map[string]domain.User
	byEmail map[string]bool
}

func newSignupUserRepo() *signupUserRepo {
	return &signupUserRepo{
		byUID:   make(map[string]domain.User),
		byEmail: make(map[string]bool),
	}
}

func (r *signupUserRepo) Create(_ context.Context, user *domain.User) error {
	email := strings.ToLower(user.Email)
	if _, taken := r.byUID[user.UID]; taken || r.byEmail[email] {
		return repository.ErrDuplicate
	}
	r.seq++
	user.ID = fmt.Sprintf("u-%d", r.seq)
	r.byUID[user.UID] = *user
	r.byEmail[email] = true
	return nil
}

func (r *signupUserRepo) FindByUID(_ context.Context, uid string) (*domain.User, error) {
	u, ok := r.byUID[uid]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func newSignupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.NewManager("test-secret", time.Hour, "migration-portal")
	svc := service.NewUserService(newSignupUserRepo(), tokens, nil)

	r := gin.New()
	api := r.Group("/api")
	NewUserHandler(svc).RegisterPublicRoutes(api)
	return r
}

func Test_Signup_Duplicate_Email_Returns_400(t *testing.T) {
	req := require.New(t)
	r := newSignupRouter(t)

	w := doJSON(t, r, "", http.MethodPost, "/api/auth/signup", domain.SignupRequest{
		UID: "fb-a", FullName: "Alice", Email: "alice@example.com",
	})
	req.Equal(http.StatusCreated, w.Code)

	w = doJSON(t, r, "", http.MethodPost, "/api/auth/signup", domain.SignupRequest{
		UID: "fb-b", FullName: "Alice Again", Email: "Alice@Example.com",
	})
	req.Equal(http.StatusBadRequest, w.Code)

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	req.False(envelope.Success)
	req.Equal("BAD_REQUEST", envelope.Error.Code)
}

func Test_Signup_Existing_UID_Logs_In(t *testing.T) {
	req := require.New(t)
	r := newSignupRouter(t)

	w := doJSON(t, r, "", http.MethodPost, "/api/auth/signup", domain.SignupRequest{
		UID: "fb-a", FullName: "Alice", Email: "alice@example.com",
	})
	req.Equal(http.StatusCreated, w.Code)

	w = doJSON(t, r, "", http.MethodPost, "/api/auth/signup", domain.SignupRequest{
		UID: "fb-a", FullName: "Alice", Email: "alice@example.com",
	})
	req.Equal(http.StatusOK, w.Code)
}
