package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/middleware"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/internal/service"
	"github.com/christa-jose1/student-migration-portal/pkg/response"
)

// UserHandler exposes identity exchange, the chat directory, and
// profile updates.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterPublicRoutes mounts the unauthenticated identity routes.
func (h *UserHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.Signup)
	rg.POST("/auth/check-user", h.CheckUser)
}

// RegisterRoutes mounts the authenticated user routes.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.Directory)
	rg.GET("/users/me", h.Me)
	rg.POST("/users/me/apply-course", h.ApplyCourse)
	rg.PUT("/users/me/remove-course", h.RemoveCourse)
	rg.PUT("/users/me/remove-country", h.RemoveCountry)
	rg.PUT("/users/me/remove-university", h.RemoveUniversity)
	rg.PUT("/users/me/phone", h.UpdatePhone)
	rg.PUT("/users/me/education", h.UpdateEducation)
}

// RegisterAdminRoutes mounts the admin-only user routes.
func (h *UserHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/users/promote", h.Promote)
	rg.PUT("/users/demote", h.Demote)
	rg.DELETE("/users/:uid", h.DeleteByUID)
}

// Signup registers an externally authenticated identity and returns a
// session token.
func (h *UserHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, created, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		writeUserError(c, err)
		return
	}
	if created {
		response.Created(c, session)
		return
	}
	response.Success(c, session)
}

// CheckUser exchanges a provider id for a session on an existing record.
func (h *UserHandler) CheckUser(c *gin.Context) {
	var req domain.CheckUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.users.CheckUser(c.Request.Context(), req.UID)
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, session)
}

// Directory lists every user except the caller.
func (h *UserHandler) Directory(c *gin.Context) {
	entries, err := h.users.Directory(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, entries)
}

// Me returns the caller's own record.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, user)
}

// ApplyCourse records a course application on the caller's profile.
func (h *UserHandler) ApplyCourse(c *gin.Context) {
	var req domain.ApplyCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.profileUpdate(c, func() (*domain.User, error) {
		return h.users.ApplyCourse(c.Request.Context(), middleware.GetUserID(c), req)
	})
}

// RemoveCourse drops one course from the caller's profile.
func (h *UserHandler) RemoveCourse(c *gin.Context) {
	var req domain.RemoveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.profileUpdate(c, func() (*domain.User, error) {
		return h.users.RemoveCourse(c.Request.Context(), middleware.GetUserID(c), req.Course)
	})
}

// RemoveCountry drops one chosen country from the caller's profile.
func (h *UserHandler) RemoveCountry(c *gin.Context) {
	var req domain.RemoveCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.profileUpdate(c, func() (*domain.User, error) {
		return h.users.RemoveCountry(c.Request.Context(), middleware.GetUserID(c), req.Country)
	})
}

// RemoveUniversity drops one university from the caller's profile.
func (h *UserHandler) RemoveUniversity(c *gin.Context) {
	var req domain.RemoveUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.profileUpdate(c, func() (*domain.User, error) {
		return h.users.RemoveUniversity(c.Request.Context(), middleware.GetUserID(c), req.University)
	})
}

// UpdatePhone sets the caller's phone number.
func (h *UserHandler) UpdatePhone(c *gin.Context) {
	var req domain.UpdatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.profileUpdate(c, func() (*domain.User, error) {
		return h.users.UpdatePhone(c.Request.Context(), middleware.GetUserID(c), req.Phone)
	})
}

// UpdateEducation sets the caller's education summary.
func (h *UserHandler) UpdateEducation(c *gin.Context) {
	var req domain.UpdateEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.profileUpdate(c, func() (*domain.User, error) {
		return h.users.UpdateEducation(c.Request.Context(), middleware.GetUserID(c), req.Education)
	})
}

// Promote grants the admin role by email.
func (h *UserHandler) Promote(c *gin.Context) {
	h.roleChange(c, h.users.PromoteToAdmin)
}

// Demote revokes the admin role by email.
func (h *UserHandler) Demote(c *gin.Context) {
	h.roleChange(c, h.users.DemoteToUser)
}

// DeleteByUID removes the local record for a provider id.
func (h *UserHandler) DeleteByUID(c *gin.Context) {
	if err := h.users.DeleteByUID(c.Request.Context(), c.Param("uid")); err != nil {
		writeUserError(c, err)
		return
	}
	response.Message(c, "user deleted")
}

func (h *UserHandler) profileUpdate(c *gin.Context, fn func() (*domain.User, error)) {
	user, err := fn()
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) roleChange(c *gin.Context, fn func(context.Context, string) (*domain.User, error)) {
	var req domain.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := fn(c.Request.Context(), req.Email)
	if err != nil {
		writeUserError(c, err)
		return
	}
	response.Success(c, user)
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		response.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, "something went wrong")
	}
}
