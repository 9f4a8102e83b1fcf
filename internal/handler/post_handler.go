package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/middleware"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/internal/service"
	"github.com/christa-jose1/student-migration-portal/pkg/response"
)

// PostHandler exposes the community forum API.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterRoutes mounts the forum routes on the given group.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/posts", h.Create)
	rg.GET("/posts", h.List)
	rg.GET("/posts/:postId", h.Get)
	rg.PUT("/posts/:postId/like", h.ToggleLike)
	rg.POST("/posts/:postId/comments", h.AddComment)
	rg.PUT("/posts/:postId/comments/:commentId/report", h.ReportComment)
	rg.DELETE("/posts/:postId", h.Delete)
}

// RegisterAdminRoutes mounts the comment moderation routes.
func (h *PostHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/comments/reported", h.ListReportedComments)
	rg.DELETE("/comments/:commentId", h.DeleteComment)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Created(c, post)
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	post, _, err := h.posts.ToggleLike(c.Request.Context(), c.Param("postId"), middleware.GetUserID(c))
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req domain.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.posts.AddComment(c.Request.Context(), c.Param("postId"), middleware.GetUserID(c), req)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

func (h *PostHandler) ReportComment(c *gin.Context) {
	post, err := h.posts.ReportComment(c.Request.Context(), c.Param("postId"), c.Param("commentId"), middleware.GetUserID(c))
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, post)
}

func (h *PostHandler) ListReportedComments(c *gin.Context) {
	reported, err := h.posts.ListReportedComments(c.Request.Context())
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Success(c, reported)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	err := h.posts.DeleteComment(c.Request.Context(), c.Param("commentId"), middleware.GetUserID(c))
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Message(c, "comment deleted")
}

func (h *PostHandler) Delete(c *gin.Context) {
	err := h.posts.Delete(c.Request.Context(), c.Param("postId"), middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		writePostError(c, err)
		return
	}
	response.Message(c, "post deleted")
}

func writePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthor):
		response.Forbidden(c, err.Error())
	case errors.Is(err, repository.ErrPostNotFound),
		errors.Is(err, repository.ErrCommentNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, "something went wrong")
	}
}
