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

// ChatHandler exposes the two-party conversation API.
type ChatHandler struct {
	chats *service.ChatService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// RegisterRoutes mounts the chat routes on the given group.
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chats", h.Create)
	rg.GET("/chats/user/:userId", h.ListForUser)
	rg.GET("/chats/:chatId", h.Get)
	rg.PUT("/chats/:chatId/message", h.AppendMessage)
	rg.PUT("/chats/:chatId/read", h.MarkRead)
	rg.DELETE("/chats/:chatId", h.Delete)
}

// Create starts a chat, or returns the existing one for the pair.
func (h *ChatHandler) Create(c *gin.Context) {
	var req domain.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, created, err := h.chats.CreateOrGet(c.Request.Context(), req)
	if err != nil {
		writeChatError(c, err)
		return
	}
	if created {
		response.Created(c, view)
		return
	}
	response.Success(c, view)
}

// ListForUser returns a user's conversations, most recent first.
func (h *ChatHandler) ListForUser(c *gin.Context) {
	views, err := h.chats.ListForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Success(c, views)
}

// Get returns one conversation.
func (h *ChatHandler) Get(c *gin.Context) {
	view, err := h.chats.Get(c.Request.Context(), c.Param("chatId"), middleware.GetUserID(c))
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Success(c, view)
}

// AppendMessage adds a message to a conversation.
func (h *ChatHandler) AppendMessage(c *gin.Context) {
	var req domain.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.chats.AppendMessage(c.Request.Context(), c.Param("chatId"), req)
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Success(c, view)
}

// MarkRead marks the counterpart's messages as read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	var req domain.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.chats.MarkRead(c.Request.Context(), c.Param("chatId"), req.ReaderID)
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Success(c, view)
}

// Delete removes a conversation permanently.
func (h *ChatHandler) Delete(c *gin.Context) {
	err := h.chats.Delete(c.Request.Context(), c.Param("chatId"), middleware.GetUserID(c))
	if err != nil {
		writeChatError(c, err)
		return
	}
	response.Message(c, "chat deleted")
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidParticipants), errors.Is(err, service.ErrEmptyContent):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotParticipant):
		response.Forbidden(c, err.Error())
	case errors.Is(err, repository.ErrChatNotFound), errors.Is(err, repository.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, "something went wrong")
	}
}
