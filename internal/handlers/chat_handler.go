package handlers

import (
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	conversations := r.Group("/conversations", g.Authed()...)
	{
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id/messages", h.ListMessages)
		conversations.POST("/:id/messages", g.MessageSendLimit, h.SendMessage)
	}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.PaginationRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	conversations, err := h.chatService.ListConversations(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, conversations)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	conversationID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.PaginationRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), h.GetDB(c), viewer, conversationID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, messages)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	conversationID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), h.GetDB(c), viewer, conversationID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, message)
}
