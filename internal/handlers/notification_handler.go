package handlers

import (
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	notifications := r.Group("/notifications", g.Authed()...)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read-all", h.MarkAllAsRead)
		notifications.POST("/:id/read", h.MarkAsRead)
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.NotificationListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	list, err := h.notificationService.ListNotifications(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, list)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), h.GetDB(c), viewer)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, count)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), h.GetDB(c), viewer, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"read": true})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllAsRead(c.Request.Context(), h.GetDB(c), viewer)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, count)
}
