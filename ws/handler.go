package ws

import (
	"net/http"
	"strings"

	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Manager  *WebSocketManager
	upgrader websocket.Upgrader
}

// NewWebSocketHandler; пустой allowedOrigins пропускает любой origin
func NewWebSocketHandler(manager *WebSocketManager, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &WebSocketHandler{
		Manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// ServeWS ожидает, что Authenticate и RequireProfile уже отработали
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "websocket upgrade failed", "error", err.Error())
		return
	}

	client := &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan notifications.Event, 64),
		Manager: h.Manager,
	}

	select {
	case h.Manager.register <- client:
	case <-h.Manager.done:
		conn.Close()
		return
	}
	logger.CtxInfo(c.Request.Context(), "websocket client connected")

	go client.writePump()
	go client.readPump()
}
