package routes

import (
	"masterhub_backend/internal/handlers"
	"masterhub_backend/internal/logger"
	"masterhub_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guards handlers.Guards,
	wsHandler *ws.WebSocketHandler,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Check)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.ProfileHandler.RegisterRoutes(api, guards)
		appHandlers.CategoryHandler.RegisterRoutes(api, guards)
		appHandlers.JobHandler.RegisterRoutes(api, guards)
		appHandlers.ProposalHandler.RegisterRoutes(api, guards)
		appHandlers.ChatHandler.RegisterRoutes(api, guards)
		appHandlers.ReviewHandler.RegisterRoutes(api, guards)
		appHandlers.NotificationHandler.RegisterRoutes(api, guards)
		appHandlers.AdminHandler.RegisterRoutes(api, guards)
	}

	// Регистрация WebSocket; браузер не может поставить заголовок, токен в ?access_token=
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(guards.Authed()...)
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
