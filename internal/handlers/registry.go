package handlers

import "github.com/gin-gonic/gin"

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	ProfileHandler      *ProfileHandler
	CategoryHandler     *CategoryHandler
	JobHandler          *JobHandler
	ProposalHandler     *ProposalHandler
	ChatHandler         *ChatHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
	AdminHandler        *AdminHandler
	HealthHandler       *HealthHandler
}

// Guards - собранные middleware, которые хэндлеры вешают на свои маршруты
type Guards struct {
	// Authenticate проверяет токен провайдера (профиль может отсутствовать)
	Authenticate gin.HandlerFunc
	// RequireProfile требует существующий профиль; ставится после Authenticate
	RequireProfile gin.HandlerFunc
	// OptionalProfile для публичных маршрутов
	OptionalProfile gin.HandlerFunc

	ProfileBootstrapLimit gin.HandlerFunc
	JobCreateLimit        gin.HandlerFunc
	MessageSendLimit      gin.HandlerFunc
}

// Authed - цепочка для маршрутов, которым нужен профиль
func (g Guards) Authed() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Authenticate, g.RequireProfile}
}
