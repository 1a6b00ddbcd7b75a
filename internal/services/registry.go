package services

import (
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/translation"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	ProfileService      ProfileService
	CategoryService     CategoryService
	JobService          JobService
	ProposalService     ProposalService
	ReviewService       ReviewService
	ChatService         ChatService
	NotificationService NotificationService
	AdminService        AdminService

	Translator *translation.Service
	Dispatcher *notifications.Dispatcher
}
