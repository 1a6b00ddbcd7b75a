package services

import (
	"context"
	"errors"

	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.NotificationListRequest) (*dto.PaginatedResponse, error)
	UnreadCount(ctx context.Context, db *gorm.DB, viewer dto.Viewer) (*dto.CountResponse, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, viewer dto.Viewer, notificationID string) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, viewer dto.Viewer) (*dto.CountResponse, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.NotificationListRequest) (*dto.PaginatedResponse, error) {
	pagination, page, size := pageOf(req.PaginationRequest)
	items, total, err := s.notificationRepo.ListByUser(db, viewer.ProfileID, req.UnreadOnly, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, toNotificationResponse(&items[i]))
	}
	return dto.NewPaginatedResponse(out, total, page, size), nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, db *gorm.DB, viewer dto.Viewer) (*dto.CountResponse, error) {
	count, err := s.notificationRepo.CountUnread(db, viewer.ProfileID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.CountResponse{Count: count}, nil
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, db *gorm.DB, viewer dto.Viewer, notificationID string) error {
	if err := s.notificationRepo.MarkRead(db, notificationID, viewer.ProfileID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// MarkAllAsRead возвращает число помеченных уведомлений
func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, db *gorm.DB, viewer dto.Viewer) (*dto.CountResponse, error) {
	count, err := s.notificationRepo.MarkAllRead(db, viewer.ProfileID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.CountResponse{Count: count}, nil
}
