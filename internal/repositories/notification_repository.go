package repositories

import (
	"time"

	"masterhub_backend/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	ListByUser(db *gorm.DB, userID string, unreadOnly bool, page Pagination) ([]models.Notification, int64, error)
	CountUnread(db *gorm.DB, userID string) (int64, error)
	MarkRead(db *gorm.DB, id, userID string) error
	MarkAllRead(db *gorm.DB, userID string) (int64, error)
	DeleteReadBefore(db *gorm.DB, before time.Time) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := db.First(&notification, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrNotificationNotFound)
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) ListByUser(db *gorm.DB, userID string, unreadOnly bool, page Pagination) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := page.apply(query.Order("created_at DESC")).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) CountUnread(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead помечает уведомление прочитанным. Чужое уведомление неотличимо от отсутствующего.
func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, id, userID string) error {
	var notification models.Notification
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error
	if err != nil {
		return notFound(err, ErrNotificationNotFound)
	}
	if notification.IsRead {
		return nil
	}
	now := time.Now()
	return db.Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
}

func (r *NotificationRepositoryImpl) MarkAllRead(db *gorm.DB, userID string) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// DeleteReadBefore удаляет прочитанные уведомления старше before; непрочитанные не трогаем
func (r *NotificationRepositoryImpl) DeleteReadBefore(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Where("is_read = ? AND created_at < ?", true, before).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
