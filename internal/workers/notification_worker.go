package workers

import (
	"context"
	"time"

	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/repositories"

	"gorm.io/gorm"
)

// NotificationCleanupWorker периодически удаляет старые прочитанные уведомления
type NotificationCleanupWorker struct {
	db        *gorm.DB
	repo      repositories.NotificationRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

func NewNotificationCleanupWorker(db *gorm.DB, repo repositories.NotificationRepository, retention, interval time.Duration) *NotificationCleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &NotificationCleanupWorker{
		db:        db,
		repo:      repo,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Start запускает фоновую очистку; retention <= 0 отключает ее
func (w *NotificationCleanupWorker) Start(ctx context.Context) {
	if w.retention <= 0 {
		logger.Info("Notification cleanup disabled")
		return
	}
	go w.loop(ctx)
}

func (w *NotificationCleanupWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification cleanup worker stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				logger.Error("Error cleaning up notifications", "error", err)
			}
		}
	}
}

// RunOnce - один проход очистки, возвращает число удаленных записей
func (w *NotificationCleanupWorker) RunOnce(ctx context.Context) (int64, error) {
	before := w.now().Add(-w.retention)
	deleted, err := w.repo.DeleteReadBefore(w.db.WithContext(ctx), before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logger.Info("Deleted old read notifications", "count", deleted, "before", before)
	}
	return deleted, nil
}
