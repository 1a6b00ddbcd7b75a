package services

import (
	"context"
	"errors"

	"masterhub_backend/internal/database"
	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageOf(req dto.PaginationRequest) (repositories.Pagination, int, int) {
	page, size := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return repositories.Pagination{Page: page, PageSize: size}, page, size
}

// runTx выполняет атомарный блок. AppError изнутри блока возвращается как есть
// (это нарушенное предусловие), любая другая ошибка становится TransactionFailed.
func runTx(ctx context.Context, db *gorm.DB, domain string, fn database.TxFunc) error {
	err := database.WithTransaction(ctx, db, fn)
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	logger.CtxWithError(ctx, "transaction rolled back", err, "domain", domain)
	return apperrors.TransactionFailed(domain, err)
}

// insertNotification сохраняет черновик уведомления в текущей транзакции
func insertNotification(tx *gorm.DB, repo repositories.NotificationRepository, draft notifications.Draft) (*models.Notification, error) {
	n, err := draft.Model()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(tx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// loadJob переводит отсутствие заказа в 404
func loadJob(db *gorm.DB, repo repositories.JobRepository, id string) (*models.Job, error) {
	job, err := repo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func loadProfile(db *gorm.DB, repo repositories.ProfileRepository, id string) (*models.Profile, error) {
	profile, err := repo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}
