package repositories

import (
	"errors"

	"masterhub_backend/internal/database"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategorySlugTaken    = errors.New("category slug already exists")
	ErrJobNotFound          = errors.New("job not found")
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrProposalExists       = errors.New("proposal already exists for this job")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrReviewExists         = errors.New("review already exists for this job")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrReviewNotFound       = errors.New("review not found")
)

// Pagination - параметры страницы (page с 1)
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

func (p Pagination) apply(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Limit())
}

// notFound переводит gorm.ErrRecordNotFound в доменный sentinel
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// uniqueOr переводит нарушение уникальности в доменный sentinel
func uniqueOr(err, sentinel error) error {
	if database.IsUniqueViolation(err) {
		return sentinel
	}
	return err
}
