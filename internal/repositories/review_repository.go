package repositories

import (
	"masterhub_backend/internal/models"

	"gorm.io/gorm"
)

type RatingAggregate struct {
	Average float64
	Count   int64
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	ExistsForJobReviewer(db *gorm.DB, jobID, reviewerID string) (bool, error)
	ListByPro(db *gorm.DB, proID string, page Pagination) ([]models.Review, int64, error)
	RatingAggregate(db *gorm.DB, proID string) (RatingAggregate, error)
	Count(db *gorm.DB) (int64, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	return uniqueOr(db.Create(review).Error, ErrReviewExists)
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ExistsForJobReviewer(db *gorm.DB, jobID, reviewerID string) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).
		Where("job_id = ? AND reviewer_id = ?", jobID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepositoryImpl) ListByPro(db *gorm.DB, proID string, page Pagination) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("pro_id = ?", proID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := page.apply(query.Order("created_at DESC")).Find(&reviews).Error
	return reviews, total, err
}

// RatingAggregate считает среднее и количество по всем отзывам специалиста.
// Полный пересчет, а не инкремент: результат не зависит от порядка вставки.
func (r *ReviewRepositoryImpl) RatingAggregate(db *gorm.DB, proID string) (RatingAggregate, error) {
	var agg struct {
		Average float64
		Count   int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("pro_id = ?", proID).
		Scan(&agg).Error
	if err != nil {
		return RatingAggregate{}, err
	}
	return RatingAggregate{Average: agg.Average, Count: agg.Count}, nil
}

func (r *ReviewRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Review{}).Count(&count).Error
	return count, err
}
