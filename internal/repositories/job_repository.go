package repositories

import (
	"strings"
	"time"

	"masterhub_backend/internal/models"

	"gorm.io/gorm"
)

type JobFilter struct {
	Status     models.JobStatus
	CategoryID string
	City       string
	ClientID   string
	Query      string
	MinBudget  *float64
	MaxBudget  *float64
	// HideExpired скрывает открытые заказы с истекшим expires_at
	HideExpired bool
	Now         time.Time
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	List(db *gorm.DB, filter JobFilter, page Pagination) ([]models.Job, int64, error)
	Update(db *gorm.DB, id string, updates map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
	TransitionStatus(db *gorm.DB, id string, from, to models.JobStatus) (bool, error)
	IncrementProposals(db *gorm.DB, id string) error
	DecrementProposals(db *gorm.DB, id string) error
	IncrementViews(db *gorm.DB, id string) error
	CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) List(db *gorm.DB, filter JobFilter, page Pagination) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	if filter.ClientID != "" {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.MinBudget != nil {
		query = query.Where("budget >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		query = query.Where("budget <= ?", *filter.MaxBudget)
	}
	if filter.HideExpired {
		now := filter.Now
		if now.IsZero() {
			now = time.Now()
		}
		query = query.Where("expires_at IS NULL OR expires_at > ?", now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := page.apply(query.Order("created_at DESC")).Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := db.Model(&models.Job{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, id string) error {
	res := db.Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// TransitionStatus меняет статус только если текущий равен from.
// false без ошибки означает, что заказ уже в другом статусе (проиграли гонку).
func (r *JobRepositoryImpl) TransitionStatus(db *gorm.DB, id string, from, to models.JobStatus) (bool, error) {
	res := db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *JobRepositoryImpl) IncrementProposals(db *gorm.DB, id string) error {
	return db.Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("proposals_count", gorm.Expr("proposals_count + 1")).Error
}

func (r *JobRepositoryImpl) DecrementProposals(db *gorm.DB, id string) error {
	return db.Model(&models.Job{}).
		Where("id = ? AND proposals_count > 0", id).
		UpdateColumn("proposals_count", gorm.Expr("proposals_count - 1")).Error
}

func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, id string) error {
	return db.Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *JobRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	err := db.Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
