package repositories

import (
	"masterhub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileFilter struct {
	Role       models.UserRole
	CategoryID string
	City       string
	MinRating  float64
}

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	FindByExternalID(db *gorm.DB, externalID string) (*models.Profile, error)
	FindLegacyByEmail(db *gorm.DB, email string) (*models.Profile, error)
	LinkExternalID(db *gorm.DB, profileID, externalID string) error
	Update(db *gorm.DB, profileID string, updates map[string]interface{}) error
	UpdateRole(db *gorm.DB, profileID string, role models.UserRole) error
	List(db *gorm.DB, filter ProfileFilter, page Pagination) ([]models.Profile, int64, error)
	CountByRole(db *gorm.DB) (map[models.UserRole]int64, error)

	// Pro profile
	FindProProfile(db *gorm.DB, profileID string) (*models.ProProfile, error)
	UpsertProProfile(db *gorm.DB, pro *models.ProProfile) error
	UpdateProProfile(db *gorm.DB, profileID string, updates map[string]interface{}) error
	ListPros(db *gorm.DB, filter ProfileFilter, page Pagination) ([]models.Profile, int64, error)
	IncrementCompletedJobs(db *gorm.DB, profileID string) error
	UpdateRating(db *gorm.DB, profileID string, rating float64, reviewsCount int64) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	return uniqueOr(db.Create(profile).Error, ErrProfileAlreadyExists)
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("Pro").First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByExternalID(db *gorm.DB, externalID string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("Pro").Where("external_id = ?", externalID).First(&profile).Error
	if err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

// FindLegacyByEmail ищет профиль без external_id (созданный до внешнего провайдера)
func (r *ProfileRepositoryImpl) FindLegacyByEmail(db *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("Pro").
		Where("LOWER(email) = LOWER(?) AND external_id IS NULL", email).
		First(&profile).Error
	if err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) LinkExternalID(db *gorm.DB, profileID, externalID string) error {
	res := db.Model(&models.Profile{}).
		Where("id = ? AND external_id IS NULL", profileID).
		Update("external_id", externalID)
	if res.Error != nil {
		return uniqueOr(res.Error, ErrProfileAlreadyExists)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profileID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := db.Model(&models.Profile{}).Where("id = ?", profileID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdateRole(db *gorm.DB, profileID string, role models.UserRole) error {
	return r.Update(db, profileID, map[string]interface{}{"role": role})
}

func (r *ProfileRepositoryImpl) List(db *gorm.DB, filter ProfileFilter, page Pagination) ([]models.Profile, int64, error) {
	query := db.Model(&models.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", filter.City)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := page.apply(query.Preload("Pro").Order("created_at DESC")).Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepositoryImpl) CountByRole(db *gorm.DB) (map[models.UserRole]int64, error) {
	var rows []struct {
		Role  models.UserRole
		Count int64
	}
	err := db.Model(&models.Profile{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.UserRole]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

func (r *ProfileRepositoryImpl) FindProProfile(db *gorm.DB, profileID string) (*models.ProProfile, error) {
	var pro models.ProProfile
	err := db.Where("profile_id = ?", profileID).First(&pro).Error
	if err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &pro, nil
}

// UpsertProProfile создает запись специалиста, повторный вызов ничего не меняет
func (r *ProfileRepositoryImpl) UpsertProProfile(db *gorm.DB, pro *models.ProProfile) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoNothing: true,
	}).Create(pro).Error
}

func (r *ProfileRepositoryImpl) UpdateProProfile(db *gorm.DB, profileID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := db.Model(&models.ProProfile{}).Where("profile_id = ?", profileID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) ListPros(db *gorm.DB, filter ProfileFilter, page Pagination) ([]models.Profile, int64, error) {
	query := db.Model(&models.Profile{}).
		Joins("JOIN pro_profiles ON pro_profiles.profile_id = profiles.id").
		Where("profiles.role = ?", models.UserRolePro)
	if filter.CategoryID != "" {
		query = query.Where("pro_profiles.category_id = ?", filter.CategoryID)
	}
	if filter.City != "" {
		query = query.Where("LOWER(profiles.city) = LOWER(?)", filter.City)
	}
	if filter.MinRating > 0 {
		query = query.Where("pro_profiles.rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := page.apply(query.Preload("Pro").
		Order("pro_profiles.rating DESC").
		Order("pro_profiles.reviews_count DESC")).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepositoryImpl) IncrementCompletedJobs(db *gorm.DB, profileID string) error {
	res := db.Model(&models.ProProfile{}).
		Where("profile_id = ?", profileID).
		UpdateColumn("completed_jobs", gorm.Expr("completed_jobs + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// UpdateRating записывает пересчитанный агрегат (среднее по всем отзывам и их число)
func (r *ProfileRepositoryImpl) UpdateRating(db *gorm.DB, profileID string, rating float64, reviewsCount int64) error {
	res := db.Model(&models.ProProfile{}).
		Where("profile_id = ?", profileID).
		UpdateColumns(map[string]interface{}{
			"rating":        rating,
			"reviews_count": reviewsCount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
