package repositories

import (
	"masterhub_backend/internal/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(db *gorm.DB, category *models.Category) error
	FindByID(db *gorm.DB, id string) (*models.Category, error)
	FindActiveByID(db *gorm.DB, id string) (*models.Category, error)
	ListActive(db *gorm.DB) ([]models.Category, error)
	ListAll(db *gorm.DB) ([]models.Category, error)
	Update(db *gorm.DB, id string, updates map[string]interface{}) error
	Deactivate(db *gorm.DB, id string) error
}

type CategoryRepositoryImpl struct{}

func NewCategoryRepository() CategoryRepository {
	return &CategoryRepositoryImpl{}
}

func (r *CategoryRepositoryImpl) Create(db *gorm.DB, category *models.Category) error {
	return uniqueOr(db.Create(category).Error, ErrCategorySlugTaken)
}

func (r *CategoryRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Category, error) {
	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindActiveByID(db *gorm.DB, id string) (*models.Category, error) {
	var category models.Category
	err := db.Where("id = ? AND is_active = ?", id, true).First(&category).Error
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) ListActive(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	err := db.Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) ListAll(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	err := db.Order("sort_order ASC").Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := db.Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return uniqueOr(res.Error, ErrCategorySlugTaken)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Deactivate скрывает категорию. Физически не удаляем: на нее ссылаются заказы.
func (r *CategoryRepositoryImpl) Deactivate(db *gorm.DB, id string) error {
	return r.Update(db, id, map[string]interface{}{"is_active": false})
}
