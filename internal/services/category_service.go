package services

import (
	"context"
	"errors"
	"strings"

	"masterhub_backend/internal/cache"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CategoryService interface {
	ListCategories(ctx context.Context, db *gorm.DB, viewer dto.Viewer) ([]dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, db *gorm.DB, id string) error
}

type CategoryServiceImpl struct {
	categoryRepo repositories.CategoryRepository
	cache        *cache.Value[[]models.Category]
}

// NewCategoryService; активные категории читаются через cache,
// каждая запись администратором его сбрасывает
func NewCategoryService(categoryRepo repositories.CategoryRepository, categories *cache.Value[[]models.Category]) CategoryService {
	return &CategoryServiceImpl{categoryRepo: categoryRepo, cache: categories}
}

func (s *CategoryServiceImpl) ListCategories(ctx context.Context, db *gorm.DB, viewer dto.Viewer) ([]dto.CategoryResponse, error) {
	categories, err := s.cache.Get(ctx, func(ctx context.Context) ([]models.Category, error) {
		return s.categoryRepo.ListActive(db.WithContext(ctx))
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i], viewer.LocaleOrDefault(), viewer.IsAdmin()))
	}
	return out, nil
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &models.Category{
		Slug:      strings.ToLower(strings.TrimSpace(req.Slug)),
		Name:      strings.TrimSpace(req.Name),
		Names:     models.TranslationMap(req.Names),
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}

	if err := s.categoryRepo.Create(db, category); err != nil {
		return nil, categoryError(err)
	}
	s.cache.Invalidate()

	resp := toCategoryResponse(category, "", true)
	return &resp, nil
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	updates := map[string]interface{}{}
	if req.Slug != nil {
		updates["slug"] = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Names != nil {
		updates["names"] = models.TranslationMap(req.Names)
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.categoryRepo.Update(db, id, updates); err != nil {
		return nil, categoryError(err)
	}
	s.cache.Invalidate()

	category, err := s.categoryRepo.FindByID(db, id)
	if err != nil {
		return nil, categoryError(err)
	}
	resp := toCategoryResponse(category, "", true)
	return &resp, nil
}

// DeleteCategory скрывает категорию из каталога
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.categoryRepo.Deactivate(db, id); err != nil {
		return categoryError(err)
	}
	s.cache.Invalidate()
	return nil
}

func categoryError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return apperrors.ErrCategoryNotFound
	case errors.Is(err, repositories.ErrCategorySlugTaken):
		return apperrors.ErrCategorySlugTaken
	default:
		return apperrors.InternalError(err)
	}
}
