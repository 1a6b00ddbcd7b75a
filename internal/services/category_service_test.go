package services

import (
	"testing"

	"masterhub_backend/internal/models"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/testutil"
	"masterhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_CachedUntilAdminWrite(t *testing.T) {
	f := newFixture(t)
	testutil.CreateCategory(t, f.db, "plumbing")
	ru := dto.Viewer{Locale: "ru"}

	list, err := f.categorySvc.ListCategories(f.ctx, f.db, ru)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Категория plumbing", list[0].Name)
	assert.Nil(t, list[0].Names)

	// запись в обход сервиса кэш не видит
	testutil.CreateCategory(t, f.db, "hidden")
	list, err = f.categorySvc.ListCategories(f.ctx, f.db, ru)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	created, err := f.categorySvc.CreateCategory(f.ctx, f.db, &dto.CreateCategoryRequest{
		Slug:  "Cleaning",
		Name:  "Cleaning",
		Names: map[string]string{"th": "ทำความสะอาด"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cleaning", created.Slug)
	assert.True(t, created.IsActive)

	list, err = f.categorySvc.ListCategories(f.ctx, f.db, dto.Viewer{Locale: "th"})
	require.NoError(t, err)
	require.Len(t, list, 3)

	names := map[string]string{}
	for _, c := range list {
		names[c.Slug] = c.Name
	}
	assert.Equal(t, "ทำความสะอาด", names["cleaning"])
	assert.Equal(t, "Category plumbing", names["plumbing"])

	require.NoError(t, f.categorySvc.DeleteCategory(f.ctx, f.db, created.ID))
	list, err = f.categorySvc.ListCategories(f.ctx, f.db, dto.Viewer{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(1), f.count(t, &models.Category{}, "id = ?", created.ID))
}

func TestCategories_Errors(t *testing.T) {
	f := newFixture(t)
	existing := testutil.CreateCategory(t, f.db, "plumbing")

	_, err := f.categorySvc.CreateCategory(f.ctx, f.db, &dto.CreateCategoryRequest{Slug: "plumbing", Name: "Again"})
	assert.ErrorIs(t, err, apperrors.ErrCategorySlugTaken)

	name := "Renamed"
	_, err = f.categorySvc.UpdateCategory(f.ctx, f.db, "00000000-0000-0000-0000-000000000000", &dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	updated, err := f.categorySvc.UpdateCategory(f.ctx, f.db, existing.ID, &dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	err = f.categorySvc.DeleteCategory(f.ctx, f.db, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}
