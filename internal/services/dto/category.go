package dto

type CreateCategoryRequest struct {
	Slug      string            `json:"slug" validate:"required,slug,max=64"`
	Name      string            `json:"name" validate:"required,max=100"`
	Names     map[string]string `json:"names" validate:"omitempty,dive,keys,locale,endkeys,max=100"`
	Icon      string            `json:"icon" validate:"omitempty,max=255"`
	SortOrder int               `json:"sort_order"`
	IsActive  *bool             `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Slug      *string           `json:"slug" validate:"omitempty,slug,max=64"`
	Name      *string           `json:"name" validate:"omitempty,max=100"`
	Names     map[string]string `json:"names" validate:"omitempty,dive,keys,locale,endkeys,max=100"`
	Icon      *string           `json:"icon" validate:"omitempty,max=255"`
	SortOrder *int              `json:"sort_order"`
	IsActive  *bool             `json:"is_active"`
}

type CategoryResponse struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Name      string            `json:"name"`
	Names     map[string]string `json:"names,omitempty"`
	Icon      string            `json:"icon,omitempty"`
	SortOrder int               `json:"sort_order"`
	IsActive  bool              `json:"is_active"`
}
