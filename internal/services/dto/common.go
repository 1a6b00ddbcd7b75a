package dto

import (
	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/models"
)

// Viewer - кто выполняет запрос и на каком языке ему отвечать
type Viewer struct {
	ProfileID string
	Role      models.UserRole
	Locale    string
}

func (v Viewer) IsAdmin() bool {
	return v.Role == models.UserRoleAdmin
}

func (v Viewer) LocaleOrDefault() string {
	if v.Locale == "" {
		return i18n.DefaultLocale
	}
	return v.Locale
}

type PaginationRequest struct {
	Page     int `form:"page" validate:"omitempty,gte=1"`
	PageSize int `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	HasMore    bool        `json:"has_more"`
}

func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) *PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

type CountResponse struct {
	Count int64 `json:"count"`
}
