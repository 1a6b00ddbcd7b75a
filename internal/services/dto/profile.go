package dto

import (
	"time"

	"masterhub_backend/internal/models"
)

type CreateProfileRequest struct {
	Role        models.UserRole `json:"role" validate:"required,oneof=client pro"`
	DisplayName string          `json:"display_name" validate:"required,min=2,max=100"`
	Locale      string          `json:"locale" validate:"omitempty,locale"`
	City        string          `json:"city" validate:"omitempty,max=100"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=2,max=100"`
	Locale      *string `json:"locale" validate:"omitempty,locale"`
	City        *string `json:"city" validate:"omitempty,max=100"`

	// Только для специалистов
	Bio        *string  `json:"bio" validate:"omitempty,max=5000"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	CategoryID *string  `json:"category_id" validate:"omitempty,uuid"`
}

type ProSearchRequest struct {
	PaginationRequest
	CategoryID string  `form:"category_id" validate:"omitempty,uuid"`
	City       string  `form:"city" validate:"omitempty,max=100"`
	MinRating  float64 `form:"min_rating" validate:"omitempty,gte=0,lte=5"`
}

type AdminProfilesRequest struct {
	PaginationRequest
	Role string `form:"role" validate:"omitempty,user_role"`
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

type ProResponse struct {
	Bio           string   `json:"bio"`
	BioOriginal   string   `json:"bio_original,omitempty"`
	BioLanguage   string   `json:"bio_language,omitempty"`
	HourlyRate    *float64 `json:"hourly_rate,omitempty"`
	CategoryID    *string  `json:"category_id,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewsCount  int      `json:"reviews_count"`
	CompletedJobs int      `json:"completed_jobs"`
}

type ProfileResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email,omitempty"`
	DisplayName string          `json:"display_name"`
	Role        models.UserRole `json:"role"`
	Locale      string          `json:"locale,omitempty"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	City        string          `json:"city,omitempty"`
	Pro         *ProResponse    `json:"pro,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
