package dto

import (
	"time"

	"masterhub_backend/internal/models"
)

type CreateJobRequest struct {
	CategoryID  string     `json:"category_id" validate:"required,uuid"`
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required,min=10,max=5000"`
	Budget      *float64   `json:"budget" validate:"omitempty,gte=0"`
	City        string     `json:"city" validate:"omitempty,max=100"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type UpdateJobRequest struct {
	CategoryID  *string    `json:"category_id" validate:"omitempty,uuid"`
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,min=10,max=5000"`
	Budget      *float64   `json:"budget" validate:"omitempty,gte=0"`
	City        *string    `json:"city" validate:"omitempty,max=100"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type UpdateJobStatusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,job_status"`
}

type JobSearchRequest struct {
	PaginationRequest
	Status     string   `form:"status" validate:"omitempty,job_status"`
	CategoryID string   `form:"category_id" validate:"omitempty,uuid"`
	City       string   `form:"city" validate:"omitempty,max=100"`
	Q          string   `form:"q" validate:"omitempty,max=200"`
	MinBudget  *float64 `form:"min_budget" validate:"omitempty,gte=0"`
	MaxBudget  *float64 `form:"max_budget" validate:"omitempty,gte=0"`
}

type JobResponse struct {
	ID                  string           `json:"id"`
	ClientID            string           `json:"client_id"`
	CategoryID          string           `json:"category_id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	OriginalTitle       string           `json:"original_title"`
	OriginalDescription string           `json:"original_description"`
	OriginalLanguage    string           `json:"original_language"`
	Budget              *float64         `json:"budget,omitempty"`
	City                string           `json:"city,omitempty"`
	Status              models.JobStatus `json:"status"`
	ProposalsCount      int              `json:"proposals_count"`
	ViewsCount          int              `json:"views_count"`
	ExpiresAt           *time.Time       `json:"expires_at,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type JobSummary struct {
	ID     string           `json:"id"`
	Title  string           `json:"title"`
	Status models.JobStatus `json:"status"`
}
