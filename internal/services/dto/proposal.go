package dto

import (
	"time"

	"masterhub_backend/internal/models"
)

type CreateProposalRequest struct {
	Message   string           `json:"message" validate:"required,min=10,max=3000"`
	Price     float64          `json:"price" validate:"gt=0"`
	PriceType models.PriceType `json:"price_type" validate:"omitempty,price_type"`
}

type ProposalListRequest struct {
	PaginationRequest
	Status string `form:"status" validate:"omitempty,oneof=pending accepted rejected"`
}

type ProposalResponse struct {
	ID               string                `json:"id"`
	JobID            string                `json:"job_id"`
	ProID            string                `json:"pro_id"`
	Message          string                `json:"message"`
	OriginalMessage  string                `json:"original_message"`
	OriginalLanguage string                `json:"original_language"`
	Price            float64               `json:"price"`
	PriceType        models.PriceType      `json:"price_type"`
	Status           models.ProposalStatus `json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
	Pro              *ProfileResponse      `json:"pro,omitempty"`
	Job              *JobSummary           `json:"job,omitempty"`
}

type AcceptProposalResponse struct {
	ConversationID string `json:"conversation_id"`
}
