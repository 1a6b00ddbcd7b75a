package dto

import "time"

type CreateReviewRequest struct {
	JobID   string  `json:"job_id" validate:"required,uuid"`
	ProID   string  `json:"pro_id" validate:"required,uuid"`
	Rating  int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=3000"`
}

type ReviewResponse struct {
	ID               string    `json:"id"`
	JobID            string    `json:"job_id"`
	ReviewerID       string    `json:"reviewer_id"`
	ProID            string    `json:"pro_id"`
	Rating           int       `json:"rating"`
	Comment          *string   `json:"comment,omitempty"`
	OriginalComment  *string   `json:"original_comment,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
