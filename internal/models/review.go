package models

type Review struct {
	BaseModel
	JobID               string         `gorm:"not null;uniqueIndex:idx_reviews_job_reviewer" json:"job_id"`
	ReviewerID          string         `gorm:"not null;uniqueIndex:idx_reviews_job_reviewer" json:"reviewer_id"`
	ProID               string         `gorm:"not null;index" json:"pro_id"`
	Rating              int            `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment             *string        `json:"comment,omitempty"`
	CommentTranslations TranslationMap `json:"comment_translations,omitempty"`
	OriginalLanguage    string         `json:"original_language,omitempty"`
}
