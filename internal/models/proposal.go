package models

type Proposal struct {
	BaseModel
	JobID               string         `gorm:"not null;uniqueIndex:idx_proposals_job_pro" json:"job_id"`
	ProID               string         `gorm:"not null;uniqueIndex:idx_proposals_job_pro;index" json:"pro_id"`
	Message             string         `gorm:"not null" json:"message"`
	MessageTranslations TranslationMap `json:"message_translations,omitempty"`
	OriginalLanguage    string         `gorm:"not null;default:en" json:"original_language"`
	Price               float64        `gorm:"not null" json:"price"`
	PriceType           PriceType      `gorm:"not null;default:fixed" json:"price_type"`
	Status              ProposalStatus `gorm:"not null;default:pending;index" json:"status"`

	Job *Job     `gorm:"foreignKey:JobID" json:"-"`
	Pro *Profile `gorm:"foreignKey:ProID" json:"-"`
}
