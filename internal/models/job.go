package models

import "time"

type Job struct {
	BaseModel
	ClientID                string         `gorm:"not null;index" json:"client_id"`
	CategoryID              string         `gorm:"not null;index" json:"category_id"`
	Title                   string         `gorm:"not null" json:"title"`
	Description             string         `gorm:"not null" json:"description"`
	TitleTranslations       TranslationMap `json:"title_translations,omitempty"`
	DescriptionTranslations TranslationMap `json:"description_translations,omitempty"`
	OriginalLanguage        string         `gorm:"not null;default:en" json:"original_language"`
	Budget                  *float64       `json:"budget,omitempty"`
	City                    string         `gorm:"index" json:"city,omitempty"`
	Status                  JobStatus      `gorm:"not null;default:open;index" json:"status"`
	ProposalsCount          int            `gorm:"not null;default:0" json:"proposals_count"`
	ViewsCount              int            `gorm:"not null;default:0" json:"views_count"`
	ExpiresAt               *time.Time     `gorm:"index" json:"expires_at,omitempty"`

	Client   *Profile  `gorm:"foreignKey:ClientID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (j *Job) IsExpired(now time.Time) bool {
	return j.ExpiresAt != nil && !j.ExpiresAt.After(now)
}

func (j *Job) IsOwnedBy(profileID string) bool {
	return j.ClientID == profileID
}
