package models

// Profile - внутренний профиль, привязанный к пользователю хостинг-провайдера авторизации
type Profile struct {
	BaseModel
	ExternalID  *string  `gorm:"uniqueIndex:idx_profiles_external_id" json:"-"`
	Email       string   `gorm:"not null;uniqueIndex:idx_profiles_email" json:"email"`
	DisplayName string   `gorm:"not null" json:"display_name"`
	Role        UserRole `gorm:"not null;index" json:"role"`
	Locale      string   `gorm:"not null;default:en" json:"locale"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	City        string   `gorm:"index" json:"city,omitempty"`

	Pro *ProProfile `gorm:"foreignKey:ProfileID" json:"pro,omitempty"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

// ProProfile - данные специалиста и агрегированный рейтинг
type ProProfile struct {
	BaseModel
	ProfileID       string         `gorm:"not null;uniqueIndex:idx_pro_profiles_profile" json:"profile_id"`
	Bio             string         `json:"bio"`
	BioTranslations TranslationMap `json:"bio_translations,omitempty"`
	BioLanguage     string         `json:"bio_language,omitempty"`
	HourlyRate      *float64       `json:"hourly_rate,omitempty"`
	CategoryID      *string        `gorm:"index" json:"category_id,omitempty"`
	Rating          float64        `gorm:"not null;default:0" json:"rating"`
	ReviewsCount    int            `gorm:"not null;default:0" json:"reviews_count"`
	CompletedJobs   int            `gorm:"not null;default:0" json:"completed_jobs"`
}
