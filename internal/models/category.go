package models

type Category struct {
	BaseModel
	Slug      string         `gorm:"not null;uniqueIndex:idx_categories_slug" json:"slug"`
	Name      string         `gorm:"not null" json:"name"`
	Names     TranslationMap `json:"names,omitempty"`
	Icon      string         `json:"icon,omitempty"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
}
