package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID string           `gorm:"not null;index" json:"user_id"`
	Type   NotificationType `gorm:"not null" json:"type"`
	Title  string           `gorm:"not null" json:"title"`
	Body   string           `json:"body"`
	Data   datatypes.JSON   `json:"data"`
	IsRead bool             `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt *time.Time       `json:"read_at,omitempty"`
}
