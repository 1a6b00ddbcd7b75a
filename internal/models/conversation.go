package models

import "time"

// Conversation - чат по заказу между клиентом и принятым специалистом
type Conversation struct {
	BaseModel
	JobID         string     `gorm:"not null;uniqueIndex:idx_conversations_triple" json:"job_id"`
	ClientID      string     `gorm:"not null;uniqueIndex:idx_conversations_triple;index" json:"client_id"`
	ProID         string     `gorm:"not null;uniqueIndex:idx_conversations_triple;index" json:"pro_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`

	Job *Job `gorm:"foreignKey:JobID" json:"-"`
}

func (c *Conversation) HasParticipant(profileID string) bool {
	return c.ClientID == profileID || c.ProID == profileID
}

// Counterpart возвращает второго участника
func (c *Conversation) Counterpart(profileID string) string {
	if c.ClientID == profileID {
		return c.ProID
	}
	return c.ClientID
}

type Message struct {
	BaseModel
	ConversationID      string         `gorm:"not null;index" json:"conversation_id"`
	SenderID            string         `gorm:"not null;index" json:"sender_id"`
	Content             string         `gorm:"not null" json:"content"`
	ContentTranslations TranslationMap `json:"content_translations,omitempty"`
	OriginalLanguage    string         `gorm:"not null;default:en" json:"original_language"`
	IsRead              bool           `gorm:"not null;default:false" json:"is_read"`
}
