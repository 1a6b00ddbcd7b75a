package dto

import "time"

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

type MessageResponse struct {
	ID               string    `json:"id"`
	ConversationID   string    `json:"conversation_id"`
	SenderID         string    `json:"sender_id"`
	Content          string    `json:"content"`
	OriginalContent  string    `json:"original_content"`
	OriginalLanguage string    `json:"original_language"`
	IsRead           bool      `json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

type ConversationResponse struct {
	ID            string           `json:"id"`
	JobID         string           `json:"job_id"`
	JobTitle      string           `json:"job_title,omitempty"`
	ClientID      string           `json:"client_id"`
	ProID         string           `json:"pro_id"`
	CounterpartID string           `json:"counterpart_id"`
	LastMessageAt *time.Time       `json:"last_message_at,omitempty"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	UnreadCount   int64            `json:"unread_count"`
	CreatedAt     time.Time        `json:"created_at"`
}
