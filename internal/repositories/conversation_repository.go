package repositories

import (
	"time"

	"masterhub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository interface {
	Upsert(db *gorm.DB, jobID, clientID, proID string) (*models.Conversation, error)
	FindByID(db *gorm.DB, id string) (*models.Conversation, error)
	FindByTriple(db *gorm.DB, jobID, clientID, proID string) (*models.Conversation, error)
	ListForUser(db *gorm.DB, userID string, page Pagination) ([]models.Conversation, int64, error)
	Touch(db *gorm.DB, id string, at time.Time) error

	// Messages
	CreateMessage(db *gorm.DB, message *models.Message) error
	ListMessages(db *gorm.DB, conversationID string, page Pagination) ([]models.Message, int64, error)
	LastMessages(db *gorm.DB, conversationIDs []string) (map[string]models.Message, error)
	MarkReadFor(db *gorm.DB, conversationID, readerID string) (int64, error)
	CountUnreadByConversation(db *gorm.DB, userID string) (map[string]int64, error)
	CountMessages(db *gorm.DB) (int64, error)
}

type ConversationRepositoryImpl struct{}

func NewConversationRepository() ConversationRepository {
	return &ConversationRepositoryImpl{}
}

// Upsert гарантирует ровно одну беседу на тройку (job, client, pro).
// Повторный вызов возвращает существующую запись.
func (r *ConversationRepositoryImpl) Upsert(db *gorm.DB, jobID, clientID, proID string) (*models.Conversation, error) {
	conv := &models.Conversation{JobID: jobID, ClientID: clientID, ProID: proID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "client_id"}, {Name: "pro_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(conv).Error
	if err != nil {
		return nil, err
	}
	// при конфликте id в conv сгенерирован заново, поэтому перечитываем
	return r.FindByTriple(db, jobID, clientID, proID)
}

func (r *ConversationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := db.Preload("Job").First(&conv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrConversationNotFound)
	}
	return &conv, nil
}

func (r *ConversationRepositoryImpl) FindByTriple(db *gorm.DB, jobID, clientID, proID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := db.Where("job_id = ? AND client_id = ? AND pro_id = ?", jobID, clientID, proID).
		First(&conv).Error
	if err != nil {
		return nil, notFound(err, ErrConversationNotFound)
	}
	return &conv, nil
}

func (r *ConversationRepositoryImpl) ListForUser(db *gorm.DB, userID string, page Pagination) ([]models.Conversation, int64, error) {
	query := db.Model(&models.Conversation{}).Where("client_id = ? OR pro_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []models.Conversation
	err := page.apply(query.Preload("Job").
		Order("COALESCE(last_message_at, created_at) DESC")).
		Find(&convs).Error
	return convs, total, err
}

func (r *ConversationRepositoryImpl) Touch(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_message_at": at, "updated_at": at}).Error
}

func (r *ConversationRepositoryImpl) CreateMessage(db *gorm.DB, message *models.Message) error {
	return db.Create(message).Error
}

// ListMessages возвращает сообщения от новых к старым
func (r *ConversationRepositoryImpl) ListMessages(db *gorm.DB, conversationID string, page Pagination) ([]models.Message, int64, error) {
	query := db.Model(&models.Message{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := page.apply(query.Order("created_at DESC")).Find(&messages).Error
	return messages, total, err
}

func (r *ConversationRepositoryImpl) LastMessages(db *gorm.DB, conversationIDs []string) (map[string]models.Message, error) {
	out := make(map[string]models.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}

	var messages []models.Message
	err := db.Where("conversation_id IN ?", conversationIDs).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if _, ok := out[m.ConversationID]; !ok {
			out[m.ConversationID] = m
		}
	}
	return out, nil
}

// MarkReadFor помечает прочитанными входящие сообщения читателя
func (r *ConversationRepositoryImpl) MarkReadFor(db *gorm.DB, conversationID, readerID string) (int64, error) {
	res := db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *ConversationRepositoryImpl) CountUnreadByConversation(db *gorm.DB, userID string) (map[string]int64, error) {
	var rows []struct {
		ConversationID string
		Count          int64
	}
	err := db.Model(&models.Message{}).
		Select("messages.conversation_id AS conversation_id, COUNT(*) AS count").
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.client_id = ? OR conversations.pro_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Group("messages.conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ConversationID] = row.Count
	}
	return out, nil
}

func (r *ConversationRepositoryImpl) CountMessages(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Message{}).Count(&count).Error
	return count, err
}
