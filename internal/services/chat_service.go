package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/translation"
	"masterhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ChatService interface {
	ListConversations(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.PaginationRequest) (*dto.PaginatedResponse, error)
	ListMessages(ctx context.Context, db *gorm.DB, viewer dto.Viewer, conversationID string, req *dto.PaginationRequest) (*dto.PaginatedResponse, error)
	SendMessage(ctx context.Context, db *gorm.DB, viewer dto.Viewer, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
}

type ChatServiceImpl struct {
	conversationRepo repositories.ConversationRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
	translator       *translation.Service
	dispatcher       *notifications.Dispatcher
	now              func() time.Time
}

func NewChatService(
	conversationRepo repositories.ConversationRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
	translator *translation.Service,
	dispatcher *notifications.Dispatcher,
) ChatService {
	return &ChatServiceImpl{
		conversationRepo: conversationRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		translator:       translator,
		dispatcher:       dispatcher,
		now:              time.Now,
	}
}

func (s *ChatServiceImpl) ListConversations(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.PaginationRequest) (*dto.PaginatedResponse, error) {
	pagination, page, size := pageOf(*req)
	convs, total, err := s.conversationRepo.ListForUser(db, viewer.ProfileID, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	lastMessages, err := s.conversationRepo.LastMessages(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.conversationRepo.CountUnreadByConversation(db, viewer.ProfileID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	locale := viewer.LocaleOrDefault()
	items := make([]*dto.ConversationResponse, 0, len(convs))
	for i := range convs {
		c := &convs[i]
		item := &dto.ConversationResponse{
			ID:            c.ID,
			JobID:         c.JobID,
			ClientID:      c.ClientID,
			ProID:         c.ProID,
			CounterpartID: c.Counterpart(viewer.ProfileID),
			LastMessageAt: c.LastMessageAt,
			UnreadCount:   unread[c.ID],
			CreatedAt:     c.CreatedAt,
		}
		if c.Job != nil {
			item.JobTitle = i18n.Resolve(c.Job.TitleTranslations, c.Job.Title, locale)
		}
		if m, ok := lastMessages[c.ID]; ok {
			item.LastMessage = toMessageResponse(&m, locale)
		}
		items = append(items, item)
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}

// ListMessages отдает ленту и помечает входящие сообщения прочитанными
func (s *ChatServiceImpl) ListMessages(ctx context.Context, db *gorm.DB, viewer dto.Viewer, conversationID string, req *dto.PaginationRequest) (*dto.PaginatedResponse, error) {
	conv, err := s.participantConversation(db, viewer, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversationRepo.MarkReadFor(db, conv.ID, viewer.ProfileID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	pagination, page, size := pageOf(*req)
	messages, total, err := s.conversationRepo.ListMessages(db, conv.ID, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, toMessageResponse(&messages[i], viewer.LocaleOrDefault()))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}

func (s *ChatServiceImpl) SendMessage(ctx context.Context, db *gorm.DB, viewer dto.Viewer, conversationID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	conv, err := s.participantConversation(db, viewer, conversationID)
	if err != nil {
		return nil, err
	}

	recipient, err := loadProfile(db, s.profileRepo, conv.Counterpart(viewer.ProfileID))
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Content)
	if text == "" {
		return nil, apperrors.ValidationError(map[string]string{"content": "This field is required"})
	}
	content := s.translator.TranslateContent(ctx, text)

	message := &models.Message{
		ConversationID:      conv.ID,
		SenderID:            viewer.ProfileID,
		Content:             text,
		ContentTranslations: content.Translated,
		OriginalLanguage:    content.OriginalLanguage,
	}

	var notification *models.Notification
	err = runTx(ctx, db, "chat", func(tx *gorm.DB) error {
		if err := s.conversationRepo.CreateMessage(tx, message); err != nil {
			return err
		}
		if err := s.conversationRepo.Touch(tx, conv.ID, s.now()); err != nil {
			return err
		}

		jobTitle := ""
		if conv.Job != nil {
			jobTitle = i18n.Resolve(conv.Job.TitleTranslations, conv.Job.Title, recipient.Locale)
		}
		draft := notifications.NewMessageReceived(recipient.ID, recipient.Locale, jobTitle,
			notifications.NewMessage{ConversationID: conv.ID, MessageID: message.ID, JobID: conv.JobID})
		var err error
		notification, err = insertNotification(tx, s.notificationRepo, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	// сообщение получателю на его языке, письма по каждому сообщению не шлем
	s.dispatcher.Push(recipient.ID, notifications.Event{
		Type: notifications.EventMessage,
		Data: toMessageResponse(message, recipient.Locale),
	})
	s.dispatcher.Deliver(ctx, notification, "")

	return toMessageResponse(message, viewer.LocaleOrDefault()), nil
}

func (s *ChatServiceImpl) participantConversation(db *gorm.DB, viewer dto.Viewer, conversationID string) (*models.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(db, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !conv.HasParticipant(viewer.ProfileID) {
		return nil, apperrors.ErrNotParticipant
	}
	return conv, nil
}
