package services

import (
	"testing"

	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/testutil"
	"masterhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openConversation(t *testing.T, f *fixture) (*acceptScenario, string) {
	t.Helper()
	s := newAcceptScenario(t, f, 1)
	convID, err := f.proposals.AcceptProposal(f.ctx, f.db, s.proposals[0].ID, s.client.ID)
	require.NoError(t, err)
	return s, convID
}

func TestSendMessage_PushesTranslatedMessage(t *testing.T) {
	f := newFixture(t)
	s, convID := openConversation(t, f)
	pro := s.pros[0]

	resp, err := f.chat.SendMessage(f.ctx, f.db, viewerOf(s.client), convID, &dto.SendMessageRequest{Content: "  When can you come?  "})
	require.NoError(t, err)
	assert.Equal(t, "When can you come?", resp.Content)
	assert.Equal(t, "en", resp.OriginalLanguage)

	// специалист с русской локалью получает перевод
	var pushed *dto.MessageResponse
	for _, e := range f.pusher.For(pro.ID) {
		if e.Type == notifications.EventMessage {
			pushed = e.Data.(*dto.MessageResponse)
		}
	}
	require.NotNil(t, pushed)
	assert.Equal(t, "[ru] When can you come?", pushed.Content)
	assert.Equal(t, "When can you come?", pushed.OriginalContent)

	var newMessage int
	for _, n := range f.notificationsFor(t, pro.ID) {
		if n.Type == models.NotificationNewMessage {
			newMessage++
		}
	}
	assert.Equal(t, 1, newMessage)

	// письмо только о принятии отклика, по сообщениям не шлем
	require.True(t, f.dispatcher.Wait(testWait))
	assert.Len(t, f.mailer.All(), 1)

	convs, err := f.chat.ListConversations(f.ctx, f.db, viewerOf(pro), &dto.PaginationRequest{})
	require.NoError(t, err)
	items := convs.Data.([]*dto.ConversationResponse)
	require.Len(t, items, 1)
	assert.Equal(t, s.client.ID, items[0].CounterpartID)
	assert.Equal(t, int64(1), items[0].UnreadCount)
	require.NotNil(t, items[0].LastMessage)
	assert.Equal(t, resp.ID, items[0].LastMessage.ID)
	assert.Equal(t, "Починить раковину", items[0].JobTitle)
}

func TestListMessages_MarksIncomingRead(t *testing.T) {
	f := newFixture(t)
	s, convID := openConversation(t, f)
	pro := s.pros[0]

	for _, text := range []string{"Hello", "Are you free tomorrow?"} {
		_, err := f.chat.SendMessage(f.ctx, f.db, viewerOf(s.client), convID, &dto.SendMessageRequest{Content: text})
		require.NoError(t, err)
	}
	_, err := f.chat.SendMessage(f.ctx, f.db, viewerOf(pro), convID, &dto.SendMessageRequest{Content: "Yes"})
	require.NoError(t, err)

	page, err := f.chat.ListMessages(f.ctx, f.db, viewerOf(pro), convID, &dto.PaginationRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	assert.Zero(t, f.count(t, &models.Message{}, "conversation_id = ? AND sender_id = ? AND is_read = ?", convID, s.client.ID, false))
	// свои сообщения специалиста остаются непрочитанными для клиента
	assert.Equal(t, int64(1), f.count(t, &models.Message{}, "conversation_id = ? AND sender_id = ? AND is_read = ?", convID, pro.ID, false))
}

func TestChat_NonParticipantIsForbidden(t *testing.T) {
	f := newFixture(t)
	s, convID := openConversation(t, f)
	outsider := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")

	_, err := f.chat.SendMessage(f.ctx, f.db, viewerOf(outsider), convID, &dto.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, err = f.chat.ListMessages(f.ctx, f.db, viewerOf(outsider), convID, &dto.PaginationRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, err = f.chat.ListMessages(f.ctx, f.db, viewerOf(outsider), "00000000-0000-0000-0000-000000000000", &dto.PaginationRequest{})
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)

	_, err = f.chat.SendMessage(f.ctx, f.db, viewerOf(s.client), convID, &dto.SendMessageRequest{Content: "   "})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
}
