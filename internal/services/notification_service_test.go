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

func TestNotifications_ReadFlow(t *testing.T) {
	f := newFixture(t)
	s := newAcceptScenario(t, f, 2)
	for _, p := range s.proposals {
		_, _ = f.proposals.AcceptProposal(f.ctx, f.db, p.ID, s.client.ID)
	}
	pro := s.pros[0]
	other := s.pros[1]

	count, err := f.notifications.UnreadCount(f.ctx, f.db, viewerOf(pro))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	list, err := f.notifications.ListNotifications(f.ctx, f.db, viewerOf(pro), &dto.NotificationListRequest{UnreadOnly: true})
	require.NoError(t, err)
	items := list.Data.([]*dto.NotificationResponse)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotificationProposalAccepted, items[0].Type)
	assert.IsType(t, notifications.ProposalAccepted{}, items[0].Data)

	err = f.notifications.MarkAsRead(f.ctx, f.db, viewerOf(other), items[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)

	require.NoError(t, f.notifications.MarkAsRead(f.ctx, f.db, viewerOf(pro), items[0].ID))
	count, err = f.notifications.UnreadCount(f.ctx, f.db, viewerOf(pro))
	require.NoError(t, err)
	assert.Zero(t, count.Count)
}

func TestNotifications_MarkAllRead(t *testing.T) {
	f := newFixture(t)
	client := testutil.CreateProfile(t, f.db, models.UserRoleClient, "en")
	category := testutil.CreateCategory(t, f.db, "windows")
	job := testutil.CreateJob(t, f.db, client.ID, category.ID)

	for i := 0; i < 3; i++ {
		pro := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")
		_, err := f.proposals.SubmitProposal(f.ctx, f.db, viewerOf(pro), job.ID, &dto.CreateProposalRequest{Message: "I can wash them all", Price: 30})
		require.NoError(t, err)
	}

	marked, err := f.notifications.MarkAllAsRead(f.ctx, f.db, viewerOf(client))
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked.Count)

	marked, err = f.notifications.MarkAllAsRead(f.ctx, f.db, viewerOf(client))
	require.NoError(t, err)
	assert.Zero(t, marked.Count)
}
