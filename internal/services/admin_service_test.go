package services

import (
	"testing"

	"masterhub_backend/internal/models"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/testutil"
	"masterhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_Stats(t *testing.T) {
	f := newFixture(t)
	s, convID := openConversation(t, f)
	_, err := f.chat.SendMessage(f.ctx, f.db, viewerOf(s.client), convID, &dto.SendMessageRequest{Content: "hi"})
	require.NoError(t, err)

	stats, err := f.admin.GetStats(f.ctx, f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ProfilesByRole["client"])
	assert.Equal(t, int64(1), stats.ProfilesByRole["pro"])
	assert.Equal(t, int64(1), stats.JobsByStatus["in_progress"])
	assert.Equal(t, int64(1), stats.Proposals)
	assert.Equal(t, int64(1), stats.Messages)
	assert.Zero(t, stats.Reviews)
}

func TestAdmin_UpdateRole(t *testing.T) {
	f := newFixture(t)
	admin := testutil.CreateProfile(t, f.db, models.UserRoleAdmin, "en")
	client := testutil.CreateProfile(t, f.db, models.UserRoleClient, "en")

	resp, err := f.admin.UpdateRole(f.ctx, f.db, viewerOf(admin), client.ID, models.UserRolePro)
	require.NoError(t, err)
	assert.Equal(t, models.UserRolePro, resp.Role)
	assert.NotNil(t, resp.Pro)

	_, err = f.admin.UpdateRole(f.ctx, f.db, viewerOf(admin), admin.ID, models.UserRoleClient)
	assert.Equal(t, apperrors.CodeInvalidOperation, apperrors.CodeOf(err))

	_, err = f.admin.UpdateRole(f.ctx, f.db, viewerOf(admin), client.ID, models.UserRole("owner"))
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))

	list, err := f.admin.ListProfiles(f.ctx, f.db, viewerOf(admin), &dto.AdminProfilesRequest{Role: "pro"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}
