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

func assertTransactionFailed(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTransactionFailed, apperrors.CodeOf(err))
	assert.Equal(t, 500, apperrors.StatusCode(err))
	assert.ErrorIs(t, err, errNotificationStore)
}

func TestAcceptProposal_FailureInsideUnitLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	s := newAcceptScenario(t, f, 2)

	f.notes.failCreate.Store(true)
	convID, err := f.proposals.AcceptProposal(f.ctx, f.db, s.proposals[0].ID, s.client.ID)
	assertTransactionFailed(t, err)
	assert.Empty(t, convID)

	assert.Equal(t, models.JobStatusOpen, f.reloadJob(t, s.job.ID).Status)
	for _, p := range s.proposals {
		assert.Equal(t, models.ProposalStatusPending, f.reloadProposal(t, p.ID).Status)
	}
	assert.Zero(t, f.count(t, &models.Conversation{}, "job_id = ?", s.job.ID))
	assert.Empty(t, f.notificationsFor(t, s.pros[0].ID))
	assert.Empty(t, f.pusher.For(s.pros[0].ID))

	// повтор после восстановления проходит целиком
	f.notes.failCreate.Store(false)
	convID, err = f.proposals.AcceptProposal(f.ctx, f.db, s.proposals[0].ID, s.client.ID)
	require.NoError(t, err)
	require.NotEmpty(t, convID)
	assert.Equal(t, models.JobStatusInProgress, f.reloadJob(t, s.job.ID).Status)
	assert.Equal(t, models.ProposalStatusAccepted, f.reloadProposal(t, s.proposals[0].ID).Status)
	assert.Equal(t, models.ProposalStatusRejected, f.reloadProposal(t, s.proposals[1].ID).Status)
	assert.Equal(t, int64(1), f.count(t, &models.Conversation{}, "job_id = ?", s.job.ID))
}

func TestSetStatusDone_FailureInsideUnitLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	s := newAcceptScenario(t, f, 1)
	_, err := f.proposals.AcceptProposal(f.ctx, f.db, s.proposals[0].ID, s.client.ID)
	require.NoError(t, err)
	pushed := len(f.pusher.For(s.pros[0].ID))

	f.notes.failCreate.Store(true)
	_, err = f.jobs.SetStatus(f.ctx, f.db, viewerOf(s.client), s.job.ID, models.JobStatusDone)
	assertTransactionFailed(t, err)

	assert.Equal(t, models.JobStatusInProgress, f.reloadJob(t, s.job.ID).Status)
	assert.Zero(t, f.reloadPro(t, s.pros[0].ID).CompletedJobs)
	assert.Len(t, f.notificationsFor(t, s.pros[0].ID), 1)
	assert.Len(t, f.pusher.For(s.pros[0].ID), pushed)

	f.notes.failCreate.Store(false)
	resp, err := f.jobs.SetStatus(f.ctx, f.db, viewerOf(s.client), s.job.ID, models.JobStatusDone)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusDone, resp.Status)
	assert.Equal(t, 1, f.reloadPro(t, s.pros[0].ID).CompletedJobs)
	assert.Len(t, f.notificationsFor(t, s.pros[0].ID), 2)
}

func TestSubmitReview_FailureInsideUnitLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	client := testutil.CreateProfile(t, f.db, models.UserRoleClient, "en")
	pro := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")
	category := testutil.CreateCategory(t, f.db, "painting")
	job := acceptedJob(t, f, client, pro, category.ID)
	req := &dto.CreateReviewRequest{JobID: job.ID, ProID: pro.ID, Rating: 4}

	f.notes.failCreate.Store(true)
	_, err := f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), req)
	assertTransactionFailed(t, err)

	assert.Zero(t, f.count(t, &models.Review{}, "job_id = ?", job.ID))
	stats := f.reloadPro(t, pro.ID)
	assert.Zero(t, stats.Rating)
	assert.Zero(t, stats.ReviewsCount)

	f.notes.failCreate.Store(false)
	_, err = f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.count(t, &models.Review{}, "job_id = ?", job.ID))
	stats = f.reloadPro(t, pro.ID)
	assert.InDelta(t, 4.0, stats.Rating, 0.001)
	assert.Equal(t, 1, stats.ReviewsCount)
}
