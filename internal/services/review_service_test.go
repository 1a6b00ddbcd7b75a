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

// acceptedJob создает заказ клиента с принятым откликом pro
func acceptedJob(t *testing.T, f *fixture, client, pro *models.Profile, categoryID string) *models.Job {
	t.Helper()
	job := testutil.CreateJob(t, f.db, client.ID, categoryID)
	proposal := testutil.CreateProposal(t, f.db, job.ID, pro.ID)
	_, err := f.proposals.AcceptProposal(f.ctx, f.db, proposal.ID, client.ID)
	require.NoError(t, err)
	return job
}

func TestSubmitReview_RecomputesAverageOverAllReviews(t *testing.T) {
	f := newFixture(t)
	client := testutil.CreateProfile(t, f.db, models.UserRoleClient, "en")
	pro := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")
	category := testutil.CreateCategory(t, f.db, "cleaning")

	for _, rating := range []int{5, 2, 4} {
		job := acceptedJob(t, f, client, pro, category.ID)
		_, err := f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), &dto.CreateReviewRequest{
			JobID: job.ID, ProID: pro.ID, Rating: rating,
		})
		require.NoError(t, err)
	}

	stats := f.reloadPro(t, pro.ID)
	assert.InDelta(t, 11.0/3.0, stats.Rating, 0.001)
	assert.Equal(t, 3, stats.ReviewsCount)

	notes := f.notificationsFor(t, pro.ID)
	var reviewNotes int
	for _, n := range notes {
		if n.Type == models.NotificationReviewReceived {
			reviewNotes++
		}
	}
	assert.Equal(t, 3, reviewNotes)
}

func TestSubmitReview_Preconditions(t *testing.T) {
	f := newFixture(t)
	client := testutil.CreateProfile(t, f.db, models.UserRoleClient, "en")
	other := testutil.CreateProfile(t, f.db, models.UserRoleClient, "en")
	pro := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")
	stranger := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")
	category := testutil.CreateCategory(t, f.db, "moving")

	openJob := testutil.CreateJob(t, f.db, client.ID, category.ID)
	testutil.CreateProposal(t, f.db, openJob.ID, pro.ID)

	cases := []struct {
		name   string
		viewer *models.Profile
		req    dto.CreateReviewRequest
		want   error
	}{
		{"missing job", client, dto.CreateReviewRequest{JobID: "00000000-0000-0000-0000-000000000000", ProID: pro.ID, Rating: 5}, apperrors.ErrJobNotFound},
		{"not the client", other, dto.CreateReviewRequest{JobID: openJob.ID, ProID: pro.ID, Rating: 5}, apperrors.ErrNotJobClient},
		{"job still open", client, dto.CreateReviewRequest{JobID: openJob.ID, ProID: pro.ID, Rating: 5}, apperrors.ErrJobNotReviewable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := f.reviews.SubmitReview(f.ctx, f.db, viewerOf(tc.viewer), &req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), &dto.CreateReviewRequest{JobID: openJob.ID, ProID: pro.ID, Rating: 6})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))

	job := acceptedJob(t, f, client, pro, category.ID)

	_, err = f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), &dto.CreateReviewRequest{JobID: job.ID, ProID: stranger.ID, Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrNoAcceptedProposal)
	// ничего не записано
	assert.Zero(t, f.count(t, &models.Review{}, "job_id = ? AND pro_id = ?", job.ID, stranger.ID))
	assert.Zero(t, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", stranger.ID, models.NotificationReviewReceived))
	strangerStats := f.reloadPro(t, stranger.ID)
	assert.Zero(t, strangerStats.Rating)
	assert.Zero(t, strangerStats.ReviewsCount)

	_, err = f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), &dto.CreateReviewRequest{JobID: job.ID, ProID: pro.ID, Rating: 4})
	require.NoError(t, err)

	_, err = f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), &dto.CreateReviewRequest{JobID: job.ID, ProID: pro.ID, Rating: 1})
	assert.ErrorIs(t, err, apperrors.ErrReviewAlreadyExists)
	assert.Equal(t, 409, apperrors.StatusCode(err))

	stats := f.reloadPro(t, pro.ID)
	assert.InDelta(t, 4.0, stats.Rating, 0.001)
	assert.Equal(t, 1, stats.ReviewsCount)
}

func TestSubmitReview_CommentIsTranslated(t *testing.T) {
	f := newFixture(t)
	f.translator.Languages = map[string]string{"Отлично": "ru"}
	client := testutil.CreateProfile(t, f.db, models.UserRoleClient, "ru")
	pro := testutil.CreateProfile(t, f.db, models.UserRolePro, "en")
	category := testutil.CreateCategory(t, f.db, "repair")
	job := acceptedJob(t, f, client, pro, category.ID)
	testutil.SetJobStatus(t, f.db, job.ID, models.JobStatusDone)

	comment := "Отлично справился"
	resp, err := f.reviews.SubmitReview(f.ctx, f.db, viewerOf(client), &dto.CreateReviewRequest{
		JobID: job.ID, ProID: pro.ID, Rating: 5, Comment: &comment,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Comment)
	assert.Equal(t, comment, *resp.Comment)
	assert.Equal(t, "ru", resp.OriginalLanguage)

	list, err := f.reviews.ListProReviews(f.ctx, f.db, viewerOf(pro), pro.ID, &dto.PaginationRequest{})
	require.NoError(t, err)
	items := list.Data.([]*dto.ReviewResponse)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Comment)
	assert.Equal(t, "[en] "+comment, *items[0].Comment)
	assert.Equal(t, comment, *items[0].OriginalComment)
}
