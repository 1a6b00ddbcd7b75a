package services

import (
	"context"
	"errors"
	"strings"

	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/translation"
	"masterhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListProReviews(ctx context.Context, db *gorm.DB, viewer dto.Viewer, proID string, req *dto.PaginationRequest) (*dto.PaginatedResponse, error)
}

type ReviewServiceImpl struct {
	reviewRepo       repositories.ReviewRepository
	jobRepo          repositories.JobRepository
	proposalRepo     repositories.ProposalRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
	translator       *translation.Service
	dispatcher       *notifications.Dispatcher
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRepository,
	proposalRepo repositories.ProposalRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
	translator *translation.Service,
	dispatcher *notifications.Dispatcher,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:       reviewRepo,
		jobRepo:          jobRepo,
		proposalRepo:     proposalRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		translator:       translator,
		dispatcher:       dispatcher,
	}
}

// SubmitReview сохраняет отзыв клиента о специалисте и пересчитывает рейтинг
// специалиста по всем его отзывам
func (s *ReviewServiceImpl) SubmitReview(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.ValidationError(map[string]string{"rating": "Must be between 1 and 5"})
	}

	job, err := loadJob(db, s.jobRepo, req.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(viewer.ProfileID) {
		return nil, apperrors.ErrNotJobClient
	}
	if job.Status != models.JobStatusInProgress && job.Status != models.JobStatusDone {
		return nil, apperrors.ErrJobNotReviewable
	}

	hasAccepted, err := s.proposalRepo.HasAcceptedForPro(db, job.ID, req.ProID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !hasAccepted {
		return nil, apperrors.ErrNoAcceptedProposal
	}

	exists, err := s.reviewRepo.ExistsForJobReviewer(db, job.ID, viewer.ProfileID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrReviewAlreadyExists
	}

	pro, err := loadProfile(db, s.profileRepo, req.ProID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		JobID:      job.ID,
		ReviewerID: viewer.ProfileID,
		ProID:      req.ProID,
		Rating:     req.Rating,
	}
	if req.Comment != nil {
		if comment := strings.TrimSpace(*req.Comment); comment != "" {
			content := s.translator.TranslateContent(ctx, comment)
			review.Comment = &comment
			review.CommentTranslations = content.Translated
			review.OriginalLanguage = content.OriginalLanguage
		}
	}

	var notification *models.Notification
	err = runTx(ctx, db, "review", func(tx *gorm.DB) error {
		if err := s.reviewRepo.Create(tx, review); err != nil {
			if errors.Is(err, repositories.ErrReviewExists) {
				return apperrors.ErrReviewAlreadyExists
			}
			return err
		}

		agg, err := s.reviewRepo.RatingAggregate(tx, req.ProID)
		if err != nil {
			return err
		}
		if err := s.profileRepo.UpdateRating(tx, req.ProID, agg.Average, agg.Count); err != nil {
			return err
		}

		draft := notifications.NewReviewReceived(pro.ID, pro.Locale,
			i18n.Resolve(job.TitleTranslations, job.Title, pro.Locale),
			notifications.ReviewReceived{JobID: job.ID, ReviewID: review.ID, Rating: review.Rating})
		notification, err = insertNotification(tx, s.notificationRepo, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Deliver(ctx, notification, pro.Email)

	logger.CtxInfo(ctx, "review submitted", "review_id", review.ID, "pro_id", review.ProID, "rating", review.Rating)
	return toReviewResponse(review, viewer.LocaleOrDefault()), nil
}

func (s *ReviewServiceImpl) ListProReviews(ctx context.Context, db *gorm.DB, viewer dto.Viewer, proID string, req *dto.PaginationRequest) (*dto.PaginatedResponse, error) {
	if _, err := loadProfile(db, s.profileRepo, proID); err != nil {
		return nil, err
	}

	pagination, page, size := pageOf(*req)
	reviews, total, err := s.reviewRepo.ListByPro(db, proID, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i], viewer.LocaleOrDefault()))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}
