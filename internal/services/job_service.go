package services

import (
	"context"
	"errors"
	"strings"
	"time"

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

type JobService interface {
	CreateJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.JobSearchRequest) (*dto.PaginatedResponse, error)
	ListMyJobs(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.JobSearchRequest) (*dto.PaginatedResponse, error)
	ListAllJobs(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.JobSearchRequest) (*dto.PaginatedResponse, error)
	GetJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string) (*dto.JobResponse, error)
	UpdateJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string) error
	SetStatus(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, status models.JobStatus) (*dto.JobResponse, error)
}

type JobServiceImpl struct {
	jobRepo          repositories.JobRepository
	categoryRepo     repositories.CategoryRepository
	proposalRepo     repositories.ProposalRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
	translator       *translation.Service
	dispatcher       *notifications.Dispatcher
	defaultTTL       time.Duration
	now              func() time.Time
}

func NewJobService(
	jobRepo repositories.JobRepository,
	categoryRepo repositories.CategoryRepository,
	proposalRepo repositories.ProposalRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
	translator *translation.Service,
	dispatcher *notifications.Dispatcher,
	defaultTTL time.Duration,
) JobService {
	return &JobServiceImpl{
		jobRepo:          jobRepo,
		categoryRepo:     categoryRepo,
		proposalRepo:     proposalRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
		translator:       translator,
		dispatcher:       dispatcher,
		defaultTTL:       defaultTTL,
		now:              time.Now,
	}
}

func (s *JobServiceImpl) CreateJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if viewer.Role != models.UserRoleClient {
		return nil, apperrors.ErrClientRoleRequired
	}
	if err := s.ensureCategory(db, req.CategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt, err := s.expiry(now, req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)

	// язык определяем по всему тексту, чтобы у заголовка и описания он совпадал
	source := s.translator.DetectLanguage(ctx, title+"\n"+description)
	job := &models.Job{
		ClientID:                viewer.ProfileID,
		CategoryID:              req.CategoryID,
		Title:                   title,
		Description:             description,
		TitleTranslations:       s.translator.TranslateToAll(ctx, title, source),
		DescriptionTranslations: s.translator.TranslateToAll(ctx, description, source),
		OriginalLanguage:        source,
		Budget:                  req.Budget,
		City:                    strings.TrimSpace(req.City),
		Status:                  models.JobStatusOpen,
		ExpiresAt:               expiresAt,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "client_id", job.ClientID, "language", source)
	return toJobResponse(job, viewer.LocaleOrDefault()), nil
}

func (s *JobServiceImpl) ListJobs(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.JobSearchRequest) (*dto.PaginatedResponse, error) {
	filter := s.filterOf(req)
	if filter.Status == "" {
		filter.Status = models.JobStatusOpen
	}
	filter.HideExpired = filter.Status == models.JobStatusOpen
	return s.list(db, viewer, filter, req.PaginationRequest)
}

func (s *JobServiceImpl) ListMyJobs(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.JobSearchRequest) (*dto.PaginatedResponse, error) {
	filter := s.filterOf(req)
	filter.ClientID = viewer.ProfileID
	return s.list(db, viewer, filter, req.PaginationRequest)
}

// ListAllJobs - административный список, все статусы и просроченные
func (s *JobServiceImpl) ListAllJobs(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.JobSearchRequest) (*dto.PaginatedResponse, error) {
	return s.list(db, viewer, s.filterOf(req), req.PaginationRequest)
}

func (s *JobServiceImpl) GetJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string) (*dto.JobResponse, error) {
	job, err := loadJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsOwnedBy(viewer.ProfileID) {
		if err := s.jobRepo.IncrementViews(db, job.ID); err != nil {
			logger.CtxWarn(ctx, "failed to count job view", "job_id", job.ID, "error", err.Error())
		} else {
			job.ViewsCount++
		}
	}
	return toJobResponse(job, viewer.LocaleOrDefault()), nil
}

func (s *JobServiceImpl) UpdateJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := loadJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(viewer.ProfileID) {
		return nil, apperrors.ErrNotJobOwner
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil && *req.CategoryID != job.CategoryID {
		if err := s.ensureCategory(db, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}
	if req.ExpiresAt != nil {
		expiresAt, err := s.expiry(s.now(), req.ExpiresAt)
		if err != nil {
			return nil, err
		}
		updates["expires_at"] = expiresAt
	}

	title, description := job.Title, job.Description
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	titleChanged := title != job.Title
	descriptionChanged := description != job.Description

	if titleChanged || descriptionChanged {
		source := job.OriginalLanguage
		if titleChanged && descriptionChanged {
			source = s.translator.DetectLanguage(ctx, title+"\n"+description)
			updates["original_language"] = source
		}
		if titleChanged {
			updates["title"] = title
			updates["title_translations"] = models.TranslationMap(s.translator.TranslateToAll(ctx, title, source))
		}
		if descriptionChanged {
			updates["description"] = description
			updates["description_translations"] = models.TranslationMap(s.translator.TranslateToAll(ctx, description, source))
		}
	}

	if len(updates) == 0 {
		return toJobResponse(job, viewer.LocaleOrDefault()), nil
	}

	// статус мог смениться, пока шел перевод
	err = runTx(ctx, db, "job", func(tx *gorm.DB) error {
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", job.ID, models.JobStatusOpen).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrJobNotOpen
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := loadJob(db, s.jobRepo, job.ID)
	if err != nil {
		return nil, err
	}
	return toJobResponse(updated, viewer.LocaleOrDefault()), nil
}

// DeleteJob удаляет открытый заказ вместе с откликами
func (s *JobServiceImpl) DeleteJob(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string) error {
	job, err := loadJob(db, s.jobRepo, jobID)
	if err != nil {
		return err
	}
	if !job.IsOwnedBy(viewer.ProfileID) && !viewer.IsAdmin() {
		return apperrors.ErrNotJobOwner
	}
	if job.Status != models.JobStatusOpen {
		return apperrors.ErrJobNotOpen
	}

	return runTx(ctx, db, "job", func(tx *gorm.DB) error {
		// блокируем переход в in_progress, пока удаляем
		ok, err := s.jobRepo.TransitionStatus(tx, job.ID, models.JobStatusOpen, models.JobStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrJobNotOpen
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.Proposal{}).Error; err != nil {
			return err
		}
		return s.jobRepo.Delete(tx, job.ID)
	})
}

// SetStatus - ручные переходы статуса владельцем (или администратором).
// open -> in_progress возможен только через принятие отклика.
func (s *JobServiceImpl) SetStatus(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, status models.JobStatus) (*dto.JobResponse, error) {
	job, err := loadJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(viewer.ProfileID) && !viewer.IsAdmin() {
		return nil, apperrors.ErrNotJobOwner
	}
	if !job.Status.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": string(job.Status),
			"to":   string(status),
		})
	}

	var (
		notification *models.Notification
		recipient    *models.Profile
	)

	err = runTx(ctx, db, "job", func(tx *gorm.DB) error {
		ok, err := s.jobRepo.TransitionStatus(tx, job.ID, job.Status, status)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrInvalidStatusTransition
		}
		if status != models.JobStatusDone {
			return nil
		}

		accepted, err := s.proposalRepo.FindAccepted(tx, job.ID)
		if errors.Is(err, repositories.ErrProposalNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.profileRepo.IncrementCompletedJobs(tx, accepted.ProID); err != nil {
			return err
		}

		recipient, err = s.profileRepo.FindByID(tx, accepted.ProID)
		if err != nil {
			return err
		}
		draft := notifications.NewJobCompleted(recipient.ID, recipient.Locale,
			i18n.Resolve(job.TitleTranslations, job.Title, recipient.Locale),
			notifications.JobCompleted{JobID: job.ID, ProposalID: accepted.ID})
		notification, err = insertNotification(tx, s.notificationRepo, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	if notification != nil {
		s.dispatcher.Deliver(ctx, notification, recipient.Email)
	}

	logger.CtxInfo(ctx, "job status changed", "job_id", job.ID, "from", job.Status, "to", status)

	job.Status = status
	return toJobResponse(job, viewer.LocaleOrDefault()), nil
}

func (s *JobServiceImpl) ensureCategory(db *gorm.DB, id string) error {
	if _, err := s.categoryRepo.FindActiveByID(db, id); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *JobServiceImpl) expiry(now time.Time, requested *time.Time) (*time.Time, error) {
	if requested != nil {
		if !requested.After(now) {
			return nil, apperrors.ValidationError(map[string]string{"expires_at": "Must be in the future"})
		}
		t := requested.UTC()
		return &t, nil
	}
	if s.defaultTTL <= 0 {
		return nil, nil
	}
	t := now.Add(s.defaultTTL).UTC()
	return &t, nil
}

func (s *JobServiceImpl) filterOf(req *dto.JobSearchRequest) repositories.JobFilter {
	return repositories.JobFilter{
		Status:     models.JobStatus(req.Status),
		CategoryID: req.CategoryID,
		City:       req.City,
		Query:      req.Q,
		MinBudget:  req.MinBudget,
		MaxBudget:  req.MaxBudget,
		Now:        s.now().UTC(),
	}
}

func (s *JobServiceImpl) list(db *gorm.DB, viewer dto.Viewer, filter repositories.JobFilter, pr dto.PaginationRequest) (*dto.PaginatedResponse, error) {
	pagination, page, size := pageOf(pr)
	jobs, total, err := s.jobRepo.List(db, filter, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobResponse(&jobs[i], viewer.LocaleOrDefault()))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}
