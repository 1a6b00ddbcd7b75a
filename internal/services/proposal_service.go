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

type ProposalService interface {
	SubmitProposal(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	ListJobProposals(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, req *dto.PaginationRequest) (*dto.PaginatedResponse, error)
	ListMyProposals(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.ProposalListRequest) (*dto.PaginatedResponse, error)
	AcceptProposal(ctx context.Context, db *gorm.DB, proposalID, clientID string) (string, error)
	WithdrawProposal(ctx context.Context, db *gorm.DB, viewer dto.Viewer, proposalID string) error
}

type ProposalServiceImpl struct {
	proposalRepo     repositories.ProposalRepository
	jobRepo          repositories.JobRepository
	profileRepo      repositories.ProfileRepository
	conversationRepo repositories.ConversationRepository
	notificationRepo repositories.NotificationRepository
	translator       *translation.Service
	dispatcher       *notifications.Dispatcher
	now              func() time.Time
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	jobRepo repositories.JobRepository,
	profileRepo repositories.ProfileRepository,
	conversationRepo repositories.ConversationRepository,
	notificationRepo repositories.NotificationRepository,
	translator *translation.Service,
	dispatcher *notifications.Dispatcher,
) ProposalService {
	return &ProposalServiceImpl{
		proposalRepo:     proposalRepo,
		jobRepo:          jobRepo,
		profileRepo:      profileRepo,
		conversationRepo: conversationRepo,
		notificationRepo: notificationRepo,
		translator:       translator,
		dispatcher:       dispatcher,
		now:              time.Now,
	}
}

func (s *ProposalServiceImpl) SubmitProposal(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	if viewer.Role != models.UserRolePro {
		return nil, apperrors.ErrProRoleRequired
	}

	job, err := loadJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if job.IsOwnedBy(viewer.ProfileID) {
		return nil, apperrors.ErrOwnJobProposal
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}
	if job.IsExpired(s.now()) {
		return nil, apperrors.ErrJobExpired
	}

	client, err := loadProfile(db, s.profileRepo, job.ClientID)
	if err != nil {
		return nil, err
	}

	priceType := req.PriceType
	if priceType == "" {
		priceType = models.PriceTypeFixed
	}
	message := strings.TrimSpace(req.Message)
	content := s.translator.TranslateContent(ctx, message)

	proposal := &models.Proposal{
		JobID:               job.ID,
		ProID:               viewer.ProfileID,
		Message:             message,
		MessageTranslations: content.Translated,
		OriginalLanguage:    content.OriginalLanguage,
		Price:               req.Price,
		PriceType:           priceType,
		Status:              models.ProposalStatusPending,
	}

	var notification *models.Notification
	err = runTx(ctx, db, "proposal", func(tx *gorm.DB) error {
		if err := s.proposalRepo.Create(tx, proposal); err != nil {
			if errors.Is(err, repositories.ErrProposalExists) {
				return apperrors.ErrProposalAlreadyExists
			}
			return err
		}
		if err := s.jobRepo.IncrementProposals(tx, job.ID); err != nil {
			return err
		}

		draft := notifications.NewProposalSubmitted(client.ID, client.Locale,
			i18n.Resolve(job.TitleTranslations, job.Title, client.Locale),
			notifications.NewProposal{JobID: job.ID, ProposalID: proposal.ID})
		var err error
		notification, err = insertNotification(tx, s.notificationRepo, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Deliver(ctx, notification, client.Email)

	logger.CtxInfo(ctx, "proposal submitted", "proposal_id", proposal.ID, "job_id", job.ID)
	return toProposalResponse(proposal, viewer.LocaleOrDefault()), nil
}

// ListJobProposals: владелец заказа и администратор видят все отклики,
// специалист только свой
func (s *ProposalServiceImpl) ListJobProposals(ctx context.Context, db *gorm.DB, viewer dto.Viewer, jobID string, req *dto.PaginationRequest) (*dto.PaginatedResponse, error) {
	job, err := loadJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}

	var proFilter string
	switch {
	case job.IsOwnedBy(viewer.ProfileID) || viewer.IsAdmin():
	case viewer.Role == models.UserRolePro:
		proFilter = viewer.ProfileID
	default:
		return nil, apperrors.ErrNotJobOwner
	}

	pagination, page, size := pageOf(*req)
	proposals, total, err := s.proposalRepo.ListByJob(db, job.ID, proFilter, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		items = append(items, toProposalResponse(&proposals[i], viewer.LocaleOrDefault()))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}

func (s *ProposalServiceImpl) ListMyProposals(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.ProposalListRequest) (*dto.PaginatedResponse, error) {
	pagination, page, size := pageOf(req.PaginationRequest)
	proposals, total, err := s.proposalRepo.ListByPro(db, viewer.ProfileID, models.ProposalStatus(req.Status), pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		items = append(items, toProposalResponse(&proposals[i], viewer.LocaleOrDefault()))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}

// AcceptProposal принимает отклик: заказ уходит в работу, остальные отклики
// отклоняются, открывается беседа и специалист получает уведомление.
// Все изменения применяются одной транзакцией. Возвращает id беседы.
func (s *ProposalServiceImpl) AcceptProposal(ctx context.Context, db *gorm.DB, proposalID, clientID string) (string, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		if errors.Is(err, repositories.ErrProposalNotFound) {
			return "", apperrors.ErrProposalNotFound
		}
		return "", apperrors.InternalError(err)
	}
	job, err := loadJob(db, s.jobRepo, proposal.JobID)
	if err != nil {
		return "", err
	}
	if !job.IsOwnedBy(clientID) {
		return "", apperrors.ErrNotJobOwner
	}
	if job.Status != models.JobStatusOpen {
		return "", apperrors.ErrJobNotOpen
	}
	if proposal.Status != models.ProposalStatusPending {
		return "", apperrors.ErrProposalNotPending
	}

	pro, err := loadProfile(db, s.profileRepo, proposal.ProID)
	if err != nil {
		return "", err
	}

	var (
		conversation *models.Conversation
		notification *models.Notification
	)
	err = runTx(ctx, db, "proposal", func(tx *gorm.DB) error {
		// условный переход: из двух параллельных принятий пройдет одно
		ok, err := s.jobRepo.TransitionStatus(tx, job.ID, models.JobStatusOpen, models.JobStatusInProgress)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrJobNotOpen
		}

		accepted, err := s.proposalRepo.Accept(tx, proposal.ID)
		if err != nil {
			return err
		}
		if !accepted {
			return apperrors.ErrProposalNotPending
		}

		if _, err := s.proposalRepo.RejectSiblings(tx, job.ID, proposal.ID); err != nil {
			return err
		}

		conversation, err = s.conversationRepo.Upsert(tx, job.ID, job.ClientID, proposal.ProID)
		if err != nil {
			return err
		}

		draft := notifications.NewProposalAccepted(pro.ID, pro.Locale,
			i18n.Resolve(job.TitleTranslations, job.Title, pro.Locale),
			notifications.ProposalAccepted{
				JobID:          job.ID,
				ProposalID:     proposal.ID,
				ConversationID: conversation.ID,
			})
		notification, err = insertNotification(tx, s.notificationRepo, draft)
		return err
	})
	if err != nil {
		return "", err
	}

	s.dispatcher.Deliver(ctx, notification, pro.Email)

	logger.CtxInfo(ctx, "proposal accepted",
		"proposal_id", proposal.ID,
		"job_id", job.ID,
		"conversation_id", conversation.ID,
	)
	return conversation.ID, nil
}

// WithdrawProposal - специалист отзывает свой отклик, пока он не рассмотрен
func (s *ProposalServiceImpl) WithdrawProposal(ctx context.Context, db *gorm.DB, viewer dto.Viewer, proposalID string) error {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		if errors.Is(err, repositories.ErrProposalNotFound) {
			return apperrors.ErrProposalNotFound
		}
		return apperrors.InternalError(err)
	}
	if proposal.ProID != viewer.ProfileID {
		return apperrors.ErrNotProposalOwner
	}
	if proposal.Status != models.ProposalStatusPending {
		return apperrors.ErrProposalNotPending
	}

	return runTx(ctx, db, "proposal", func(tx *gorm.DB) error {
		deleted, err := s.proposalRepo.DeletePending(tx, proposal.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrProposalNotPending
		}
		return s.jobRepo.DecrementProposals(tx, proposal.JobID)
	})
}
