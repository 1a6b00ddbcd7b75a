package services

import (
	"context"

	"masterhub_backend/internal/models"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AdminService interface {
	GetStats(ctx context.Context, db *gorm.DB) (*dto.PlatformStats, error)
	ListProfiles(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.AdminProfilesRequest) (*dto.PaginatedResponse, error)
	UpdateRole(ctx context.Context, db *gorm.DB, viewer dto.Viewer, profileID string, role models.UserRole) (*dto.ProfileResponse, error)
}

type AdminServiceImpl struct {
	profileRepo      repositories.ProfileRepository
	jobRepo          repositories.JobRepository
	proposalRepo     repositories.ProposalRepository
	reviewRepo       repositories.ReviewRepository
	conversationRepo repositories.ConversationRepository
}

func NewAdminService(
	profileRepo repositories.ProfileRepository,
	jobRepo repositories.JobRepository,
	proposalRepo repositories.ProposalRepository,
	reviewRepo repositories.ReviewRepository,
	conversationRepo repositories.ConversationRepository,
) AdminService {
	return &AdminServiceImpl{
		profileRepo:      profileRepo,
		jobRepo:          jobRepo,
		proposalRepo:     proposalRepo,
		reviewRepo:       reviewRepo,
		conversationRepo: conversationRepo,
	}
}

func (s *AdminServiceImpl) GetStats(ctx context.Context, db *gorm.DB) (*dto.PlatformStats, error) {
	var stats dto.PlatformStats

	byRole, err := s.profileRepo.CountByRole(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byStatus, err := s.jobRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.Proposals, err = s.proposalRepo.Count(db); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.Reviews, err = s.reviewRepo.Count(db); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.Messages, err = s.conversationRepo.CountMessages(db); err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats.ProfilesByRole = make(map[string]int64, len(byRole))
	for role, n := range byRole {
		stats.ProfilesByRole[string(role)] = n
	}
	stats.JobsByStatus = make(map[string]int64, len(byStatus))
	for status, n := range byStatus {
		stats.JobsByStatus[string(status)] = n
	}
	return &stats, nil
}

func (s *AdminServiceImpl) ListProfiles(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.AdminProfilesRequest) (*dto.PaginatedResponse, error) {
	pagination, page, size := pageOf(req.PaginationRequest)
	profiles, total, err := s.profileRepo.List(db, repositories.ProfileFilter{Role: models.UserRole(req.Role)}, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, toProfileResponse(&profiles[i], viewer.LocaleOrDefault(), true))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}

// UpdateRole меняет роль профиля; новому специалисту заводится ProProfile
func (s *AdminServiceImpl) UpdateRole(ctx context.Context, db *gorm.DB, viewer dto.Viewer, profileID string, role models.UserRole) (*dto.ProfileResponse, error) {
	if !role.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Must be a valid role"})
	}
	if profileID == viewer.ProfileID {
		return nil, apperrors.ErrInvalidOperation("profile", "Cannot change your own role")
	}

	profile, err := loadProfile(db, s.profileRepo, profileID)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, db, "profile", func(tx *gorm.DB) error {
		if err := s.profileRepo.UpdateRole(tx, profile.ID, role); err != nil {
			return err
		}
		if role == models.UserRolePro {
			return s.profileRepo.UpsertProProfile(tx, &models.ProProfile{ProfileID: profile.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := loadProfile(db, s.profileRepo, profile.ID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(updated, viewer.LocaleOrDefault(), true), nil
}
