package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/identity"
	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/storage"
	"masterhub_backend/internal/translation"
	"masterhub_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	CreateProfile(ctx context.Context, db *gorm.DB, principal *identity.Principal, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error)
	GetMyProfile(ctx context.Context, db *gorm.DB, viewer dto.Viewer) (*dto.ProfileResponse, error)
	UpdateMyProfile(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, db *gorm.DB, viewer dto.Viewer, file AvatarFile) (*dto.AvatarResponse, error)
	ListPros(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.ProSearchRequest) (*dto.PaginatedResponse, error)
	GetPro(ctx context.Context, db *gorm.DB, viewer dto.Viewer, proID string) (*dto.ProfileResponse, error)
}

// AvatarFile - загруженный файл аватара
type AvatarFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UploadPolicy - ограничения на загружаемые файлы
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

func (p UploadPolicy) allows(contentType string) bool {
	if len(p.AllowedTypes) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

type ProfileServiceImpl struct {
	profileRepo  repositories.ProfileRepository
	categoryRepo repositories.CategoryRepository
	translator   *translation.Service
	storage      storage.Storage
	uploads      UploadPolicy
	adminEmails  map[string]struct{}
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	categoryRepo repositories.CategoryRepository,
	translator *translation.Service,
	store storage.Storage,
	uploads UploadPolicy,
	adminEmails []string,
) ProfileService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &ProfileServiceImpl{
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		translator:   translator,
		storage:      store,
		uploads:      uploads,
		adminEmails:  admins,
	}
}

// CreateProfile создает профиль для аутентифицированного принципала (один раз)
func (s *ProfileServiceImpl) CreateProfile(ctx context.Context, db *gorm.DB, principal *identity.Principal, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	if principal == nil || principal.ExternalID == "" {
		return nil, apperrors.ErrInvalidToken
	}
	email := strings.ToLower(strings.TrimSpace(principal.Email))
	if email == "" {
		return nil, apperrors.NewBadRequestError("Identity has no verified email")
	}

	if _, err := s.profileRepo.FindByExternalID(db, principal.ExternalID); err == nil {
		return nil, apperrors.ErrProfileAlreadyExists
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.InternalError(err)
	}

	role := req.Role
	if _, ok := s.adminEmails[email]; ok {
		role = models.UserRoleAdmin
	}
	locale := i18n.Normalize(req.Locale)
	if !i18n.IsSupported(locale) {
		locale = i18n.DefaultLocale
	}

	externalID := principal.ExternalID
	profile := &models.Profile{
		ExternalID:  &externalID,
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        role,
		Locale:      locale,
		City:        strings.TrimSpace(req.City),
	}

	err := runTx(ctx, db, "profile", func(tx *gorm.DB) error {
		if err := s.profileRepo.Create(tx, profile); err != nil {
			if errors.Is(err, repositories.ErrProfileAlreadyExists) {
				return apperrors.ErrProfileAlreadyExists
			}
			return err
		}
		if req.Role == models.UserRolePro {
			pro := &models.ProProfile{ProfileID: profile.ID}
			if err := s.profileRepo.UpsertProProfile(tx, pro); err != nil {
				return err
			}
			profile.Pro = pro
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "profile created", "profile_id", profile.ID, "role", profile.Role)
	return toProfileResponse(profile, locale, true), nil
}

func (s *ProfileServiceImpl) GetMyProfile(ctx context.Context, db *gorm.DB, viewer dto.Viewer) (*dto.ProfileResponse, error) {
	profile, err := loadProfile(db, s.profileRepo, viewer.ProfileID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(profile, viewer.LocaleOrDefault(), true), nil
}

func (s *ProfileServiceImpl) UpdateMyProfile(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := loadProfile(db, s.profileRepo, viewer.ProfileID)
	if err != nil {
		return nil, err
	}

	proFields := req.Bio != nil || req.HourlyRate != nil || req.CategoryID != nil
	if proFields && profile.Role != models.UserRolePro {
		return nil, apperrors.ErrProRoleRequired
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Locale != nil {
		updates["locale"] = i18n.Normalize(*req.Locale)
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}

	proUpdates := map[string]interface{}{}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			proUpdates["category_id"] = nil
		} else {
			if _, err := s.categoryRepo.FindActiveByID(db, *req.CategoryID); err != nil {
				if errors.Is(err, repositories.ErrCategoryNotFound) {
					return nil, apperrors.ErrCategoryNotFound
				}
				return nil, apperrors.InternalError(err)
			}
			proUpdates["category_id"] = *req.CategoryID
		}
	}
	if req.HourlyRate != nil {
		proUpdates["hourly_rate"] = *req.HourlyRate
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		content := s.translator.TranslateContent(ctx, bio)
		proUpdates["bio"] = bio
		proUpdates["bio_translations"] = models.TranslationMap(content.Translated)
		proUpdates["bio_language"] = content.OriginalLanguage
	}

	err = runTx(ctx, db, "profile", func(tx *gorm.DB) error {
		if err := s.profileRepo.Update(tx, profile.ID, updates); err != nil {
			return err
		}
		if len(proUpdates) == 0 {
			return nil
		}
		if err := s.profileRepo.UpsertProProfile(tx, &models.ProProfile{ProfileID: profile.ID}); err != nil {
			return err
		}
		return s.profileRepo.UpdateProProfile(tx, profile.ID, proUpdates)
	})
	if err != nil {
		return nil, err
	}

	updated, err := loadProfile(db, s.profileRepo, profile.ID)
	if err != nil {
		return nil, err
	}
	locale := updated.Locale
	if viewer.Locale != "" && req.Locale == nil {
		locale = viewer.Locale
	}
	return toProfileResponse(updated, locale, true), nil
}

func (s *ProfileServiceImpl) UploadAvatar(ctx context.Context, db *gorm.DB, viewer dto.Viewer, file AvatarFile) (*dto.AvatarResponse, error) {
	if s.storage == nil {
		return nil, apperrors.InternalError(errors.New("object storage is not configured"))
	}
	if s.uploads.MaxSize > 0 && file.Size > s.uploads.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !s.uploads.allows(file.ContentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	profile, err := loadProfile(db, s.profileRepo, viewer.ProfileID)
	if err != nil {
		return nil, err
	}

	key := storage.AvatarKey(profile.ID, uuid.NewString(), filepath.Ext(file.Filename))
	if err := s.storage.Save(ctx, key, file.Reader, file.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url := s.storage.URL(key)
	if err := s.profileRepo.Update(db, profile.ID, map[string]interface{}{"avatar_url": url}); err != nil {
		// файл без ссылки на него никому не нужен
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "failed to remove orphaned avatar", "key", key, "error", delErr.Error())
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.AvatarResponse{AvatarURL: url}, nil
}

func (s *ProfileServiceImpl) ListPros(ctx context.Context, db *gorm.DB, viewer dto.Viewer, req *dto.ProSearchRequest) (*dto.PaginatedResponse, error) {
	pagination, page, size := pageOf(req.PaginationRequest)
	filter := repositories.ProfileFilter{
		CategoryID: req.CategoryID,
		City:       req.City,
		MinRating:  req.MinRating,
	}

	profiles, total, err := s.profileRepo.ListPros(db, filter, pagination)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, toProfileResponse(&profiles[i], viewer.LocaleOrDefault(), viewer.IsAdmin()))
	}
	return dto.NewPaginatedResponse(items, total, page, size), nil
}

func (s *ProfileServiceImpl) GetPro(ctx context.Context, db *gorm.DB, viewer dto.Viewer, proID string) (*dto.ProfileResponse, error) {
	profile, err := loadProfile(db, s.profileRepo, proID)
	if err != nil {
		return nil, err
	}
	if profile.Role != models.UserRolePro || profile.Pro == nil {
		return nil, apperrors.ErrProfileNotFound
	}
	private := viewer.IsAdmin() || viewer.ProfileID == profile.ID
	return toProfileResponse(profile, viewer.LocaleOrDefault(), private), nil
}
