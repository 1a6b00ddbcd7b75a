package identity

import (
	"context"
	"errors"

	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/models"

	"gorm.io/gorm"
)

// ErrProfileNotFound - у принципала еще нет профиля
var ErrProfileNotFound = errors.New("profile not found for principal")

// ProfileResolver сопоставляет принципала провайдера с внутренним профилем.
// Второй шаг существует только для профилей, созданных до перехода на
// внешнего провайдера (без external_id), и может быть удален вместе с ними.
type ProfileResolver interface {
	ResolveByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*models.Profile, error)
	ResolveByEmailFallback(ctx context.Context, db *gorm.DB, p *Principal) (*models.Profile, error)
}

// ProfileStore - то, что резолверу нужно от хранилища профилей
type ProfileStore interface {
	FindByExternalID(db *gorm.DB, externalID string) (*models.Profile, error)
	FindLegacyByEmail(db *gorm.DB, email string) (*models.Profile, error)
	LinkExternalID(db *gorm.DB, profileID, externalID string) error
}

type profileResolver struct {
	store    ProfileStore
	notFound error
}

// NewProfileResolver; notFound - sentinel, который store возвращает для отсутствующей записи
func NewProfileResolver(store ProfileStore, notFound error) ProfileResolver {
	return &profileResolver{store: store, notFound: notFound}
}

func (r *profileResolver) ResolveByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*models.Profile, error) {
	profile, err := r.store.FindByExternalID(db, externalID)
	if err != nil {
		if errors.Is(err, r.notFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ResolveByEmailFallback находит legacy-профиль по email и привязывает к нему external_id
func (r *profileResolver) ResolveByEmailFallback(ctx context.Context, db *gorm.DB, p *Principal) (*models.Profile, error) {
	if p.Email == "" {
		return nil, ErrProfileNotFound
	}
	profile, err := r.store.FindLegacyByEmail(db, p.Email)
	if err != nil {
		if errors.Is(err, r.notFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if err := r.store.LinkExternalID(db, profile.ID, p.ExternalID); err != nil {
		return nil, err
	}
	external := p.ExternalID
	profile.ExternalID = &external

	logger.CtxInfo(ctx, "legacy profile linked to identity provider", "profile_id", profile.ID)
	return profile, nil
}

// Resolve - сначала по external_id, затем по email
func Resolve(ctx context.Context, db *gorm.DB, r ProfileResolver, p *Principal) (*models.Profile, error) {
	profile, err := r.ResolveByExternalID(ctx, db, p.ExternalID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	return r.ResolveByEmailFallback(ctx, db, p)
}
