package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"masterhub_backend/internal/cache"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/repositories"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/internal/testutil"
	"masterhub_backend/internal/translation"

	"gorm.io/gorm"
)

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	pusher     *testutil.RecordingPusher
	mailer     *testutil.RecordingMailer
	translator *testutil.FakeTranslator
	dispatcher *notifications.Dispatcher
	categories *cache.Value[[]models.Category]
	notes      *flakyNotifications

	profiles      ProfileService
	categorySvc   CategoryService
	jobs          JobService
	proposals     ProposalService
	reviews       ReviewService
	chat          ChatService
	notifications NotificationService
	admin         AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:        context.Background(),
		db:         testutil.NewDB(t),
		pusher:     testutil.NewRecordingPusher(),
		mailer:     &testutil.RecordingMailer{},
		translator: &testutil.FakeTranslator{},
		categories: cache.NewValue[[]models.Category](time.Minute),
	}
	f.dispatcher = notifications.NewDispatcher(f.pusher, f.mailer)
	translator := translation.NewService(f.translator)

	profileRepo := repositories.NewProfileRepository()
	categoryRepo := repositories.NewCategoryRepository()
	jobRepo := repositories.NewJobRepository()
	proposalRepo := repositories.NewProposalRepository()
	conversationRepo := repositories.NewConversationRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := &flakyNotifications{NotificationRepository: repositories.NewNotificationRepository()}
	f.notes = notificationRepo

	f.profiles = NewProfileService(profileRepo, categoryRepo, translator, nil, UploadPolicy{}, []string{"boss@test.com"})
	f.categorySvc = NewCategoryService(categoryRepo, f.categories)
	f.jobs = NewJobService(jobRepo, categoryRepo, proposalRepo, profileRepo, notificationRepo, translator, f.dispatcher, 720*time.Hour)
	f.proposals = NewProposalService(proposalRepo, jobRepo, profileRepo, conversationRepo, notificationRepo, translator, f.dispatcher)
	f.reviews = NewReviewService(reviewRepo, jobRepo, proposalRepo, profileRepo, notificationRepo, translator, f.dispatcher)
	f.chat = NewChatService(conversationRepo, profileRepo, notificationRepo, translator, f.dispatcher)
	f.notifications = NewNotificationService(notificationRepo)
	f.admin = NewAdminService(profileRepo, jobRepo, proposalRepo, reviewRepo, conversationRepo)
	return f
}

const testWait = 2 * time.Second

var errNotificationStore = errors.New("notification store unavailable")

// flakyNotifications - хранилище уведомлений, у которого можно сломать Create,
// чтобы уронить последний шаг атомарного блока.
type flakyNotifications struct {
	repositories.NotificationRepository
	failCreate atomic.Bool
}

func (r *flakyNotifications) Create(db *gorm.DB, notification *models.Notification) error {
	if r.failCreate.Load() {
		return errNotificationStore
	}
	return r.NotificationRepository.Create(db, notification)
}

func viewerOf(p *models.Profile) dto.Viewer {
	return dto.Viewer{ProfileID: p.ID, Role: p.Role, Locale: p.Locale}
}

func (f *fixture) reloadJob(t *testing.T, id string) *models.Job {
	t.Helper()
	var job models.Job
	if err := f.db.First(&job, "id = ?", id).Error; err != nil {
		t.Fatalf("Не удалось перечитать заказ: %v", err)
	}
	return &job
}

func (f *fixture) reloadProposal(t *testing.T, id string) *models.Proposal {
	t.Helper()
	var p models.Proposal
	if err := f.db.First(&p, "id = ?", id).Error; err != nil {
		t.Fatalf("Не удалось перечитать отклик: %v", err)
	}
	return &p
}

func (f *fixture) reloadPro(t *testing.T, profileID string) *models.ProProfile {
	t.Helper()
	var p models.ProProfile
	if err := f.db.First(&p, "profile_id = ?", profileID).Error; err != nil {
		t.Fatalf("Не удалось перечитать профиль специалиста: %v", err)
	}
	return &p
}

func (f *fixture) notificationsFor(t *testing.T, userID string) []models.Notification {
	t.Helper()
	var out []models.Notification
	if err := f.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&out).Error; err != nil {
		t.Fatalf("Не удалось прочитать уведомления: %v", err)
	}
	return out
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("Не удалось посчитать записи: %v", err)
	}
	return n
}
