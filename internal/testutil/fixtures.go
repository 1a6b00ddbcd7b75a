package testutil

import (
	"fmt"
	"testing"
	"time"

	"masterhub_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProfile создает профиль с указанной ролью; для pro заводится ProProfile
func CreateProfile(t *testing.T, db *gorm.DB, role models.UserRole, locale string) *models.Profile {
	t.Helper()

	if locale == "" {
		locale = "en"
	}
	externalID := "ext-" + uuid.NewString()
	profile := &models.Profile{
		ExternalID:  &externalID,
		Email:       fmt.Sprintf("%s_%s@test.com", role, uuid.NewString()[:8]),
		DisplayName: fmt.Sprintf("Test %s", role),
		Role:        role,
		Locale:      locale,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Не удалось создать профиль: %v", err)
	}

	if role == models.UserRolePro {
		pro := &models.ProProfile{ProfileID: profile.ID, Bio: "Experienced master"}
		if err := db.Create(pro).Error; err != nil {
			t.Fatalf("Не удалось создать профиль специалиста: %v", err)
		}
		profile.Pro = pro
	}
	return profile
}

func CreateCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		Slug:     slug,
		Name:     "Category " + slug,
		Names:    models.TranslationMap{"en": "Category " + slug, "ru": "Категория " + slug},
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Не удалось создать категорию: %v", err)
	}
	return category
}

// CreateJob создает открытый заказ клиента
func CreateJob(t *testing.T, db *gorm.DB, clientID, categoryID string) *models.Job {
	t.Helper()

	expires := time.Now().Add(24 * time.Hour).UTC()
	job := &models.Job{
		ClientID:          clientID,
		CategoryID:        categoryID,
		Title:             "Fix the kitchen sink",
		Description:       "The sink is leaking, need a plumber this week",
		TitleTranslations: models.TranslationMap{"en": "Fix the kitchen sink", "ru": "Починить раковину"},
		OriginalLanguage:  "en",
		Status:            models.JobStatusOpen,
		ExpiresAt:         &expires,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Не удалось создать заказ: %v", err)
	}
	return job
}

// CreateProposal создает отклик в статусе pending и увеличивает счетчик заказа
func CreateProposal(t *testing.T, db *gorm.DB, jobID, proID string) *models.Proposal {
	t.Helper()

	proposal := &models.Proposal{
		JobID:            jobID,
		ProID:            proID,
		Message:          "I can do it tomorrow",
		OriginalLanguage: "en",
		Price:            100,
		PriceType:        models.PriceTypeFixed,
		Status:           models.ProposalStatusPending,
	}
	if err := db.Create(proposal).Error; err != nil {
		t.Fatalf("Не удалось создать отклик: %v", err)
	}
	err := db.Model(&models.Job{}).Where("id = ?", jobID).
		UpdateColumn("proposals_count", gorm.Expr("proposals_count + 1")).Error
	if err != nil {
		t.Fatalf("Не удалось обновить счетчик откликов: %v", err)
	}
	return proposal
}

// SetJobStatus переводит заказ в нужный статус в обход бизнес-правил
func SetJobStatus(t *testing.T, db *gorm.DB, jobID string, status models.JobStatus) {
	t.Helper()
	if err := db.Model(&models.Job{}).Where("id = ?", jobID).Update("status", status).Error; err != nil {
		t.Fatalf("Не удалось сменить статус заказа: %v", err)
	}
}

// AcceptDirectly помечает отклик принятым в обход бизнес-правил
func AcceptDirectly(t *testing.T, db *gorm.DB, proposalID string) {
	t.Helper()
	err := db.Model(&models.Proposal{}).Where("id = ?", proposalID).
		Update("status", models.ProposalStatusAccepted).Error
	if err != nil {
		t.Fatalf("Не удалось принять отклик: %v", err)
	}
}
