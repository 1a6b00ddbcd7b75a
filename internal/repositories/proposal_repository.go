package repositories

import (
	"time"

	"masterhub_backend/internal/models"

	"gorm.io/gorm"
)

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.Proposal) error
	FindByID(db *gorm.DB, id string) (*models.Proposal, error)
	ListByJob(db *gorm.DB, jobID, proID string, page Pagination) ([]models.Proposal, int64, error)
	ListByPro(db *gorm.DB, proID string, status models.ProposalStatus, page Pagination) ([]models.Proposal, int64, error)
	Accept(db *gorm.DB, id string) (bool, error)
	RejectSiblings(db *gorm.DB, jobID, acceptedID string) (int64, error)
	FindAccepted(db *gorm.DB, jobID string) (*models.Proposal, error)
	HasAcceptedForPro(db *gorm.DB, jobID, proID string) (bool, error)
	DeletePending(db *gorm.DB, id string) (bool, error)
	Count(db *gorm.DB) (int64, error)
}

type ProposalRepositoryImpl struct{}

func NewProposalRepository() ProposalRepository {
	return &ProposalRepositoryImpl{}
}

func (r *ProposalRepositoryImpl) Create(db *gorm.DB, proposal *models.Proposal) error {
	return uniqueOr(db.Create(proposal).Error, ErrProposalExists)
}

func (r *ProposalRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrProposalNotFound)
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) ListByJob(db *gorm.DB, jobID, proID string, page Pagination) ([]models.Proposal, int64, error) {
	query := db.Model(&models.Proposal{}).Where("job_id = ?", jobID)
	if proID != "" {
		query = query.Where("pro_id = ?", proID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proposals []models.Proposal
	err := page.apply(query.Preload("Pro.Pro").Order("created_at ASC")).Find(&proposals).Error
	return proposals, total, err
}

func (r *ProposalRepositoryImpl) ListByPro(db *gorm.DB, proID string, status models.ProposalStatus, page Pagination) ([]models.Proposal, int64, error) {
	query := db.Model(&models.Proposal{}).Where("pro_id = ?", proID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proposals []models.Proposal
	err := page.apply(query.Preload("Job").Order("created_at DESC")).Find(&proposals).Error
	return proposals, total, err
}

// Accept переводит отклик pending -> accepted. false означает, что отклик уже не pending.
func (r *ProposalRepositoryImpl) Accept(db *gorm.DB, id string) (bool, error) {
	res := db.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":     models.ProposalStatusAccepted,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RejectSiblings отклоняет все остальные pending-отклики на заказ
func (r *ProposalRepositoryImpl) RejectSiblings(db *gorm.DB, jobID, acceptedID string) (int64, error) {
	res := db.Model(&models.Proposal{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, acceptedID, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":     models.ProposalStatusRejected,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *ProposalRepositoryImpl) FindAccepted(db *gorm.DB, jobID string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Where("job_id = ? AND status = ?", jobID, models.ProposalStatusAccepted).
		First(&proposal).Error
	if err != nil {
		return nil, notFound(err, ErrProposalNotFound)
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) HasAcceptedForPro(db *gorm.DB, jobID, proID string) (bool, error) {
	var count int64
	err := db.Model(&models.Proposal{}).
		Where("job_id = ? AND pro_id = ? AND status = ?", jobID, proID, models.ProposalStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// DeletePending удаляет отклик, пока он еще не рассмотрен
func (r *ProposalRepositoryImpl) DeletePending(db *gorm.DB, id string) (bool, error) {
	res := db.Where("id = ? AND status = ?", id, models.ProposalStatusPending).Delete(&models.Proposal{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ProposalRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Proposal{}).Count(&count).Error
	return count, err
}
