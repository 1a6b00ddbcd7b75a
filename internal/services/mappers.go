package services

import (
	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/notifications"
	"masterhub_backend/internal/services/dto"
)

func toJobResponse(job *models.Job, locale string) *dto.JobResponse {
	return &dto.JobResponse{
		ID:                  job.ID,
		ClientID:            job.ClientID,
		CategoryID:          job.CategoryID,
		Title:               i18n.Resolve(job.TitleTranslations, job.Title, locale),
		Description:         i18n.Resolve(job.DescriptionTranslations, job.Description, locale),
		OriginalTitle:       job.Title,
		OriginalDescription: job.Description,
		OriginalLanguage:    job.OriginalLanguage,
		Budget:              job.Budget,
		City:                job.City,
		Status:              job.Status,
		ProposalsCount:      job.ProposalsCount,
		ViewsCount:          job.ViewsCount,
		ExpiresAt:           job.ExpiresAt,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
	}
}

func toJobSummary(job *models.Job, locale string) *dto.JobSummary {
	if job == nil {
		return nil
	}
	return &dto.JobSummary{
		ID:     job.ID,
		Title:  i18n.Resolve(job.TitleTranslations, job.Title, locale),
		Status: job.Status,
	}
}

// toProfileResponse; email отдаем только владельцу и администраторам
func toProfileResponse(p *models.Profile, locale string, private bool) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProfileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		AvatarURL:   p.AvatarURL,
		City:        p.City,
		CreatedAt:   p.CreatedAt,
	}
	if private {
		resp.Email = p.Email
		resp.Locale = p.Locale
	}
	if p.Pro != nil {
		resp.Pro = &dto.ProResponse{
			Bio:           i18n.Resolve(p.Pro.BioTranslations, p.Pro.Bio, locale),
			BioOriginal:   p.Pro.Bio,
			BioLanguage:   p.Pro.BioLanguage,
			HourlyRate:    p.Pro.HourlyRate,
			CategoryID:    p.Pro.CategoryID,
			Rating:        p.Pro.Rating,
			ReviewsCount:  p.Pro.ReviewsCount,
			CompletedJobs: p.Pro.CompletedJobs,
		}
	}
	return resp
}

func toProposalResponse(p *models.Proposal, locale string) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		ID:               p.ID,
		JobID:            p.JobID,
		ProID:            p.ProID,
		Message:          i18n.Resolve(p.MessageTranslations, p.Message, locale),
		OriginalMessage:  p.Message,
		OriginalLanguage: p.OriginalLanguage,
		Price:            p.Price,
		PriceType:        p.PriceType,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		Pro:              toProfileResponse(p.Pro, locale, false),
		Job:              toJobSummary(p.Job, locale),
	}
}

func toMessageResponse(m *models.Message, locale string) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:               m.ID,
		ConversationID:   m.ConversationID,
		SenderID:         m.SenderID,
		Content:          i18n.Resolve(m.ContentTranslations, m.Content, locale),
		OriginalContent:  m.Content,
		OriginalLanguage: m.OriginalLanguage,
		IsRead:           m.IsRead,
		CreatedAt:        m.CreatedAt,
	}
}

func toReviewResponse(r *models.Review, locale string) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:               r.ID,
		JobID:            r.JobID,
		ReviewerID:       r.ReviewerID,
		ProID:            r.ProID,
		Rating:           r.Rating,
		OriginalLanguage: r.OriginalLanguage,
		CreatedAt:        r.CreatedAt,
	}
	if r.Comment != nil {
		original := *r.Comment
		resolved := i18n.Resolve(r.CommentTranslations, original, locale)
		resp.Comment = &resolved
		resp.OriginalComment = &original
	}
	return resp
}

func toCategoryResponse(c *models.Category, locale string, admin bool) dto.CategoryResponse {
	resp := dto.CategoryResponse{
		ID:        c.ID,
		Slug:      c.Slug,
		Name:      i18n.Resolve(c.Names, c.Name, locale),
		Icon:      c.Icon,
		SortOrder: c.SortOrder,
		IsActive:  c.IsActive,
	}
	if admin {
		resp.Names = c.Names
	}
	return resp
}

func toNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if payload, err := notifications.Decode(n.Type, n.Data); err == nil {
		resp.Data = payload
	} else if len(n.Data) > 0 {
		resp.Data = n.Data
	}
	return resp
}
