package handlers

import (
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

// RegisterRoutes; список отзывов специалиста живет в ProfileHandler (/pros/:id/reviews)
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	reviews := r.Group("/reviews", g.Authed()...)
	{
		reviews.POST("", middleware.RequireRoles(models.UserRoleClient), h.CreateReview)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, review)
}
