package handlers

import (
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"
	"masterhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
	reviewService  services.ReviewService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService, reviewService services.ReviewService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
		reviewService:  reviewService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	// создание профиля доступно принципалу без профиля
	r.POST("/profiles/me", g.Authenticate, g.ProfileBootstrapLimit, h.CreateProfile)

	me := r.Group("/profiles/me", g.Authed()...)
	{
		me.GET("", h.GetMyProfile)
		me.PATCH("", h.UpdateMyProfile)
		me.POST("/avatar", h.UploadAvatar)
	}

	pros := r.Group("/pros", g.OptionalProfile)
	{
		pros.GET("", h.ListPros)
		pros.GET("/:id", h.GetPro)
		pros.GET("/:id/reviews", h.ListProReviews)
	}
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	var req dto.CreateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), h.GetDB(c), principal, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, profile)
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyProfile(c.Request.Context(), h.GetDB(c), viewer)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateMyProfile(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart field 'avatar' is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	resp, err := h.profileService.UploadAvatar(c.Request.Context(), h.GetDB(c), viewer, services.AvatarFile{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *ProfileHandler) ListPros(c *gin.Context) {
	var req dto.ProSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	pros, err := h.profileService.ListPros(c.Request.Context(), h.GetDB(c), h.OptionalViewer(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, pros)
}

func (h *ProfileHandler) GetPro(c *gin.Context) {
	proID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	pro, err := h.profileService.GetPro(c.Request.Context(), h.GetDB(c), h.OptionalViewer(c), proID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, pro)
}

func (h *ProfileHandler) ListProReviews(c *gin.Context) {
	proID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.PaginationRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	reviews, err := h.reviewService.ListProReviews(c.Request.Context(), h.GetDB(c), h.OptionalViewer(c), proID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, reviews)
}
