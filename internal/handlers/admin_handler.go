package handlers

import (
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	admin := r.Group("/admin", g.Authed()...)
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/stats", h.GetStats)
		admin.GET("/profiles", h.ListProfiles)
		admin.PATCH("/profiles/:id/role", h.UpdateRole)
	}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, stats)
}

func (h *AdminHandler) ListProfiles(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.AdminProfilesRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	profiles, err := h.adminService.ListProfiles(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profiles)
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	profileID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.adminService.UpdateRole(c.Request.Context(), h.GetDB(c), viewer, profileID, req.Role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}
