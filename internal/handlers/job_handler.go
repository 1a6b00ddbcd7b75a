package handlers

import (
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	public := r.Group("/jobs", g.OptionalProfile)
	{
		public.GET("", h.ListJobs)
		public.GET("/:id", h.GetJob)
	}

	jobs := r.Group("/jobs", g.Authed()...)
	{
		jobs.POST("", middleware.RequireRoles(models.UserRoleClient), g.JobCreateLimit, h.CreateJob)
		jobs.GET("/mine", h.ListMyJobs)
		jobs.PATCH("/:id", h.UpdateJob)
		jobs.DELETE("/:id", h.DeleteJob)
		jobs.PATCH("/:id/status", h.UpdateStatus)
	}

	admin := r.Group("/admin/jobs", g.Authed()...)
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAllJobs)
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.JobSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), h.GetDB(c), h.OptionalViewer(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, jobs)
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.JobSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	jobs, err := h.jobService.ListMyJobs(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, jobs)
}

func (h *JobHandler) ListAllJobs(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.JobSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	jobs, err := h.jobService.ListAllJobs(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), h.OptionalViewer(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	jobID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), h.GetDB(c), viewer, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	jobID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), viewer, jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"deleted": true})
}

func (h *JobHandler) UpdateStatus(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	jobID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateJobStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.SetStatus(c.Request.Context(), h.GetDB(c), viewer, jobID, req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}
