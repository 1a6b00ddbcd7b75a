package handlers

import (
	"masterhub_backend/internal/middleware"
	"masterhub_backend/internal/models"
	"masterhub_backend/internal/services"
	"masterhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	jobs := r.Group("/jobs/:id/proposals", g.Authed()...)
	{
		jobs.POST("", middleware.RequireRoles(models.UserRolePro), h.SubmitProposal)
		jobs.GET("", h.ListJobProposals)
	}

	proposals := r.Group("/proposals", g.Authed()...)
	{
		proposals.GET("/mine", middleware.RequireRoles(models.UserRolePro), h.ListMyProposals)
		proposals.POST("/:id/accept", h.AcceptProposal)
		proposals.DELETE("/:id", h.WithdrawProposal)
	}
}

func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	jobID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.SubmitProposal(c.Request.Context(), h.GetDB(c), viewer, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, proposal)
}

func (h *ProposalHandler) ListJobProposals(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	jobID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.PaginationRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	proposals, err := h.proposalService.ListJobProposals(c.Request.Context(), h.GetDB(c), viewer, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, proposals)
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	var req dto.ProposalListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	proposals, err := h.proposalService.ListMyProposals(c.Request.Context(), h.GetDB(c), viewer, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, proposals)
}

// AcceptProposal - принимать может только клиент-владелец заказа (администратор тоже нет)
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	proposalID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	conversationID, err := h.proposalService.AcceptProposal(c.Request.Context(), h.GetDB(c), proposalID, viewer.ProfileID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.AcceptProposalResponse{ConversationID: conversationID})
}

func (h *ProposalHandler) WithdrawProposal(c *gin.Context) {
	viewer, ok := h.GetViewer(c)
	if !ok {
		return
	}
	proposalID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.proposalService.WithdrawProposal(c.Request.Context(), h.GetDB(c), viewer, proposalID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"deleted": true})
}
