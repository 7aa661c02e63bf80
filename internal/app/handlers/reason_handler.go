package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/domain/dto"
	"github.com/quillsign/quillsign/internal/domain/services"
)

// ReasonHandler manages the reasons-to-sign list
type ReasonHandler struct {
	*BaseHandler
	reasonService *services.ReasonService
}

func NewReasonHandler(reasonService *services.ReasonService) *ReasonHandler {
	return &ReasonHandler{
		BaseHandler:   NewBaseHandler(),
		reasonService: reasonService,
	}
}

// List returns the primary and other sub-lists
func (h *ReasonHandler) List(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}

	reasons, err := h.reasonService.List(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, reasons)
}

// Add stores a custom reason in the other sub-list
func (h *ReasonHandler) Add(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}

	var req dto.AddReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid reason payload", err.Error())
		return
	}

	if err := h.reasonService.Add(c.Request.Context(), req.Text); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondCreated(c, gin.H{"message": "reason added"})
}

// Delete removes a custom reason
func (h *ReasonHandler) Delete(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}

	text := c.Query("text")
	if text == "" {
		h.RespondBadRequest(c, "text query parameter is required")
		return
	}

	if err := h.reasonService.Delete(c.Request.Context(), text); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "reason removed"})
}
