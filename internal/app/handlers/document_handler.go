package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/domain/dto"
	"github.com/quillsign/quillsign/internal/domain/services"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

// DocumentHandler serves the dashboard, manage view, field placement and
// recipient assignment.
type DocumentHandler struct {
	*BaseHandler
	documentService  *services.DocumentService
	recipientService *services.RecipientService
}

func NewDocumentHandler(documentService *services.DocumentService, recipientService *services.RecipientService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:      NewBaseHandler(),
		documentService:  documentService,
		recipientService: recipientService,
	}
}

// List returns the caller's documents with derived status and actions
func (h *DocumentHandler) List(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	views, err := h.documentService.ListForUser(c.Request.Context(), identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	if limit := h.ParsePageSize(c); limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	h.RespondSuccess(c, views)
}

// ManageList returns the manage view: no foreign drafts
func (h *DocumentHandler) ManageList(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	views, err := h.documentService.ManageList(c.Request.Context(), identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	if limit := h.ParsePageSize(c); limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	h.RespondSuccess(c, views)
}

// Stats returns the dashboard counters
func (h *DocumentHandler) Stats(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	stats, err := h.documentService.Stats(c.Request.Context(), identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, stats)
}

// Create registers an uploaded document as a draft
func (h *DocumentHandler) Create(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid document payload", err.Error())
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), req.Name, identity, req.TotalPages)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondCreated(c, doc)
}

// Get returns one document
func (h *DocumentHandler) Get(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), id, identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, doc)
}

// Delete removes a document
func (h *DocumentHandler) Delete(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id, identity); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "document deleted"})
}

// Actions evaluates the caller's action menu for one document
func (h *DocumentHandler) Actions(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	actions, err := h.documentService.Actions(c.Request.Context(), id, identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"actions": actions})
}

// Pages returns the rendered page images in order
func (h *DocumentHandler) Pages(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	pages, err := h.documentService.Pages(c.Request.Context(), id, identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, pages)
}

// Events returns the document's audit feed
func (h *DocumentHandler) Events(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	events, err := h.documentService.Events(c.Request.Context(), id, identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, events)
}

// Resend re-notifies pending signees
func (h *DocumentHandler) Resend(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	if err := h.documentService.Resend(c.Request.Context(), id, identity); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "signature request resent"})
}

// AssignRecipients replaces the signee list and sends the document
func (h *DocumentHandler) AssignRecipients(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	var req dto.AssignRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid recipients payload", err.Error())
		return
	}

	assignment := services.Assignment{
		Comment:     req.Comment,
		SignInOrder: req.SignInOrder,
	}
	for _, row := range req.Rows {
		assignment.Rows = append(assignment.Rows, services.RecipientRow{
			Name:  row.Name,
			Email: row.Email,
			Type:  models.SigneeType(row.Type),
		})
	}

	doc, err := h.recipientService.Assign(c.Request.Context(), id, assignment)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, doc)
}

// ListFields returns the document's placed fields
func (h *DocumentHandler) ListFields(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	fields, err := h.documentService.Fields(c.Request.Context(), id, identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, fields)
}

// PlaceField drops a field on the document
func (h *DocumentHandler) PlaceField(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}

	var req dto.PlaceFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid field payload", err.Error())
		return
	}

	placement := services.PlacementRequest{
		Type:      models.FieldType(req.Type),
		Page:      req.Page,
		Assignee:  req.Assignee,
		Canvas:    services.Canvas{Width: req.Canvas.Width, Height: req.Canvas.Height},
		Viewport:  services.Viewport{Top: req.Viewport.Top, Bottom: req.Viewport.Bottom},
		Text:      req.Text,
		Color:     req.Color,
		Bold:      req.Bold,
		Italic:    req.Italic,
		Underline: req.Underline,
	}
	if req.Rect != nil {
		placement.Rect = &services.PixelRect{
			X: req.Rect.X, Y: req.Rect.Y,
			Width: req.Rect.Width, Height: req.Rect.Height,
		}
	}

	field, err := h.documentService.AddField(c.Request.Context(), id, identity, placement)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondCreated(c, field)
}

// RemoveField deletes a placed field
func (h *DocumentHandler) RemoveField(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "document id", c.Param("id"))
	if !ok {
		return
	}
	fieldID, ok := h.ValidateUUID(c, "field id", c.Param("fieldId"))
	if !ok {
		return
	}

	if err := h.documentService.RemoveField(c.Request.Context(), id, fieldID, identity); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "field removed"})
}
