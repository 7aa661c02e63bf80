package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/domain/dto"
	"github.com/quillsign/quillsign/internal/domain/services"
)

// SessionHandler drives the signing session flow
type SessionHandler struct {
	*BaseHandler
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(),
		sessionService: sessionService,
	}
}

// Open starts a signing session for a document
func (h *SessionHandler) Open(c *gin.Context) {
	identity, ok := h.AuthenticateUser(c)
	if !ok {
		return
	}

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid session payload", err.Error())
		return
	}
	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		h.RespondBadRequest(c, "Invalid document id format")
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), documentID, identity)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondCreated(c, session)
}

// Get returns the live session state
func (h *SessionHandler) Get(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}
	sessionID, ok := h.ValidateUUID(c, "session id", c.Param("id"))
	if !ok {
		return
	}

	session, err := h.sessionService.Get(sessionID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, session)
}

// Tap starts the flow for one element
func (h *SessionHandler) Tap(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	var req dto.TapElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid tap payload", err.Error())
		return
	}
	fieldID, err := uuid.Parse(req.FieldID)
	if err != nil {
		h.RespondBadRequest(c, "Invalid field id format")
		return
	}

	state, err := h.sessionService.Tap(sessionID, fieldID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.respondStep(c, sessionID, state)
}

// Capture supplies the drawn signature or initials
func (h *SessionHandler) Capture(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	var req dto.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid capture payload", err.Error())
		return
	}

	state, err := h.sessionService.Capture(sessionID, req.Artifact)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.respondStep(c, sessionID, state)
}

// Reason supplies the reason to sign
func (h *SessionHandler) Reason(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid reason payload", err.Error())
		return
	}

	state, err := h.sessionService.Reason(c.Request.Context(), sessionID, req.Reason)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.respondStep(c, sessionID, state)
}

// Text completes a text element
func (h *SessionHandler) Text(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	var req dto.TextEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid text payload", err.Error())
		return
	}

	state, err := h.sessionService.EnterText(sessionID, req.Text)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.respondStep(c, sessionID, state)
}

// Authenticate completes the pending element after a credential check
func (h *SessionHandler) Authenticate(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	var req dto.SessionAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBadRequest(c, "Invalid auth payload", err.Error())
		return
	}

	state, err := h.sessionService.Authenticate(sessionID, req.Email, req.Password)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.respondStep(c, sessionID, state)
}

// Cancel aborts the pending element flow
func (h *SessionHandler) Cancel(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	if err := h.sessionService.Cancel(sessionID); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.respondStep(c, sessionID, services.ElementUnsigned)
}

// Next advances to the next element
func (h *SessionHandler) Next(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Next(sessionID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, session)
}

// Finish closes the session and persists the signed entry
func (h *SessionHandler) Finish(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	if err := h.sessionService.Finish(c.Request.Context(), sessionID); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "document signed"})
}

// Abandon drops the session without persisting anything
func (h *SessionHandler) Abandon(c *gin.Context) {
	sessionID, ok := h.sessionFromPath(c)
	if !ok {
		return
	}

	if err := h.sessionService.Abandon(sessionID); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "session abandoned"})
}

func (h *SessionHandler) sessionFromPath(c *gin.Context) (uuid.UUID, bool) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return uuid.Nil, false
	}
	sessionID, ok := h.ValidateUUID(c, "session id", c.Param("id"))
	if !ok {
		return uuid.Nil, false
	}
	return sessionID, true
}

func (h *SessionHandler) respondStep(c *gin.Context, sessionID uuid.UUID, state services.ElementState) {
	session, err := h.sessionService.Get(sessionID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, dto.SessionStepResponse{State: string(state), Session: session})
}
