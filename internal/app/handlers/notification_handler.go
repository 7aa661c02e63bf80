package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/domain/services"
)

// NotificationHandler serves the notification feed and its lifecycle moves
type NotificationHandler struct {
	*BaseHandler
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(),
		notificationService: notificationService,
	}
}

// Feed returns both the new and seen partitions
func (h *NotificationHandler) Feed(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}

	feed, err := h.notificationService.Feed(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, feed)
}

// MarkSeen moves one notification from new to seen
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}
	id, ok := h.ValidateUUID(c, "notification id", c.Param("id"))
	if !ok {
		return
	}

	if err := h.notificationService.MarkSeen(id).Execute(c.Request.Context()); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, gin.H{"message": "notification marked as seen"})
}

// RemoveByDocument clears the document's new notifications and reports how
// many went away. Zero is success.
func (h *NotificationHandler) RemoveByDocument(c *gin.Context) {
	if _, ok := h.AuthenticateUser(c); !ok {
		return
	}
	documentID, ok := h.ValidateUUID(c, "document id", c.Param("documentId"))
	if !ok {
		return
	}

	receipt, err := h.notificationService.RemoveByDocument(c.Request.Context(), documentID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondSuccess(c, receipt)
}
