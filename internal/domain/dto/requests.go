package dto

import (
	"github.com/quillsign/quillsign/internal/domain/services"
)

// Authentication DTOs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  services.Identity `json:"user"`
}

// Document DTOs
type CreateDocumentRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	TotalPages int    `json:"total_pages" binding:"required,min=1"`
}

// Recipient DTOs
type AssignRecipientsRequest struct {
	Rows        []RecipientRowRequest `json:"rows" binding:"required"`
	Comment     string                `json:"comment"`
	SignInOrder bool                  `json:"sign_in_order"`
}

type RecipientRowRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"signee_type"`
}

type ReorderRecipientsRequest struct {
	Order []int `json:"order" binding:"required"`
}

// Field DTOs
type PlaceFieldRequest struct {
	Type     string       `json:"type" binding:"required"`
	Page     int          `json:"page"`
	Assignee string       `json:"assignee" binding:"required"`
	Canvas   CanvasDTO    `json:"canvas" binding:"required"`
	Viewport ViewportDTO  `json:"viewport"`
	Rect     *PixelRectDTO `json:"rect,omitempty"`

	Text      string `json:"text,omitempty"`
	Color     string `json:"color,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

type CanvasDTO struct {
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

type ViewportDTO struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

type PixelRectDTO struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Signing session DTOs
type OpenSessionRequest struct {
	DocumentID string `json:"document_id" binding:"required,uuid"`
}

type TapElementRequest struct {
	FieldID string `json:"field_id" binding:"required,uuid"`
}

type CaptureRequest struct {
	Artifact string `json:"artifact" binding:"required"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type TextEntryRequest struct {
	Text string `json:"text"`
}

type SessionAuthRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionStepResponse struct {
	State   string                   `json:"state"`
	Session *services.SigningSession `json:"session"`
}

// Reason DTOs
type AddReasonRequest struct {
	Text string `json:"text" binding:"required"`
}
