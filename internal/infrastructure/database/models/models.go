package models

import (
	"time"

	"github.com/google/uuid"
)

// Custom Types
type DocStatus string
type SigneeType string
type FieldType string
type NotificationType string
type NotificationState string
type ReasonKind string

const (
	// Document Status
	DocStatusDraft     DocStatus = "Draft"
	DocStatusSent      DocStatus = "Sent for signature"
	DocStatusCompleted DocStatus = "Completed"

	// Signee Types
	SigneeAuthor   SigneeType = "Author"
	SigneeApprover SigneeType = "Approver"
	SigneeSigner   SigneeType = "Signer"
	SigneeReviewer SigneeType = "Reviewer"

	// Field Types
	FieldSignature     FieldType = "signature"
	FieldInitials      FieldType = "initials"
	FieldTitleText     FieldType = "titleText"
	FieldPrefilledText FieldType = "prefilledText"

	// Notification Types
	NotifySignatureRequired NotificationType = "signature_required"
	NotifySignatureComplete NotificationType = "signature_complete"

	// Notification States
	NotificationNew  NotificationState = "new"
	NotificationSeen NotificationState = "seen"

	// Reason Kinds
	ReasonPrimary ReasonKind = "primary"
	ReasonOther   ReasonKind = "other"
)

// Document is the core record: a file sent around for signing, with its
// assigned signees and the subset of them that already signed. The stored
// Status may lag behind reality; readers reconcile it through the status
// deriver rather than trusting this column.
type Document struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	AuthorID    string    `json:"author_id" gorm:"type:varchar(100);not null;index"`
	AuthorName  string    `json:"author_name" gorm:"type:varchar(255);not null"`
	AuthorEmail string    `json:"author_email" gorm:"type:varchar(320);not null;index"`
	TotalPages  int       `json:"total_pages" gorm:"not null;default:0"`
	Status      DocStatus `json:"status" gorm:"type:varchar(30);not null;default:'Draft'"`
	Comment     string    `json:"comment" gorm:"type:varchar(100)"`
	SignInOrder bool      `json:"sign_in_order" gorm:"not null;default:false"`

	DateAdded   time.Time `json:"date_added" gorm:"not null;default:now()"`
	LastChanged time.Time `json:"last_changed" gorm:"not null;default:now()"`

	// Relationships
	Signees       []Signee         `json:"signees,omitempty" gorm:"foreignKey:DocumentID"`
	SignedEntries []SignedEntry    `json:"already_signed,omitempty" gorm:"foreignKey:DocumentID"`
	Fields        []SignatureField `json:"fields,omitempty" gorm:"foreignKey:DocumentID"`
	PageImages    []PageImage      `json:"page_images,omitempty" gorm:"foreignKey:DocumentID"`
	AuditEvents   []AuditEvent     `json:"audit_events,omitempty" gorm:"foreignKey:DocumentID"`
}

// Signee is a party required to act on a document. Email is unique within a
// document; Position preserves assignment order for sign-in-order flows.
type Signee struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DocumentID uuid.UUID  `json:"document_id" gorm:"type:uuid;not null;uniqueIndex:idx_document_signee_email"`
	Name       string     `json:"name" gorm:"type:varchar(25);not null"`
	Email      string     `json:"email" gorm:"type:varchar(50);not null;uniqueIndex:idx_document_signee_email"`
	Type       SigneeType `json:"signee_type" gorm:"type:varchar(20);not null"`
	Position   int        `json:"position" gorm:"not null;default:0"`

	Document Document `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
}

// SignedEntry records that a signee finished signing. Always a subset of the
// document's signees by email.
type SignedEntry struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DocumentID uuid.UUID `json:"document_id" gorm:"type:uuid;not null;uniqueIndex:idx_document_signed_email"`
	Name       string    `json:"name" gorm:"type:varchar(25);not null"`
	Email      string    `json:"email" gorm:"type:varchar(50);not null;uniqueIndex:idx_document_signed_email"`
	SignedAt   time.Time `json:"signed_at" gorm:"not null;default:now()"`

	Document Document `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
}

// SignatureField is a placed field. Geometry is stored as percentages of the
// canvas dimensions at placement time and resolved to pixels only at render
// time, so placement survives re-rendering at any resolution.
type SignatureField struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DocumentID uuid.UUID `json:"document_id" gorm:"type:uuid;not null;index"`
	Type       FieldType `json:"type" gorm:"type:varchar(20);not null"`
	PageIndex  int       `json:"page" gorm:"not null"`

	XPercent      float64 `json:"x_percent" gorm:"not null"`
	YPercent      float64 `json:"y_percent" gorm:"not null"`
	WidthPercent  float64 `json:"width_percent" gorm:"not null"`
	HeightPercent float64 `json:"height_percent" gorm:"not null"`

	AssigneeName  string `json:"assignee" gorm:"type:varchar(25);not null"`
	AssigneeEmail string `json:"assignee_email" gorm:"type:varchar(50);not null;index"`

	// Prefilled text payload (prefilledText fields only)
	Text      string `json:"text,omitempty" gorm:"type:varchar(100)"`
	Color     string `json:"color,omitempty" gorm:"type:varchar(7)"`
	Bold      bool   `json:"bold" gorm:"not null;default:false"`
	Italic    bool   `json:"italic" gorm:"not null;default:false"`
	Underline bool   `json:"underline" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:now()"`

	Document Document `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
}

// Notification lives in exactly one of the new/seen states at a time.
type Notification struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Type         NotificationType  `json:"type" gorm:"type:varchar(30);not null"`
	DocumentID   uuid.UUID         `json:"document_id" gorm:"type:uuid;not null;index"`
	DocumentName string            `json:"document_name" gorm:"type:varchar(255);not null"`
	State        NotificationState `json:"state" gorm:"type:varchar(10);not null;default:'new';index"`
	Timestamp    time.Time         `json:"timestamp" gorm:"not null;default:now()"`
}

// SignatureReason is one entry of the configurable reason-to-sign list.
// Primary reasons are curated; custom entries land in the "other" sub-list.
type SignatureReason struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Text      string     `json:"text" gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind      ReasonKind `json:"kind" gorm:"type:varchar(10);not null;default:'other'"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;default:now()"`
}

// User is an entry in the demo user directory used for recipient lookup.
type User struct {
	ID    string `json:"id" gorm:"type:varchar(100);primary_key"`
	Name  string `json:"name" gorm:"type:varchar(255);not null"`
	Email string `json:"email" gorm:"type:varchar(320);not null;uniqueIndex"`
}

// AuditEvent is a display-only feed line; nothing in the workflow derives
// state from it.
type AuditEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DocumentID uuid.UUID `json:"document_id" gorm:"type:uuid;not null;index"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:now()"`
}

// PageImage points at one rendered page raster, ordered by PageIndex.
type PageImage struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DocumentID uuid.UUID `json:"document_id" gorm:"type:uuid;not null;uniqueIndex:idx_document_page"`
	PageIndex  int       `json:"page_index" gorm:"not null;uniqueIndex:idx_document_page"`
	URL        string    `json:"url" gorm:"type:varchar(500);not null"`
}

// GetAllModels returns all models for migration
func GetAllModels() []interface{} {
	return []interface{}{
		&User{},
		&Document{},
		&Signee{},
		&SignedEntry{},
		&SignatureField{},
		&Notification{},
		&SignatureReason{},
		&AuditEvent{},
		&PageImage{},
	}
}
