package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

// Core repository interfaces for clean architecture

type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocStatus) error
	UpdateSendSettings(ctx context.Context, id uuid.UUID, comment string, signInOrder bool) error
	ReplaceSignees(ctx context.Context, documentID uuid.UUID, signees []models.Signee) error
	AddSignedEntry(ctx context.Context, entry *models.SignedEntry) error
	AddField(ctx context.Context, field *models.SignatureField) error
	RemoveField(ctx context.Context, documentID, fieldID uuid.UUID) error
	ListFields(ctx context.Context, documentID uuid.UUID) ([]models.SignatureField, error)
	ListPageImages(ctx context.Context, documentID uuid.UUID) ([]models.PageImage, error)
	ListAuditEvents(ctx context.Context, documentID uuid.UUID) ([]models.AuditEvent, error)
	AddAuditEvent(ctx context.Context, event *models.AuditEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListByState(ctx context.Context, state models.NotificationState) ([]models.Notification, error)
	// UpdateState moves a notification between the new/seen partitions and
	// reports whether the row was in fromState when the call ran.
	UpdateState(ctx context.Context, id uuid.UUID, fromState, toState models.NotificationState) (bool, error)
	// DeleteNewByDocument removes every "new" notification for the document
	// in one snapshot and returns how many rows went away.
	DeleteNewByDocument(ctx context.Context, documentID uuid.UUID) (int64, error)
}

type ReasonRepository interface {
	Create(ctx context.Context, reason *models.SignatureReason) error
	GetByText(ctx context.Context, text string) (*models.SignatureReason, error)
	ListByKind(ctx context.Context, kind models.ReasonKind) ([]models.SignatureReason, error)
	DeleteByText(ctx context.Context, text string, kind models.ReasonKind) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
