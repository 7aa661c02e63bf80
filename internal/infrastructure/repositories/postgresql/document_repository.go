package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrFieldNotFound    = errors.New("signature field not found")
)

type DocumentRepository struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) repositories.DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).
		Preload("Signees", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("SignedEntries").
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &document, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Preload("Signees", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("SignedEntries").
		Order("date_added DESC").
		Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.DocStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"last_changed": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update document status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// UpdateSendSettings stores the comment and ordering flag captured on the
// signature setup form.
func (r *DocumentRepository) UpdateSendSettings(ctx context.Context, id uuid.UUID, comment string, signInOrder bool) error {
	result := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"comment":       comment,
			"sign_in_order": signInOrder,
			"last_changed":  time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update send settings: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// ReplaceSignees swaps a document's signee list atomically, preserving the
// positions carried on the incoming slice.
func (r *DocumentRepository) ReplaceSignees(ctx context.Context, documentID uuid.UUID, signees []models.Signee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&models.Signee{}).Error; err != nil {
			return fmt.Errorf("failed to clear signees: %w", err)
		}
		for i := range signees {
			if signees[i].ID == uuid.Nil {
				signees[i].ID = uuid.New()
			}
			signees[i].DocumentID = documentID
		}
		if len(signees) > 0 {
			if err := tx.Create(&signees).Error; err != nil {
				return fmt.Errorf("failed to create signees: %w", err)
			}
		}
		return nil
	})
}

func (r *DocumentRepository) AddSignedEntry(ctx context.Context, entry *models.SignedEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.SignedAt.IsZero() {
		entry.SignedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add signed entry: %w", err)
	}
	return nil
}

func (r *DocumentRepository) AddField(ctx context.Context, field *models.SignatureField) error {
	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return fmt.Errorf("failed to add signature field: %w", err)
	}
	return nil
}

func (r *DocumentRepository) RemoveField(ctx context.Context, documentID, fieldID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("document_id = ? AND id = ?", documentID, fieldID).
		Delete(&models.SignatureField{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove signature field: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFieldNotFound
	}
	return nil
}

func (r *DocumentRepository) ListFields(ctx context.Context, documentID uuid.UUID) ([]models.SignatureField, error) {
	var fields []models.SignatureField
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&fields).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list signature fields: %w", err)
	}
	return fields, nil
}

func (r *DocumentRepository) ListPageImages(ctx context.Context, documentID uuid.UUID) ([]models.PageImage, error) {
	var pages []models.PageImage
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("page_index ASC").
		Find(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list page images: %w", err)
	}
	return pages, nil
}

func (r *DocumentRepository) ListAuditEvents(ctx context.Context, documentID uuid.UUID) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	return events, nil
}

func (r *DocumentRepository) AddAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to add audit event: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []interface{}{
			&models.Signee{}, &models.SignedEntry{}, &models.SignatureField{},
			&models.PageImage{}, &models.AuditEvent{},
		} {
			if err := tx.Where("document_id = ?", id).Delete(owned).Error; err != nil {
				return fmt.Errorf("failed to delete document children: %w", err)
			}
		}
		result := tx.Delete(&models.Document{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete document: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrDocumentNotFound
		}
		return nil
	})
}
