package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var ErrReasonNotFound = errors.New("signature reason not found")

type ReasonRepository struct {
	db *database.DB
}

func NewReasonRepository(db *database.DB) repositories.ReasonRepository {
	return &ReasonRepository{db: db}
}

func (r *ReasonRepository) Create(ctx context.Context, reason *models.SignatureReason) error {
	if reason.ID == uuid.Nil {
		reason.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(reason).Error; err != nil {
		return fmt.Errorf("failed to create signature reason: %w", err)
	}
	return nil
}

func (r *ReasonRepository) GetByText(ctx context.Context, text string) (*models.SignatureReason, error) {
	var reason models.SignatureReason
	err := r.db.WithContext(ctx).Where("text = ?", text).First(&reason).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReasonNotFound
		}
		return nil, fmt.Errorf("failed to get signature reason: %w", err)
	}
	return &reason, nil
}

func (r *ReasonRepository) ListByKind(ctx context.Context, kind models.ReasonKind) ([]models.SignatureReason, error) {
	var reasons []models.SignatureReason
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at ASC").
		Find(&reasons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list signature reasons: %w", err)
	}
	return reasons, nil
}

func (r *ReasonRepository) DeleteByText(ctx context.Context, text string, kind models.ReasonKind) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("text = ? AND kind = ?", text, kind).
		Delete(&models.SignatureReason{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete signature reason: %w", result.Error)
	}
	return result.RowsAffected, nil
}
