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

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) repositories.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.State == "" {
		notification.State = models.NotificationNew
	}
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (r *NotificationRepository) ListByState(ctx context.Context, state models.NotificationState) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("timestamp DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// UpdateState is the single primitive behind both the forward new->seen move
// and its compensating inverse; the state guard in the WHERE clause makes the
// transition a no-op when the row already left fromState.
func (r *NotificationRepository) UpdateState(ctx context.Context, id uuid.UUID, fromState, toState models.NotificationState) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND state = ?", id, fromState).
		Update("state", toState)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update notification state: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepository) DeleteNewByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("document_id = ? AND state = ?", documentID, models.NotificationNew).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to remove notifications by document: %w", result.Error)
	}
	return result.RowsAffected, nil
}
