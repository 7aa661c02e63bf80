package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var ErrNotificationNotNew = errors.New("notification is not in the new list")

// NotificationFeed is both partitions of the notification list, newest
// first within each.
type NotificationFeed struct {
	New  []models.Notification `json:"new"`
	Seen []models.Notification `json:"seen"`
}

// RemovalReceipt reports how many notifications a document-wide removal
// actually deleted. Zero is a valid outcome, not an error.
type RemovalReceipt struct {
	Removed int64 `json:"removed"`
}

// NotificationService owns the new/seen lifecycle.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Feed returns both partitions.
func (s *NotificationService) Feed(ctx context.Context) (*NotificationFeed, error) {
	newOnes, err := s.notificationRepo.ListByState(ctx, models.NotificationNew)
	if err != nil {
		return nil, err
	}
	seen, err := s.notificationRepo.ListByState(ctx, models.NotificationSeen)
	if err != nil {
		return nil, err
	}
	return &NotificationFeed{New: newOnes, Seen: seen}, nil
}

// MarkSeen returns a command that moves one notification from new to seen.
// Executing it fails when the notification is not currently new; undoing it
// puts the notification back exactly where it was.
func (s *NotificationService) MarkSeen(id uuid.UUID) *MarkSeenCommand {
	return &MarkSeenCommand{repo: s.notificationRepo, id: id}
}

// MarkSeenCommand is the forward new->seen move paired with its inverse.
type MarkSeenCommand struct {
	repo repositories.NotificationRepository
	id   uuid.UUID
	done bool
}

func (c *MarkSeenCommand) Execute(ctx context.Context) error {
	moved, err := c.repo.UpdateState(ctx, c.id, models.NotificationNew, models.NotificationSeen)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: %s", ErrNotificationNotNew, c.id)
	}
	c.done = true
	return nil
}

// Undo reverses a successful Execute. Undoing a command that never ran or
// already rolled back is a no-op.
func (c *MarkSeenCommand) Undo(ctx context.Context) error {
	if !c.done {
		return nil
	}
	if _, err := c.repo.UpdateState(ctx, c.id, models.NotificationSeen, models.NotificationNew); err != nil {
		return err
	}
	c.done = false
	return nil
}

// RemoveByDocument deletes every new notification for the document in one
// pass and reports the count. Notifications created after the snapshot are
// untouched.
func (s *NotificationService) RemoveByDocument(ctx context.Context, documentID uuid.UUID) (*RemovalReceipt, error) {
	removed, err := s.notificationRepo.DeleteNewByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &RemovalReceipt{Removed: removed}, nil
}

// NotifySignatureRequired fans a signature-required notification out for a
// freshly sent document.
func (s *NotificationService) NotifySignatureRequired(ctx context.Context, doc *models.Document) error {
	return s.notificationRepo.Create(ctx, &models.Notification{
		Type:         models.NotifySignatureRequired,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		State:        models.NotificationNew,
		Timestamp:    time.Now().UTC(),
	})
}

// NotifySignatureComplete records that every signee finished.
func (s *NotificationService) NotifySignatureComplete(ctx context.Context, doc *models.Document) error {
	return s.notificationRepo.Create(ctx, &models.Notification{
		Type:         models.NotifySignatureComplete,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		State:        models.NotificationNew,
		Timestamp:    time.Now().UTC(),
	})
}
