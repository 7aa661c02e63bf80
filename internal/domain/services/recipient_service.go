package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var (
	ErrIncompleteRow   = errors.New("recipient row is incomplete")
	ErrDuplicateEmail  = errors.New("recipient email already used on this document")
	ErrNoRecipients    = errors.New("at least one recipient is required")
	ErrAlreadySent     = errors.New("document was already sent for signature")
	ErrBadReorder      = errors.New("reorder is not a permutation of the current rows")
)

const (
	maxRecipientName  = 25
	maxRecipientEmail = 50
	maxComment        = 100
)

// RecipientRow is one line of the signature setup form.
type RecipientRow struct {
	Name  string            `json:"name"`
	Email string            `json:"email"`
	Type  models.SigneeType `json:"signee_type"`
}

// Assignment is the outcome of a completed signature setup: the validated
// rows in their final order plus the author's comment and ordering flag.
type Assignment struct {
	Rows        []RecipientRow `json:"rows"`
	Comment     string         `json:"comment"`
	SignInOrder bool           `json:"sign_in_order"`
}

var signeeTypes = []interface{}{
	models.SigneeAuthor, models.SigneeApprover, models.SigneeSigner, models.SigneeReviewer,
}

// ValidateRow checks one recipient row in isolation. A row is complete when
// every column is filled and within its limit.
func ValidateRow(row RecipientRow) error {
	return validation.ValidateStruct(&row,
		validation.Field(&row.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, maxRecipientName),
		),
		validation.Field(&row.Email,
			validation.Required.Error("email is required"),
			validation.RuneLength(1, maxRecipientEmail),
			validation.By(containsAt),
		),
		validation.Field(&row.Type,
			validation.Required.Error("signee type is required"),
			validation.In(signeeTypes...),
		),
	)
}

func containsAt(value interface{}) error {
	s, _ := value.(string)
	if !strings.Contains(s, "@") {
		return errors.New("must contain @")
	}
	return nil
}

// rowIsEmpty reports whether every column of the row is blank. The form may
// carry untouched rows; they are dropped at submit, not rejected.
func rowIsEmpty(row RecipientRow) bool {
	return strings.TrimSpace(row.Name) == "" &&
		strings.TrimSpace(row.Email) == "" &&
		strings.TrimSpace(string(row.Type)) == ""
}

// ValidateAssignment checks the whole form: every touched row complete,
// emails unique within the document, the comment within its limit, and at
// least one complete row present. Fully empty rows are ignored. A duplicate
// email is reported without discarding anything so the caller can fix the
// row and retry.
func ValidateAssignment(a Assignment) error {
	if err := validation.Validate(a.Comment, validation.RuneLength(0, maxComment)); err != nil {
		return fmt.Errorf("comment: %w", err)
	}

	seen := make(map[string]struct{}, len(a.Rows))
	kept := 0
	for i, row := range a.Rows {
		if rowIsEmpty(row) {
			continue
		}
		if err := ValidateRow(row); err != nil {
			return fmt.Errorf("row %d: %w: %v", i+1, ErrIncompleteRow, err)
		}
		key := strings.ToLower(row.Email)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("row %d: %w: %s", i+1, ErrDuplicateEmail, row.Email)
		}
		seen[key] = struct{}{}
		kept++
	}
	if kept == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Reorder applies a new ordering given as indexes into the current rows.
// The order must mention every row exactly once.
func Reorder(rows []RecipientRow, order []int) ([]RecipientRow, error) {
	if len(order) != len(rows) {
		return nil, ErrBadReorder
	}
	used := make([]bool, len(rows))
	out := make([]RecipientRow, 0, len(rows))
	for _, idx := range order {
		if idx < 0 || idx >= len(rows) || used[idx] {
			return nil, ErrBadReorder
		}
		used[idx] = true
		out = append(out, rows[idx])
	}
	return out, nil
}

// RecipientService turns a completed setup form into the document's signee
// list and moves the document out of Draft.
type RecipientService struct {
	docRepo          repositories.DocumentRepository
	notificationRepo repositories.NotificationRepository
}

func NewRecipientService(docRepo repositories.DocumentRepository, notificationRepo repositories.NotificationRepository) *RecipientService {
	return &RecipientService{docRepo: docRepo, notificationRepo: notificationRepo}
}

// Assign validates the form, replaces the document's signees with the rows
// in their final order, stores the comment and ordering flag, and sends the
// document for signature. Each signee gets a signature-required
// notification.
func (s *RecipientService) Assign(ctx context.Context, documentID uuid.UUID, a Assignment) (*models.Document, error) {
	if err := ValidateAssignment(a); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocStatusDraft {
		return nil, ErrAlreadySent
	}

	signees := make([]models.Signee, 0, len(a.Rows))
	for _, row := range a.Rows {
		if rowIsEmpty(row) {
			continue
		}
		signees = append(signees, models.Signee{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			Name:       row.Name,
			Email:      row.Email,
			Type:       row.Type,
			Position:   len(signees),
		})
	}
	if err := s.docRepo.ReplaceSignees(ctx, doc.ID, signees); err != nil {
		return nil, err
	}

	if err := s.docRepo.UpdateSendSettings(ctx, doc.ID, a.Comment, a.SignInOrder); err != nil {
		return nil, err
	}
	if err := s.docRepo.UpdateStatus(ctx, doc.ID, models.DocStatusSent); err != nil {
		return nil, err
	}
	doc.Comment = a.Comment
	doc.SignInOrder = a.SignInOrder
	doc.Signees = signees
	doc.Status = models.DocStatusSent

	for _, signee := range signees {
		notification := &models.Notification{
			Type:         models.NotifySignatureRequired,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			State:        models.NotificationNew,
			Timestamp:    time.Now().UTC(),
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			return nil, fmt.Errorf("failed to notify %s: %w", signee.Email, err)
		}
	}

	event := &models.AuditEvent{
		DocumentID: doc.ID,
		Text:       fmt.Sprintf("Sent for signature to %d recipient(s)", len(signees)),
	}
	if err := s.docRepo.AddAuditEvent(ctx, event); err != nil {
		return nil, err
	}

	return doc, nil
}
