package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var ErrNotInvolved = errors.New("user is not a party to this document")

// PageStore is where rendered page rasters live. The document service only
// needs to clean up after a delete; serving is handled statically.
type PageStore interface {
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

// DocumentView is a list entry with everything the dashboard derives on
// read: the reconciled status and the caller's action menu.
type DocumentView struct {
	models.Document
	EffectiveStatus models.DocStatus `json:"effective_status"`
	Actions         []Capability     `json:"actions"`
}

// DocumentService serves the dashboard and manage views. All listing goes
// through the status deriver so stored and derived status never disagree
// across surfaces.
type DocumentService struct {
	docRepo      repositories.DocumentRepository
	notification *NotificationService
	cache        CacheService
	pages        PageStore
}

func NewDocumentService(docRepo repositories.DocumentRepository, notification *NotificationService, cache CacheService, pages PageStore) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		notification: notification,
		cache:        cache,
		pages:        pages,
	}
}

// Create registers an uploaded document as a draft owned by the author.
func (s *DocumentService) Create(ctx context.Context, name string, author Identity, totalPages int) (*models.Document, error) {
	now := time.Now().UTC()
	doc := &models.Document{
		ID:          uuid.New(),
		Name:        name,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		TotalPages:  totalPages,
		Status:      models.DocStatusDraft,
		DateAdded:   now,
		LastChanged: now,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, author.Email)
	return doc, nil
}

// Get loads one document the identity is a party to.
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID, identity Identity) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Involves(identity, doc) {
		return nil, ErrNotInvolved
	}
	return doc, nil
}

// ListForUser returns the identity's documents with derived status and
// action menus attached.
func (s *DocumentService) ListForUser(ctx context.Context, identity Identity) ([]DocumentView, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(FilterInvolving(docs, identity), identity), nil
}

// ManageList is ListForUser minus other people's drafts.
func (s *DocumentService) ManageList(ctx context.Context, identity Identity) ([]DocumentView, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(FilterManageList(docs, identity), identity), nil
}

// Stats serves the dashboard counters, cached briefly per user. The cache
// is dropped whenever a write changes what the counters would say.
func (s *DocumentService) Stats(ctx context.Context, identity Identity) (*DashboardStats, error) {
	key := fmt.Sprintf(StatsCacheKeyPattern, identity.Email)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(docs, identity)

	if payload, err := json.Marshal(stats); err == nil {
		// Best effort; the counters are recomputable.
		_ = s.cache.Set(ctx, key, payload, StatsCacheDuration)
	}
	return &stats, nil
}

// Actions evaluates the action menu for one document.
func (s *DocumentService) Actions(ctx context.Context, id uuid.UUID, identity Identity) ([]Capability, error) {
	doc, err := s.Get(ctx, id, identity)
	if err != nil {
		return nil, err
	}
	return AvailableActions(identity, doc), nil
}

// Pages returns the rendered page rasters in order.
func (s *DocumentService) Pages(ctx context.Context, id uuid.UUID, identity Identity) ([]models.PageImage, error) {
	if _, err := s.Get(ctx, id, identity); err != nil {
		return nil, err
	}
	return s.docRepo.ListPageImages(ctx, id)
}

// Events returns the document's audit feed.
func (s *DocumentService) Events(ctx context.Context, id uuid.UUID, identity Identity) ([]models.AuditEvent, error) {
	if _, err := s.Get(ctx, id, identity); err != nil {
		return nil, err
	}
	return s.docRepo.ListAuditEvents(ctx, id)
}

// AddField places a field on the document and persists it.
func (s *DocumentService) AddField(ctx context.Context, id uuid.UUID, identity Identity, req PlacementRequest) (*models.SignatureField, error) {
	doc, err := s.Get(ctx, id, identity)
	if err != nil {
		return nil, err
	}
	field, err := PlaceField(doc, req)
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.AddField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// RemoveField deletes a placed field.
func (s *DocumentService) RemoveField(ctx context.Context, id, fieldID uuid.UUID, identity Identity) error {
	if _, err := s.Get(ctx, id, identity); err != nil {
		return err
	}
	return s.docRepo.RemoveField(ctx, id, fieldID)
}

// Fields lists the document's placed fields in placement order.
func (s *DocumentService) Fields(ctx context.Context, id uuid.UUID, identity Identity) ([]models.SignatureField, error) {
	if _, err := s.Get(ctx, id, identity); err != nil {
		return nil, err
	}
	return s.docRepo.ListFields(ctx, id)
}

// Resend re-notifies the pending signees of a sent document. Author only.
func (s *DocumentService) Resend(ctx context.Context, id uuid.UUID, identity Identity) error {
	doc, err := s.Get(ctx, id, identity)
	if err != nil {
		return err
	}
	if !hasCapability(AvailableActions(identity, doc), CanResend) {
		return ErrNotInvolved
	}
	if err := s.notification.NotifySignatureRequired(ctx, doc); err != nil {
		return err
	}
	return s.docRepo.AddAuditEvent(ctx, &models.AuditEvent{
		DocumentID: doc.ID,
		Text:       fmt.Sprintf("Signature request resent by %s", identity.Name),
	})
}

// Delete removes a document and everything hanging off it.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID, identity Identity) error {
	doc, err := s.Get(ctx, id, identity)
	if err != nil {
		return err
	}
	if doc.AuthorEmail != identity.Email {
		return ErrNotInvolved
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.pages != nil {
		// Raster cleanup is best effort; the rows are already gone.
		_ = s.pages.DeleteDocument(ctx, id)
	}
	s.invalidateStats(ctx, identity.Email)
	return nil
}

// InvalidateStats drops the cached counters for a user. Exposed so sibling
// services can call it after their own writes.
func (s *DocumentService) InvalidateStats(ctx context.Context, email string) {
	s.invalidateStats(ctx, email)
}

func (s *DocumentService) invalidateStats(ctx context.Context, email string) {
	_ = s.cache.Delete(ctx, fmt.Sprintf(StatsCacheKeyPattern, email))
}

func (s *DocumentService) views(docs []models.Document, identity Identity) []DocumentView {
	views := make([]DocumentView, 0, len(docs))
	for i := range docs {
		views = append(views, DocumentView{
			Document:        docs[i],
			EffectiveStatus: EffectiveStatus(&docs[i]),
			Actions:         AvailableActions(identity, &docs[i]),
		})
	}
	return views
}

func hasCapability(actions []Capability, want Capability) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
