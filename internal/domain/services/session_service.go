package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/domain/repositories"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var (
	ErrSessionNotFound = errors.New("signing session not found")
	ErrCannotSign      = errors.New("document is not signable by this user")
)

// SessionService runs the live signing sessions. Sessions are in-memory
// only; nothing is persisted until a session finishes, at which point the
// signed entry lands in the store atomically with the status change.
type SessionService struct {
	docRepo      repositories.DocumentRepository
	auth         *AuthService
	notification *NotificationService
	documents    *DocumentService
	reasons      *ReasonService

	mu       sync.RWMutex
	sessions map[uuid.UUID]*SigningSession
}

func NewSessionService(
	docRepo repositories.DocumentRepository,
	auth *AuthService,
	notification *NotificationService,
	documents *DocumentService,
	reasons *ReasonService,
) *SessionService {
	return &SessionService{
		docRepo:      docRepo,
		auth:         auth,
		notification: notification,
		documents:    documents,
		reasons:      reasons,
		sessions:     make(map[uuid.UUID]*SigningSession),
	}
}

// Open starts a signing session for the identity on the document. The
// identity must currently hold the sign capability.
func (s *SessionService) Open(ctx context.Context, documentID uuid.UUID, identity Identity) (*SigningSession, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !hasCapability(AvailableActions(identity, doc), CanSign) {
		return nil, ErrCannotSign
	}

	fields, err := s.docRepo.ListFields(ctx, documentID)
	if err != nil {
		return nil, err
	}

	session, err := NewSigningSession(doc, identity, fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	// Opening the document consumes its pending notifications.
	if _, err := s.notification.RemoveByDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns a live session.
func (s *SessionService) Get(sessionID uuid.UUID) (*SigningSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Tap starts the flow for a field in the session.
func (s *SessionService) Tap(sessionID, fieldID uuid.UUID) (ElementState, error) {
	return s.withSession(sessionID, func(session *SigningSession) (ElementState, error) {
		return session.Tap(fieldID)
	})
}

// Capture supplies the drawn artifact for the pending element.
func (s *SessionService) Capture(sessionID uuid.UUID, artifact string) (ElementState, error) {
	return s.withSession(sessionID, func(session *SigningSession) (ElementState, error) {
		return session.ProvideCapture(artifact)
	})
}

// Reason supplies the reason to sign for the pending element. A reason not
// on the configured list is remembered as a custom one for next time.
func (s *SessionService) Reason(ctx context.Context, sessionID uuid.UUID, reason string) (ElementState, error) {
	state, err := s.withSession(sessionID, func(session *SigningSession) (ElementState, error) {
		return session.ProvideReason(reason)
	})
	if err != nil {
		return "", err
	}
	if err := s.reasons.Add(ctx, reason); err != nil && !errors.Is(err, ErrReasonExists) {
		return "", err
	}
	return state, nil
}

// EnterText completes a pending text element.
func (s *SessionService) EnterText(sessionID uuid.UUID, text string) (ElementState, error) {
	return s.withSession(sessionID, func(session *SigningSession) (ElementState, error) {
		return session.EnterText(text)
	})
}

// Authenticate checks the signer's credentials and, on success, completes
// the pending element. A failed check leaves the element pending so the
// prompt can be retried or cancelled.
func (s *SessionService) Authenticate(sessionID uuid.UUID, email, password string) (ElementState, error) {
	return s.withSession(sessionID, func(session *SigningSession) (ElementState, error) {
		if _, ok := session.PendingFieldID(); !ok {
			return "", ErrNothingPending
		}
		if err := s.auth.CheckCredentials(email, password); err != nil {
			return "", err
		}
		return session.ConfirmAuth()
	})
}

// Cancel aborts the pending element flow.
func (s *SessionService) Cancel(sessionID uuid.UUID) error {
	_, err := s.withSession(sessionID, func(session *SigningSession) (ElementState, error) {
		return "", session.Cancel()
	})
	return err
}

// Next advances the session to the next element.
func (s *SessionService) Next(sessionID uuid.UUID) (*SigningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := session.Next(); err != nil {
		return nil, err
	}
	return session, nil
}

// Finish closes the session and persists its outcome: the signed entry, the
// derived document status, the completion notification when this was the
// last pending signee, and an audit line. The session is gone afterwards.
func (s *SessionService) Finish(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	if err := session.Finish(); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	entry := &models.SignedEntry{
		ID:         uuid.New(),
		DocumentID: session.DocumentID,
		Name:       session.Signer.Name,
		Email:      session.Signer.Email,
		SignedAt:   time.Now().UTC(),
	}
	if err := s.docRepo.AddSignedEntry(ctx, entry); err != nil {
		return err
	}

	if err := s.docRepo.AddAuditEvent(ctx, &models.AuditEvent{
		DocumentID: session.DocumentID,
		Text:       fmt.Sprintf("Signed by %s", session.Signer.Name),
	}); err != nil {
		return err
	}

	doc, err := s.docRepo.GetByID(ctx, session.DocumentID)
	if err != nil {
		return err
	}
	if EffectiveStatus(doc) == models.DocStatusCompleted && doc.Status != models.DocStatusCompleted {
		if err := s.docRepo.UpdateStatus(ctx, doc.ID, models.DocStatusCompleted); err != nil {
			return err
		}
		if err := s.notification.NotifySignatureComplete(ctx, doc); err != nil {
			return err
		}
	}

	s.documents.InvalidateStats(ctx, session.Signer.Email)
	s.documents.InvalidateStats(ctx, doc.AuthorEmail)
	return nil
}

// Abandon drops a live session without persisting anything.
func (s *SessionService) Abandon(sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *SessionService) withSession(sessionID uuid.UUID, fn func(*SigningSession) (ElementState, error)) (ElementState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return fn(session)
}
