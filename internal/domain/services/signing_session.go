package services

import (
	"errors"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

// Element states. An element is either untouched, mid-flow in exactly one
// pending step, or signed. Nothing pending survives a cancel.
type ElementState string

const (
	ElementUnsigned       ElementState = "unsigned"
	ElementPendingCapture ElementState = "pending_capture"
	ElementPendingReason  ElementState = "pending_reason"
	ElementPendingAuth    ElementState = "pending_auth"
	ElementPendingText    ElementState = "pending_text"
	ElementSigned         ElementState = "signed"
)

// Session phases.
type SessionPhase string

const (
	SessionNotStarted SessionPhase = "not_started"
	SessionInProgress SessionPhase = "in_progress"
	SessionAllSigned  SessionPhase = "all_signed"
)

var (
	ErrSessionFinished  = errors.New("signing session already finished")
	ErrNotYourTurn      = errors.New("element is not the current one")
	ErrNoElements       = errors.New("no fields assigned to this signer")
	ErrWrongStep        = errors.New("input does not match the pending step")
	ErrNothingPending   = errors.New("no element flow in progress")
	ErrEmptyArtifact    = errors.New("captured artifact must not be empty")
	ErrReasonTooLong    = errors.New("reason exceeds 50 characters")
	ErrEmptyReason      = errors.New("reason must not be empty")
	ErrElementNotSigned = errors.New("current element is not signed yet")
	ErrLastElement      = errors.New("already at the last element")
	ErrNotAllSigned     = errors.New("not every element is signed")
)

const maxReasonLength = 50

// SessionElement is one field the signer must complete, in placement order.
type SessionElement struct {
	FieldID uuid.UUID        `json:"field_id"`
	Type    models.FieldType `json:"type"`
	Page    int              `json:"page"`
	State   ElementState     `json:"state"`
	Reason  string           `json:"reason,omitempty"`
}

// SigningSession walks one signer through their assigned fields. Captured
// signature and initials artifacts are saved on the session only when the
// element that produced them completes, so cancelling an in-flight flow
// leaves no trace.
type SigningSession struct {
	ID         uuid.UUID        `json:"id"`
	DocumentID uuid.UUID        `json:"document_id"`
	Signer     Identity         `json:"signer"`
	Phase      SessionPhase     `json:"phase"`
	Elements   []SessionElement `json:"elements"`
	Current    int              `json:"current"`

	// Authenticated flips on the first successful credential check and
	// stays on for the rest of the session. Later auth gates are skipped.
	Authenticated bool `json:"authenticated"`

	// Reusable artifacts, set when the first element of each kind completes.
	SignatureArtifact string `json:"-"`
	InitialsArtifact  string `json:"-"`

	pendingArtifact string
	pendingReason   string
}

// NewSigningSession builds a session over the signer's fields in placement
// order. The signer must have at least one field.
func NewSigningSession(doc *models.Document, signer Identity, fields []models.SignatureField) (*SigningSession, error) {
	mine := FieldsForSignee(fields, signer.Email)
	if len(mine) == 0 {
		return nil, ErrNoElements
	}
	sort.SliceStable(mine, func(i, j int) bool {
		if mine[i].PageIndex != mine[j].PageIndex {
			return mine[i].PageIndex < mine[j].PageIndex
		}
		return mine[i].CreatedAt.Before(mine[j].CreatedAt)
	})

	elements := make([]SessionElement, 0, len(mine))
	for _, f := range mine {
		elements = append(elements, SessionElement{
			FieldID: f.ID,
			Type:    f.Type,
			Page:    f.PageIndex,
			State:   ElementUnsigned,
		})
	}

	return &SigningSession{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		Signer:     signer,
		Phase:      SessionNotStarted,
		Elements:   elements,
		Current:    0,
	}, nil
}

// Tap starts the flow for the current element and returns its first pending
// step. Which steps apply depends on the element type and whether a
// reusable artifact already exists on the session.
func (s *SigningSession) Tap(fieldID uuid.UUID) (ElementState, error) {
	if s.Phase == SessionAllSigned {
		return "", ErrSessionFinished
	}
	current := &s.Elements[s.Current]
	if current.FieldID != fieldID {
		return "", ErrNotYourTurn
	}
	if current.State != ElementUnsigned {
		return "", ErrWrongStep
	}
	s.Phase = SessionInProgress

	switch current.Type {
	case models.FieldSignature:
		if s.SignatureArtifact == "" {
			current.State = ElementPendingCapture
		} else {
			current.State = ElementPendingReason
		}
	case models.FieldInitials:
		if s.InitialsArtifact == "" {
			current.State = ElementPendingCapture
		} else {
			return s.enterAuth(current), nil
		}
	default:
		current.State = ElementPendingText
	}
	return current.State, nil
}

// ProvideCapture supplies the drawn signature or initials image and advances
// the flow. Signatures go on to the reason step, initials straight to auth.
func (s *SigningSession) ProvideCapture(artifact string) (ElementState, error) {
	current, err := s.pendingElement()
	if err != nil {
		return "", err
	}
	if current.State != ElementPendingCapture {
		return "", ErrWrongStep
	}
	if artifact == "" {
		return "", ErrEmptyArtifact
	}
	s.pendingArtifact = artifact

	if current.Type == models.FieldSignature {
		current.State = ElementPendingReason
		return current.State, nil
	}
	return s.enterAuth(current), nil
}

// ProvideReason records the reason to sign and moves the element to the
// authentication step. Signature elements only.
func (s *SigningSession) ProvideReason(reason string) (ElementState, error) {
	current, err := s.pendingElement()
	if err != nil {
		return "", err
	}
	if current.State != ElementPendingReason {
		return "", ErrWrongStep
	}
	if reason == "" {
		return "", ErrEmptyReason
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return "", ErrReasonTooLong
	}
	s.pendingReason = reason
	return s.enterAuth(current), nil
}

// EnterText completes a text element in one step. Text elements need no
// reason and no authentication.
func (s *SigningSession) EnterText(text string) (ElementState, error) {
	current, err := s.pendingElement()
	if err != nil {
		return "", err
	}
	if current.State != ElementPendingText {
		return "", ErrWrongStep
	}
	if utf8.RuneCountInString(text) > maxFieldTextLength {
		return "", ErrTextTooLong
	}
	current.State = ElementSigned
	return current.State, nil
}

// PendingFieldID returns the element the auth step must resume into, so a
// credential prompt can complete the right element even after a detour.
func (s *SigningSession) PendingFieldID() (uuid.UUID, bool) {
	if s.Phase != SessionInProgress {
		return uuid.Nil, false
	}
	current := s.Elements[s.Current]
	switch current.State {
	case ElementPendingCapture, ElementPendingReason, ElementPendingAuth, ElementPendingText:
		return current.FieldID, true
	}
	return uuid.Nil, false
}

// ConfirmAuth completes the pending element after the signer's credentials
// checked out. Only now do pending artifacts become the session's reusable
// ones, and from here on the session counts as authenticated so later
// elements never reach the credential gate.
func (s *SigningSession) ConfirmAuth() (ElementState, error) {
	current, err := s.pendingElement()
	if err != nil {
		return "", err
	}
	if current.State != ElementPendingAuth {
		return "", ErrWrongStep
	}
	s.completeElement(current)
	return current.State, nil
}

// enterAuth moves the element into the credential gate, or straight to
// signed when the signer already passed it earlier in the session.
func (s *SigningSession) enterAuth(current *SessionElement) ElementState {
	if !s.Authenticated {
		current.State = ElementPendingAuth
		return current.State
	}
	s.completeElement(current)
	return current.State
}

func (s *SigningSession) completeElement(current *SessionElement) {
	if s.pendingArtifact != "" {
		if current.Type == models.FieldSignature {
			s.SignatureArtifact = s.pendingArtifact
		} else {
			s.InitialsArtifact = s.pendingArtifact
		}
		s.pendingArtifact = ""
	}
	current.Reason = s.pendingReason
	s.pendingReason = ""
	current.State = ElementSigned
	s.Authenticated = true
}

// Cancel aborts the in-flight element flow. The element returns to unsigned
// and everything captured during the flow is discarded.
func (s *SigningSession) Cancel() error {
	current, err := s.pendingElement()
	if err != nil {
		return err
	}
	current.State = ElementUnsigned
	s.pendingArtifact = ""
	s.pendingReason = ""
	return nil
}

// CanNext reports whether the signer may advance: the current element is
// signed and a later one exists.
func (s *SigningSession) CanNext() bool {
	return s.Elements[s.Current].State == ElementSigned && s.Current < len(s.Elements)-1
}

// Next advances to the next element.
func (s *SigningSession) Next() error {
	if s.Elements[s.Current].State != ElementSigned {
		return ErrElementNotSigned
	}
	if s.Current >= len(s.Elements)-1 {
		return ErrLastElement
	}
	s.Current++
	return nil
}

// CanFinish reports whether every element is signed.
func (s *SigningSession) CanFinish() bool {
	for _, e := range s.Elements {
		if e.State != ElementSigned {
			return false
		}
	}
	return true
}

// Finish closes the session. Allowed only when every element is signed.
func (s *SigningSession) Finish() error {
	if !s.CanFinish() {
		return ErrNotAllSigned
	}
	s.Phase = SessionAllSigned
	return nil
}

func (s *SigningSession) pendingElement() (*SessionElement, error) {
	if s.Phase == SessionAllSigned {
		return nil, ErrSessionFinished
	}
	current := &s.Elements[s.Current]
	switch current.State {
	case ElementPendingCapture, ElementPendingReason, ElementPendingAuth, ElementPendingText:
		return current, nil
	}
	return nil, ErrNothingPending
}
