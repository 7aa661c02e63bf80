package services

import (
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

// Capability is one entry of a document's action menu.
type Capability string

const (
	CanSetup    Capability = "Setup Sign"
	CanResend   Capability = "Resend"
	CanSign     Capability = "Sign"
	CanDownload Capability = "Download"
	CanPreview  Capability = "Preview"
)

// AvailableActions evaluates the action menu for one identity and document.
// Every capability is an explicit predicate over (identity, effective
// status, signee membership, signed membership); the handler serves the
// result as data and never re-derives it.
func AvailableActions(identity Identity, doc *models.Document) []Capability {
	// Authorship requires both the email and the id to match.
	isAuthor := doc.AuthorEmail == identity.Email && doc.AuthorID == identity.ID
	isSignee := isSignee(identity, doc)
	signed := hasSigned(identity, doc)
	status := EffectiveStatus(doc)

	actions := make([]Capability, 0, 3)

	switch {
	case status == models.DocStatusDraft && isAuthor:
		actions = append(actions, CanSetup)
	case status == models.DocStatusSent:
		if isAuthor {
			actions = append(actions, CanResend)
		}
		if isSignee && !signed {
			actions = append(actions, CanSign)
		}
	case status == models.DocStatusCompleted && (isAuthor || isSignee):
		actions = append(actions, CanDownload)
	}

	if isAuthor {
		actions = append(actions, CanPreview)
	}

	return actions
}
