package services

import (
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

// Identity is the authenticated party the dashboard and signing flows act
// for. It is passed explicitly everywhere instead of living in ambient state.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DashboardStats are the four counters shown on the home dashboard. They are
// computed by the same code path that feeds the manage list, so the two views
// can never disagree.
type DashboardStats struct {
	ActionRequired   int `json:"actionRequired"`
	WaitingForOthers int `json:"waitingForOthers"`
	Drafts           int `json:"drafts"`
	Completed        int `json:"completed"`
}

// EffectiveStatus reconciles a document's stored status with its signee data.
// A document sent for signature whose signees have all signed is Completed on
// read even when the stored column still lags. Documents with zero signees
// are never completed by signing.
func EffectiveStatus(doc *models.Document) models.DocStatus {
	if doc.Status == models.DocStatusSent {
		total := len(doc.Signees)
		signed := len(doc.SignedEntries)
		if total > 0 && signed == total {
			return models.DocStatusCompleted
		}
	}
	return doc.Status
}

// Involves reports whether the identity is the document's author or one of
// its signees. Membership is decided by email.
func Involves(identity Identity, doc *models.Document) bool {
	if doc.AuthorEmail == identity.Email {
		return true
	}
	return isSignee(identity, doc)
}

func isSignee(identity Identity, doc *models.Document) bool {
	for _, signee := range doc.Signees {
		if signee.Email == identity.Email {
			return true
		}
	}
	return false
}

func hasSigned(identity Identity, doc *models.Document) bool {
	for _, entry := range doc.SignedEntries {
		if entry.Email == identity.Email {
			return true
		}
	}
	return false
}

// FilterInvolving returns the documents the identity is a party to.
func FilterInvolving(docs []models.Document, identity Identity) []models.Document {
	filtered := make([]models.Document, 0, len(docs))
	for i := range docs {
		if Involves(identity, &docs[i]) {
			filtered = append(filtered, docs[i])
		}
	}
	return filtered
}

// FilterManageList returns the documents for the manage view: everything the
// identity is a party to, except drafts belonging to someone else.
func FilterManageList(docs []models.Document, identity Identity) []models.Document {
	filtered := make([]models.Document, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if !Involves(identity, doc) {
			continue
		}
		if EffectiveStatus(doc) == models.DocStatusDraft && doc.AuthorEmail != identity.Email {
			continue
		}
		filtered = append(filtered, docs[i])
	}
	return filtered
}

// ComputeStats derives the dashboard counters over the documents involving
// the identity. Pure; callers pass the full list and get identical numbers
// on every surface.
func ComputeStats(docs []models.Document, identity Identity) DashboardStats {
	var stats DashboardStats

	for i := range docs {
		doc := &docs[i]
		if !Involves(identity, doc) {
			continue
		}

		status := EffectiveStatus(doc)
		isAuthor := doc.AuthorEmail == identity.Email
		signeeCount := len(doc.Signees)
		signedCount := len(doc.SignedEntries)

		if isSignee(identity, doc) && !hasSigned(identity, doc) && status == models.DocStatusSent {
			stats.ActionRequired++
		}

		// A document with zero signees is never waiting on anyone.
		if signeeCount > 0 && signedCount < signeeCount {
			userSignedWaiting := hasSigned(identity, doc) && status != models.DocStatusCompleted
			authorWaiting := isAuthor && status != models.DocStatusCompleted && status != models.DocStatusDraft
			if userSignedWaiting || authorWaiting {
				stats.WaitingForOthers++
			}
		}

		if status == models.DocStatusDraft && isAuthor {
			stats.Drafts++
		}

		if status == models.DocStatusCompleted {
			stats.Completed++
		}
	}

	return stats
}
