package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

var (
	alice = Identity{ID: "us-alice", Name: "Alice Author", Email: "alice@example.com"}
	bob   = Identity{ID: "us-bob", Name: "Bob Signer", Email: "bob@example.com"}
	carol = Identity{ID: "us-carol", Name: "Carol Signer", Email: "carol@example.com"}
)

func doc(author Identity, status models.DocStatus, signees []Identity, signed []Identity) models.Document {
	d := models.Document{
		ID:          uuid.New(),
		Name:        "agreement.pdf",
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Status:      status,
	}
	for i, s := range signees {
		d.Signees = append(d.Signees, models.Signee{
			DocumentID: d.ID,
			Name:       s.Name,
			Email:      s.Email,
			Type:       models.SigneeSigner,
			Position:   i,
		})
	}
	for _, s := range signed {
		d.SignedEntries = append(d.SignedEntries, models.SignedEntry{
			DocumentID: d.ID,
			Name:       s.Name,
			Email:      s.Email,
		})
	}
	return d
}

func TestEffectiveStatus(t *testing.T) {
	t.Run("sent with all signees signed reads as completed", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob, carol}, []Identity{bob, carol})
		assert.Equal(t, models.DocStatusCompleted, EffectiveStatus(&d))
	})

	t.Run("sent with a pending signee stays sent", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob, carol}, []Identity{bob})
		assert.Equal(t, models.DocStatusSent, EffectiveStatus(&d))
	})

	t.Run("zero signees never complete", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, nil, nil)
		assert.Equal(t, models.DocStatusSent, EffectiveStatus(&d))
	})

	t.Run("drafts are untouched", func(t *testing.T) {
		d := doc(alice, models.DocStatusDraft, []Identity{bob}, []Identity{bob})
		assert.Equal(t, models.DocStatusDraft, EffectiveStatus(&d))
	})

	t.Run("stored completed passes through", func(t *testing.T) {
		d := doc(alice, models.DocStatusCompleted, []Identity{bob}, nil)
		assert.Equal(t, models.DocStatusCompleted, EffectiveStatus(&d))
	})
}

func TestInvolves(t *testing.T) {
	d := doc(alice, models.DocStatusSent, []Identity{bob}, nil)

	assert.True(t, Involves(alice, &d), "author is involved")
	assert.True(t, Involves(bob, &d), "signee is involved")
	assert.False(t, Involves(carol, &d), "third party is not involved")
}

func TestFilterManageList(t *testing.T) {
	ownDraft := doc(alice, models.DocStatusDraft, []Identity{bob}, nil)
	foreignDraft := doc(bob, models.DocStatusDraft, []Identity{alice}, nil)
	sent := doc(bob, models.DocStatusSent, []Identity{alice}, nil)
	unrelated := doc(bob, models.DocStatusSent, []Identity{carol}, nil)

	got := FilterManageList([]models.Document{ownDraft, foreignDraft, sent, unrelated}, alice)

	ids := make([]uuid.UUID, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, ownDraft.ID, "own drafts are listed")
	assert.NotContains(t, ids, foreignDraft.ID, "someone else's draft is hidden")
	assert.Contains(t, ids, sent.ID, "sent documents involving the user are listed")
	assert.NotContains(t, ids, unrelated.ID)
}

func TestComputeStats(t *testing.T) {
	t.Run("action required counts unsigned sent documents", func(t *testing.T) {
		docs := []models.Document{
			doc(alice, models.DocStatusSent, []Identity{bob, carol}, nil),
			doc(alice, models.DocStatusSent, []Identity{bob}, []Identity{bob}),
		}
		stats := ComputeStats(docs, bob)
		assert.Equal(t, 1, stats.ActionRequired)
	})

	t.Run("waiting for others after signing", func(t *testing.T) {
		docs := []models.Document{
			doc(alice, models.DocStatusSent, []Identity{bob, carol}, []Identity{bob}),
		}
		stats := ComputeStats(docs, bob)
		assert.Equal(t, 1, stats.WaitingForOthers)
		assert.Equal(t, 0, stats.ActionRequired)
	})

	t.Run("author waits on pending signees", func(t *testing.T) {
		docs := []models.Document{
			doc(alice, models.DocStatusSent, []Identity{bob, carol}, []Identity{bob}),
		}
		stats := ComputeStats(docs, alice)
		assert.Equal(t, 1, stats.WaitingForOthers)
	})

	t.Run("author draft with zero signees is only a draft", func(t *testing.T) {
		docs := []models.Document{
			doc(alice, models.DocStatusDraft, nil, nil),
		}
		stats := ComputeStats(docs, alice)
		assert.Equal(t, DashboardStats{Drafts: 1}, stats)
	})

	t.Run("fully signed sent document counts as completed", func(t *testing.T) {
		docs := []models.Document{
			doc(alice, models.DocStatusSent, []Identity{bob}, []Identity{bob}),
		}
		assert.Equal(t, 1, ComputeStats(docs, alice).Completed)
		assert.Equal(t, 1, ComputeStats(docs, bob).Completed)
	})

	t.Run("uninvolved documents contribute nothing", func(t *testing.T) {
		docs := []models.Document{
			doc(alice, models.DocStatusSent, []Identity{bob}, nil),
		}
		assert.Equal(t, DashboardStats{}, ComputeStats(docs, carol))
	})
}
