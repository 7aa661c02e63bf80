package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

func TestAvailableActions(t *testing.T) {
	t.Run("author of a draft can set up and preview", func(t *testing.T) {
		d := doc(alice, models.DocStatusDraft, nil, nil)
		assert.Equal(t, []Capability{CanSetup, CanPreview}, AvailableActions(alice, &d))
	})

	t.Run("non-author sees nothing on a draft", func(t *testing.T) {
		d := doc(alice, models.DocStatusDraft, []Identity{bob}, nil)
		assert.Empty(t, AvailableActions(bob, &d))
	})

	t.Run("author of a sent document can resend and preview", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob}, nil)
		assert.Equal(t, []Capability{CanResend, CanPreview}, AvailableActions(alice, &d))
	})

	t.Run("pending signee can sign", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob, carol}, nil)
		assert.Equal(t, []Capability{CanSign}, AvailableActions(bob, &d))
	})

	t.Run("signed signee loses the sign action", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob, carol}, []Identity{bob})
		assert.Empty(t, AvailableActions(bob, &d))
	})

	t.Run("completion is derived, not read from the stored column", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob}, []Identity{bob})
		assert.Equal(t, []Capability{CanDownload}, AvailableActions(bob, &d))
		assert.Equal(t, []Capability{CanDownload, CanPreview}, AvailableActions(alice, &d))
	})

	t.Run("authorship requires matching id, not just email", func(t *testing.T) {
		d := doc(alice, models.DocStatusDraft, nil, nil)
		impostor := Identity{ID: "us-other", Name: alice.Name, Email: alice.Email}
		assert.Empty(t, AvailableActions(impostor, &d))
	})
}
