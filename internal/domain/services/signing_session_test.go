package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

func sessionFields(docID uuid.UUID, types ...models.FieldType) []models.SignatureField {
	base := time.Now().UTC()
	fields := make([]models.SignatureField, 0, len(types))
	for i, ft := range types {
		fields = append(fields, models.SignatureField{
			ID:            uuid.New(),
			DocumentID:    docID,
			Type:          ft,
			PageIndex:     0,
			AssigneeName:  bob.Name,
			AssigneeEmail: bob.Email,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		})
	}
	return fields
}

func newSession(t *testing.T, types ...models.FieldType) *SigningSession {
	t.Helper()
	d := doc(alice, models.DocStatusSent, []Identity{bob}, nil)
	session, err := NewSigningSession(&d, bob, sessionFields(d.ID, types...))
	require.NoError(t, err)
	return session
}

func TestNewSigningSession(t *testing.T) {
	t.Run("rejects a signer with no fields", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob, carol}, nil)
		_, err := NewSigningSession(&d, carol, sessionFields(d.ID, models.FieldSignature))
		assert.ErrorIs(t, err, ErrNoElements)
	})

	t.Run("orders elements by page then placement time", func(t *testing.T) {
		d := doc(alice, models.DocStatusSent, []Identity{bob}, nil)
		fields := sessionFields(d.ID, models.FieldSignature, models.FieldInitials)
		fields[0].PageIndex = 2

		session, err := NewSigningSession(&d, bob, fields)
		require.NoError(t, err)
		assert.Equal(t, models.FieldInitials, session.Elements[0].Type)
		assert.Equal(t, models.FieldSignature, session.Elements[1].Type)
		assert.Equal(t, SessionNotStarted, session.Phase)
	})
}

func TestFirstSignatureFlow(t *testing.T) {
	session := newSession(t, models.FieldSignature)
	fieldID := session.Elements[0].FieldID

	state, err := session.Tap(fieldID)
	require.NoError(t, err)
	assert.Equal(t, ElementPendingCapture, state, "first signature starts with capture")

	state, err = session.ProvideCapture("sig-image-data")
	require.NoError(t, err)
	assert.Equal(t, ElementPendingReason, state)

	state, err = session.ProvideReason("I approve this document")
	require.NoError(t, err)
	assert.Equal(t, ElementPendingAuth, state)

	// Artifact is not reusable until the element completes.
	assert.Empty(t, session.SignatureArtifact)

	state, err = session.ConfirmAuth()
	require.NoError(t, err)
	assert.Equal(t, ElementSigned, state)
	assert.Equal(t, "sig-image-data", session.SignatureArtifact)
	assert.Equal(t, "I approve this document", session.Elements[0].Reason)
}

func TestSubsequentSignatureSkipsCapture(t *testing.T) {
	session := newSession(t, models.FieldSignature, models.FieldSignature)
	completeSignature(t, session, "first reason")
	require.NoError(t, session.Next())

	state, err := session.Tap(session.Elements[1].FieldID)
	require.NoError(t, err)
	assert.Equal(t, ElementPendingReason, state, "artifact exists so capture is skipped")

	state, err = session.ProvideReason("second reason")
	require.NoError(t, err)
	assert.Equal(t, ElementSigned, state, "session is authenticated, no second credential gate")
	assert.Equal(t, "second reason", session.Elements[1].Reason)
}

func TestAuthGateFiresOncePerSession(t *testing.T) {
	session := newSession(t, models.FieldSignature, models.FieldInitials, models.FieldSignature)
	assert.False(t, session.Authenticated)

	completeSignature(t, session, "first reason")
	assert.True(t, session.Authenticated, "first passed gate authenticates the session")
	require.NoError(t, session.Next())

	// Initials still need their first capture, but not the gate.
	_, err := session.Tap(session.Elements[1].FieldID)
	require.NoError(t, err)
	state, err := session.ProvideCapture("initials-image")
	require.NoError(t, err)
	assert.Equal(t, ElementSigned, state)
	assert.Equal(t, "initials-image", session.InitialsArtifact)
	require.NoError(t, session.Next())

	// A later signature needs its reason but signs without credentials.
	_, err = session.Tap(session.Elements[2].FieldID)
	require.NoError(t, err)
	state, err = session.ProvideReason("third reason")
	require.NoError(t, err)
	assert.Equal(t, ElementSigned, state)
	assert.True(t, session.CanFinish())
}

func TestInitialsFlow(t *testing.T) {
	session := newSession(t, models.FieldInitials, models.FieldInitials)

	state, err := session.Tap(session.Elements[0].FieldID)
	require.NoError(t, err)
	assert.Equal(t, ElementPendingCapture, state)

	state, err = session.ProvideCapture("initials-image")
	require.NoError(t, err)
	assert.Equal(t, ElementPendingAuth, state, "initials skip the reason step")

	_, err = session.ConfirmAuth()
	require.NoError(t, err)
	assert.Equal(t, "initials-image", session.InitialsArtifact)
	require.NoError(t, session.Next())

	state, err = session.Tap(session.Elements[1].FieldID)
	require.NoError(t, err)
	assert.Equal(t, ElementSigned, state, "subsequent initials reuse the artifact and the passed gate")
}

func TestTextElementsSignImmediately(t *testing.T) {
	for _, ft := range []models.FieldType{models.FieldTitleText, models.FieldPrefilledText} {
		t.Run(string(ft), func(t *testing.T) {
			session := newSession(t, ft)

			state, err := session.Tap(session.Elements[0].FieldID)
			require.NoError(t, err)
			assert.Equal(t, ElementPendingText, state)

			state, err = session.EnterText("Director of Engineering")
			require.NoError(t, err)
			assert.Equal(t, ElementSigned, state)
			assert.True(t, session.CanFinish())
		})
	}
}

func TestCancelDiscardsPendingState(t *testing.T) {
	session := newSession(t, models.FieldSignature)
	fieldID := session.Elements[0].FieldID

	_, err := session.Tap(fieldID)
	require.NoError(t, err)
	_, err = session.ProvideCapture("sig-image")
	require.NoError(t, err)
	_, err = session.ProvideReason("a reason")
	require.NoError(t, err)

	require.NoError(t, session.Cancel())
	assert.Equal(t, ElementUnsigned, session.Elements[0].State)
	assert.Empty(t, session.SignatureArtifact, "cancelled flow leaves no artifact behind")

	// The full flow is required again after a cancel.
	state, err := session.Tap(fieldID)
	require.NoError(t, err)
	assert.Equal(t, ElementPendingCapture, state)
}

func TestStepOrderEnforced(t *testing.T) {
	session := newSession(t, models.FieldSignature, models.FieldInitials)

	t.Run("cannot tap a later element", func(t *testing.T) {
		_, err := session.Tap(session.Elements[1].FieldID)
		assert.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("cannot skip to auth", func(t *testing.T) {
		_, err := session.Tap(session.Elements[0].FieldID)
		require.NoError(t, err)
		_, err = session.ConfirmAuth()
		assert.ErrorIs(t, err, ErrWrongStep)
		require.NoError(t, session.Cancel())
	})

	t.Run("reason limits enforced", func(t *testing.T) {
		_, err := session.Tap(session.Elements[0].FieldID)
		require.NoError(t, err)
		_, err = session.ProvideCapture("sig")
		require.NoError(t, err)

		_, err = session.ProvideReason("")
		assert.ErrorIs(t, err, ErrEmptyReason)
		_, err = session.ProvideReason(strings.Repeat("r", 51))
		assert.ErrorIs(t, err, ErrReasonTooLong)
	})
}

func TestNextAndFinish(t *testing.T) {
	session := newSession(t, models.FieldSignature, models.FieldInitials)

	assert.False(t, session.CanNext(), "next requires the current element signed")
	assert.ErrorIs(t, session.Next(), ErrElementNotSigned)
	assert.ErrorIs(t, session.Finish(), ErrNotAllSigned)

	completeSignature(t, session, "approving")
	assert.True(t, session.CanNext())
	assert.False(t, session.CanFinish())
	require.NoError(t, session.Next())

	_, err := session.Tap(session.Elements[1].FieldID)
	require.NoError(t, err)
	state, err := session.ProvideCapture("initials")
	require.NoError(t, err)
	assert.Equal(t, ElementSigned, state)

	assert.False(t, session.CanNext(), "no next on the last element")
	assert.ErrorIs(t, session.Next(), ErrLastElement)
	assert.True(t, session.CanFinish())
	require.NoError(t, session.Finish())
	assert.Equal(t, SessionAllSigned, session.Phase)

	_, err = session.Tap(session.Elements[0].FieldID)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestPendingFieldIDResumesAuth(t *testing.T) {
	session := newSession(t, models.FieldSignature)
	fieldID := session.Elements[0].FieldID

	_, ok := session.PendingFieldID()
	assert.False(t, ok, "nothing pending before the flow starts")

	_, err := session.Tap(fieldID)
	require.NoError(t, err)
	_, err = session.ProvideCapture("sig")
	require.NoError(t, err)
	_, err = session.ProvideReason("reason")
	require.NoError(t, err)

	got, ok := session.PendingFieldID()
	require.True(t, ok)
	assert.Equal(t, fieldID, got)
}

func completeSignature(t *testing.T, session *SigningSession, reason string) {
	t.Helper()
	_, err := session.Tap(session.Elements[session.Current].FieldID)
	require.NoError(t, err)
	if session.Elements[session.Current].State == ElementPendingCapture {
		_, err = session.ProvideCapture("sig-artifact")
		require.NoError(t, err)
	}
	_, err = session.ProvideReason(reason)
	require.NoError(t, err)
	_, err = session.ConfirmAuth()
	require.NoError(t, err)
}
