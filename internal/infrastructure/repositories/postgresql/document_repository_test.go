package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
	"github.com/quillsign/quillsign/internal/infrastructure/repositories/postgresql/testutil"
)

func TestDocumentRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)

	document := &models.Document{
		Name:        "Consulting Agreement.pdf",
		AuthorID:    user.ID,
		AuthorName:  user.Name,
		AuthorEmail: user.Email,
		TotalPages:  5,
		Status:      models.DocStatusDraft,
		DateAdded:   time.Now().UTC(),
		LastChanged: time.Now().UTC(),
	}

	err := repo.Create(ctx, document)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, document.ID)
}

func TestDocumentRepository_GetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)
	doc := db.CreateTestDocument(t, user, models.DocStatusSent)
	db.CreateTestSignee(t, doc, "Second Signer", "second@example.com", 1)
	db.CreateTestSignee(t, doc, "First Signer", "first@example.com", 0)

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Name, got.Name)
	require.Len(t, got.Signees, 2)
	// Signees come back in position order
	assert.Equal(t, "first@example.com", got.Signees[0].Email)
	assert.Equal(t, "second@example.com", got.Signees[1].Email)
}

func TestDocumentRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)
	doc := db.CreateTestDocument(t, user, models.DocStatusDraft)

	err := repo.UpdateStatus(ctx, doc.ID, models.DocStatusSent)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusSent, got.Status)
}

func TestDocumentRepository_ReplaceSignees(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)
	doc := db.CreateTestDocument(t, user, models.DocStatusDraft)
	db.CreateTestSignee(t, doc, "Old Signer", "old@example.com", 0)

	newSignees := []models.Signee{
		{ID: uuid.New(), DocumentID: doc.ID, Name: "Anna", Email: "anna@example.com", Type: models.SigneeSigner, Position: 0},
		{ID: uuid.New(), DocumentID: doc.ID, Name: "Ben", Email: "ben@example.com", Type: models.SigneeApprover, Position: 1},
	}
	err := repo.ReplaceSignees(ctx, doc.ID, newSignees)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Signees, 2)
	assert.Equal(t, "anna@example.com", got.Signees[0].Email)
	assert.Equal(t, "ben@example.com", got.Signees[1].Email)
}

func TestDocumentRepository_AddSignedEntry(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)
	doc := db.CreateTestDocument(t, user, models.DocStatusSent)
	db.CreateTestSignee(t, doc, "Anna", "anna@example.com", 0)

	entry := &models.SignedEntry{
		DocumentID: doc.ID,
		Name:       "Anna",
		Email:      "anna@example.com",
		SignedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.AddSignedEntry(ctx, entry))

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.SignedEntries, 1)
	assert.Equal(t, "anna@example.com", got.SignedEntries[0].Email)
}

func TestDocumentRepository_Fields(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)
	doc := db.CreateTestDocument(t, user, models.DocStatusDraft)
	db.CreateTestSignee(t, doc, "Anna", "anna@example.com", 0)

	field := &models.SignatureField{
		DocumentID:    doc.ID,
		Type:          models.FieldSignature,
		PageIndex:     0,
		XPercent:      18.75,
		YPercent:      45.45,
		WidthPercent:  62.5,
		HeightPercent: 9.09,
		AssigneeName:  "Anna",
		AssigneeEmail: "anna@example.com",
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.AddField(ctx, field))

	fields, err := repo.ListFields(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, models.FieldSignature, fields[0].Type)

	require.NoError(t, repo.RemoveField(ctx, doc.ID, field.ID))

	fields, err = repo.ListFields(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDocumentRepository_Delete_Cascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer db.Cleanup(t)

	repo := NewDocumentRepository(db.DB)
	ctx := context.Background()

	user := db.CreateTestUser(t)
	doc := db.CreateTestDocument(t, user, models.DocStatusSent)
	db.CreateTestSignee(t, doc, "Anna", "anna@example.com", 0)

	require.NoError(t, repo.Delete(ctx, doc.ID))

	_, err := repo.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	var signeeCount int64
	db.Model(&models.Signee{}).Where("document_id = ?", doc.ID).Count(&signeeCount)
	assert.Zero(t, signeeCount)
}
