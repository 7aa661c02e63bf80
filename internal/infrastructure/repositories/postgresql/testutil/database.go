package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/infrastructure/database"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
)

// TestDB wraps the database for testing
type TestDB struct {
	*database.DB
}

// NewTestDB creates a new test database connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	// Use DATABASE_URL_TEST if available (for Docker), otherwise SQLite
	databaseURL := os.Getenv("DATABASE_URL_TEST")
	if databaseURL == "" {
		databaseURL = "file::memory:?cache=shared"
		t.Logf("Using SQLite in-memory database for testing")
	} else {
		t.Logf("Using PostgreSQL database for testing: %s", databaseURL)
	}

	db, err := database.New(databaseURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{DB: db}
}

// Cleanup closes the test database
func (db *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	for _, model := range models.GetAllModels() {
		db.Where("1 = 1").Delete(model)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Failed to close test database: %v", err)
	}
}

// CreateTestUser creates a test user
func (db *TestDB) CreateTestUser(t *testing.T) *models.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user := &models.User{
		ID:    fmt.Sprintf("us-%s", suffix),
		Name:  fmt.Sprintf("Test User %s", suffix),
		Email: fmt.Sprintf("test-%s@example.com", suffix),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestDocument creates a test document authored by the given user
func (db *TestDB) CreateTestDocument(t *testing.T, author *models.User, status models.DocStatus) *models.Document {
	t.Helper()

	document := &models.Document{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Test Agreement %s.pdf", uuid.New().String()[:8]),
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		TotalPages:  3,
		Status:      status,
		DateAdded:   time.Now().UTC(),
		LastChanged: time.Now().UTC(),
	}

	if err := db.Create(document).Error; err != nil {
		t.Fatalf("Failed to create test document: %v", err)
	}

	return document
}

// CreateTestSignee attaches a signee to a document
func (db *TestDB) CreateTestSignee(t *testing.T, doc *models.Document, name, email string, position int) *models.Signee {
	t.Helper()

	signee := &models.Signee{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		Name:       name,
		Email:      email,
		Type:       models.SigneeSigner,
		Position:   position,
	}

	if err := db.Create(signee).Error; err != nil {
		t.Fatalf("Failed to create test signee: %v", err)
	}

	return signee
}

// CreateTestNotification creates a notification in the given state
func (db *TestDB) CreateTestNotification(t *testing.T, documentID uuid.UUID, state models.NotificationState) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		ID:           uuid.New(),
		Type:         models.NotifySignatureRequired,
		DocumentID:   documentID,
		DocumentName: "Test Agreement.pdf",
		State:        state,
		Timestamp:    time.Now().UTC(),
	}

	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("Failed to create test notification: %v", err)
	}

	return notification
}
