package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/quillsign/quillsign/internal/app/config"
	"github.com/quillsign/quillsign/internal/infrastructure/database"
	"github.com/quillsign/quillsign/internal/infrastructure/database/models"
	"github.com/quillsign/quillsign/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	// Initialize logger
	logger := logger.New().Component("migrate")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		runMigrations(db, logger)
	case "reset":
		resetDatabase(db, logger)
	case "seed":
		seedDatabase(cfg, db, logger)
	case "status":
		migrationStatus(db, logger)
	default:
		logger.Error("Unknown command", "command", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  up     - Run all pending migrations")
	fmt.Println("  reset  - Drop all tables and recreate them")
	fmt.Println("  seed   - Seed the database with demo data")
	fmt.Println("  status - Show migration status")
}

func runMigrations(db *database.DB, logger *logger.Logger) {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return
	}

	logger.Info("Database migrations completed successfully")
}

func resetDatabase(db *database.DB, logger *logger.Logger) {
	logger.Info("Resetting database...")

	// Drop in reverse dependency order so foreign keys do not get in the way
	tables := []interface{}{
		&models.PageImage{},
		&models.AuditEvent{},
		&models.SignatureField{},
		&models.SignedEntry{},
		&models.Signee{},
		&models.Notification{},
		&models.Document{},
		&models.SignatureReason{},
		&models.User{},
	}

	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			logger.Error("Failed to drop table", "error", err)
		}
	}

	runMigrations(db, logger)

	logger.Info("Database reset completed")
}

func seedDatabase(cfg *config.Config, db *database.DB, logger *logger.Logger) {
	logger.Info("Seeding database with demo data...")

	// The demo account plus a small directory for recipient lookup
	users := []models.User{
		{ID: cfg.Demo.UserID, Name: cfg.Demo.Name, Email: cfg.Demo.Email},
		{ID: "us2233445567", Name: "Jane Smith", Email: "jane.smith@cloudbyz.com"},
		{ID: "us3344556678", Name: "Robert Chen", Email: "robert.chen@cloudbyz.com"},
		{ID: "us4455667789", Name: "Priya Patel", Email: "priya.patel@cloudbyz.com"},
		{ID: "us5566778890", Name: "Miguel Santos", Email: "miguel.santos@cloudbyz.com"},
	}
	for _, user := range users {
		if err := db.FirstOrCreate(&user, models.User{ID: user.ID}).Error; err != nil {
			logger.Error("Failed to create user", "email", user.Email, "error", err)
		}
	}

	// Curated primary reasons; user additions land in the "other" list
	primaryReasons := []string{
		"I am the author of this document",
		"I approve this document",
		"I have reviewed this document",
		"I am a witness to this signing",
	}
	for _, text := range primaryReasons {
		reason := models.SignatureReason{ID: uuid.New(), Text: text, Kind: models.ReasonPrimary}
		if err := db.FirstOrCreate(&reason, models.SignatureReason{Text: text}).Error; err != nil {
			logger.Error("Failed to create reason", "text", text, "error", err)
		}
	}

	// One draft document so the dashboard is not empty on first login
	doc := models.Document{
		ID:          uuid.New(),
		Name:        "Mutual NDA.pdf",
		AuthorID:    cfg.Demo.UserID,
		AuthorName:  cfg.Demo.Name,
		AuthorEmail: cfg.Demo.Email,
		TotalPages:  3,
		Status:      models.DocStatusDraft,
		DateAdded:   time.Now().UTC(),
		LastChanged: time.Now().UTC(),
	}
	var existing models.Document
	if err := db.Where("name = ? AND author_id = ?", doc.Name, doc.AuthorID).First(&existing).Error; err != nil {
		if err := db.Create(&doc).Error; err != nil {
			logger.Error("Failed to create sample document", "error", err)
			return
		}
		for page := 0; page < doc.TotalPages; page++ {
			image := models.PageImage{
				ID:         uuid.New(),
				DocumentID: doc.ID,
				PageIndex:  page,
				URL:        fmt.Sprintf("/static/pages/%s/%d.png", doc.ID, page),
			}
			if err := db.Create(&image).Error; err != nil {
				logger.Error("Failed to create page image", "page", page, "error", err)
			}
		}
	}

	logger.Info("Database seeding completed")
}

func migrationStatus(db *database.DB, logger *logger.Logger) {
	logger.Info("Checking migration status...")

	for _, model := range models.GetAllModels() {
		exists := db.Migrator().HasTable(model)
		logger.Info("Table status", "model", fmt.Sprintf("%T", model), "exists", exists)
	}
}
