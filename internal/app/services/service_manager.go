package services

import (
	"context"
	"fmt"

	"github.com/quillsign/quillsign/internal/app/config"
	"github.com/quillsign/quillsign/internal/domain/services"
	"github.com/quillsign/quillsign/internal/infrastructure/cache"
	"github.com/quillsign/quillsign/internal/infrastructure/database"
	"github.com/quillsign/quillsign/internal/infrastructure/repositories/postgresql"
	"github.com/quillsign/quillsign/internal/infrastructure/storage/local"
)

// ServiceManager manages all application services
type ServiceManager struct {
	Config *config.Config

	// Infrastructure
	DB           *database.DB
	Repositories *postgresql.Repositories
	CacheService services.CacheService
	Storage      *local.StorageService

	// Domain services
	Auth          *services.AuthService
	Documents     *services.DocumentService
	Recipients    *services.RecipientService
	Notifications *services.NotificationService
	Reasons       *services.ReasonService
	Sessions      *services.SessionService
}

// NewServiceManager creates a new service manager
func NewServiceManager(cfg *config.Config, db *database.DB) (*ServiceManager, error) {
	repos := postgresql.NewRepositories(db)

	cacheService, err := cache.CreateCacheService(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache service: %w", err)
	}

	auth := services.NewAuthService(services.AuthConfig{
		UserID:   cfg.Demo.UserID,
		Name:     cfg.Demo.Name,
		Email:    cfg.Demo.Email,
		Password: cfg.Demo.Password,
	}, cacheService)

	storage := local.NewStorageService(cfg.Storage.Path)

	notifications := services.NewNotificationService(repos.NotificationRepo)
	documents := services.NewDocumentService(repos.DocumentRepo, notifications, cacheService, storage)
	recipients := services.NewRecipientService(repos.DocumentRepo, repos.NotificationRepo)
	reasons := services.NewReasonService(repos.ReasonRepo)
	sessions := services.NewSessionService(repos.DocumentRepo, auth, notifications, documents, reasons)

	sm := &ServiceManager{
		Config:        cfg,
		DB:            db,
		Repositories:  repos,
		CacheService:  cacheService,
		Storage:       storage,
		Auth:          auth,
		Documents:     documents,
		Recipients:    recipients,
		Notifications: notifications,
		Reasons:       reasons,
		Sessions:      sessions,
	}

	return sm, nil
}

// Health check for all services
func (sm *ServiceManager) HealthCheck() error {
	if err := sm.Repositories.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if err := sm.CacheService.Ping(context.Background()); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}

// Close gracefully shuts down all services
func (sm *ServiceManager) Close() error {
	if err := sm.CacheService.Close(); err != nil {
		return fmt.Errorf("failed to close cache service: %w", err)
	}

	if err := sm.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
