package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quillsign/quillsign/internal/app/config"
	"github.com/quillsign/quillsign/internal/app/server"
	appservices "github.com/quillsign/quillsign/internal/app/services"
	"github.com/quillsign/quillsign/internal/infrastructure/database"
	"github.com/quillsign/quillsign/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := database.New(cfg.GetDatabaseURL())
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Wire services
	sm, err := appservices.NewServiceManager(cfg, db)
	if err != nil {
		log.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	// Create server
	srv, err := server.New(cfg, log, sm)
	if err != nil {
		log.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting QuillSign server", "port", cfg.Server.Port, "environment", cfg.Environment)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server shutdown complete")
}
