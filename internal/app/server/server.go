package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quillsign/quillsign/internal/app/config"
	"github.com/quillsign/quillsign/internal/app/handlers"
	"github.com/quillsign/quillsign/internal/app/middleware"
	appservices "github.com/quillsign/quillsign/internal/app/services"
	"github.com/quillsign/quillsign/pkg/logger"
)

type Server struct {
	config   *config.Config
	logger   *logger.Logger
	router   *gin.Engine
	server   *http.Server
	services *appservices.ServiceManager
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger, sm *appservices.ServiceManager) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(loggingMiddleware(log.Component("http")))

	server := &Server{
		config:   cfg,
		logger:   log,
		router:   router,
		services: sm,
	}

	server.setupRoutes()

	return server, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.services.Close(); err != nil {
		s.logger.Error("Error closing services", "error", err)
	}

	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.services.Auth)
	documentHandler := handlers.NewDocumentHandler(s.services.Documents, s.services.Recipients)
	notificationHandler := handlers.NewNotificationHandler(s.services.Notifications)
	reasonHandler := handlers.NewReasonHandler(s.services.Reasons)
	sessionHandler := handlers.NewSessionHandler(s.services.Sessions)
	userHandler := handlers.NewUserHandler(s.services.Repositories.UserRepo)

	s.router.GET("/health", s.healthCheck)

	// Rendered page rasters referenced by the page image URLs
	s.router.Static("/static/pages", s.services.Storage.BasePath())

	v1 := s.router.Group("/api/v1")
	{
		// Public routes
		v1.GET("/status", s.systemStatus)
		v1.POST("/auth/login", authHandler.Login)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(s.services.Auth))
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/me", authHandler.Me)

			protected.GET("/users", userHandler.List)

			protected.GET("/documents", documentHandler.List)
			protected.GET("/documents/all", documentHandler.ManageList)
			protected.GET("/documents/stats", documentHandler.Stats)
			protected.POST("/documents", documentHandler.Create)
			protected.GET("/documents/:id", documentHandler.Get)
			protected.DELETE("/documents/:id", documentHandler.Delete)
			protected.GET("/documents/:id/actions", documentHandler.Actions)
			protected.GET("/documents/:id/pages", documentHandler.Pages)
			protected.GET("/documents/:id/events", documentHandler.Events)
			protected.POST("/documents/:id/resend", documentHandler.Resend)
			protected.POST("/documents/:id/recipients", documentHandler.AssignRecipients)
			protected.GET("/documents/:id/fields", documentHandler.ListFields)
			protected.POST("/documents/:id/fields", documentHandler.PlaceField)
			protected.DELETE("/documents/:id/fields/:fieldId", documentHandler.RemoveField)

			protected.GET("/notifications", notificationHandler.Feed)
			protected.POST("/notifications/:id/seen", notificationHandler.MarkSeen)
			protected.DELETE("/notifications/document/:documentId", notificationHandler.RemoveByDocument)

			protected.GET("/reasons", reasonHandler.List)
			protected.POST("/reasons", reasonHandler.Add)
			protected.DELETE("/reasons", reasonHandler.Delete)

			protected.POST("/sessions", sessionHandler.Open)
			protected.GET("/sessions/:id", sessionHandler.Get)
			protected.POST("/sessions/:id/tap", sessionHandler.Tap)
			protected.POST("/sessions/:id/capture", sessionHandler.Capture)
			protected.POST("/sessions/:id/reason", sessionHandler.Reason)
			protected.POST("/sessions/:id/text", sessionHandler.Text)
			protected.POST("/sessions/:id/auth", sessionHandler.Authenticate)
			protected.POST("/sessions/:id/cancel", sessionHandler.Cancel)
			protected.POST("/sessions/:id/next", sessionHandler.Next)
			protected.POST("/sessions/:id/finish", sessionHandler.Finish)
			protected.DELETE("/sessions/:id", sessionHandler.Abandon)
		}
	}
}

// Health check handler
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.services.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": s.config.Environment,
	})
}

// System status handler
func (s *Server) systemStatus(c *gin.Context) {
	dbStatus := "healthy"
	if err := s.services.DB.Ping(); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if err := s.services.CacheService.Ping(c.Request.Context()); err != nil {
		redisStatus = "unhealthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  dbStatus,
		"redis":     redisStatus,
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// corsMiddleware configures CORS
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(corsConfig)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}
