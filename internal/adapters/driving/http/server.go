package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/archivo-labs/archivo-core/internal/core/ports/driven"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService      driving.AuthService
	docService       driving.DocumentService
	tagService       driving.TagService
	ingestionService driving.IngestionService

	// Infrastructure
	fileStore   driven.FileStore
	taskQueue   driven.TaskQueue // nil means uploads are ingested synchronously
	db          Pinger           // PostgreSQL health check
	redisClient Pinger           // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	docService driving.DocumentService,
	tagService driving.TagService,
	ingestionService driving.IngestionService,
	fileStore driven.FileStore,
	taskQueue driven.TaskQueue, // can be nil
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		authService:      authService,
		docService:       docService,
		tagService:       tagService,
		ingestionService: ingestionService,
		fileStore:        fileStore,
		taskQueue:        taskQueue,
		db:               db,
		redisClient:      redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoint (public): API key in, bearer token out
	s.router.HandleFunc("POST /api/v1/auth/token", s.handleIssueToken)

	// Document endpoints (authenticated)
	s.router.Handle("POST /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUploadDocument)))
	s.router.Handle("GET /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListDocuments)))
	s.router.Handle("GET /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDocument)))
	s.router.Handle("DELETE /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteDocument)))
	s.router.Handle("POST /api/v1/documents/{id}/reprocess",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleReprocessDocument)))

	// Tag endpoints (authenticated)
	s.router.Handle("POST /api/v1/documents/{id}/tags",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleConfirmTags)))
	s.router.Handle("DELETE /api/v1/documents/{id}/tags/{name}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleRemoveTag)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
