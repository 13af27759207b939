// Package server is the web portal: it renders the auth form at / and the
// gated dashboard at /dashboard on top of portal.Controller.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portald-dev/portald/internal/authapi"
	"github.com/portald-dev/portald/internal/config"
	"github.com/portald-dev/portald/internal/portal"
	"github.com/portald-dev/portald/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  zerolog.Logger
	api     portal.Authenticator
	backend session.Backend
	version string

	// pending marks browser scopes with a submission in flight
	pending sync.Map
}

// New creates a new server instance wired to the configured Auth API and
// session backend
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backend, err := openBackend(ctx, cfg, zlog)
	if err != nil {
		return nil, err
	}

	api := authapi.New(cfg.API.BaseURL, cfg.API.Timeout)

	return NewWithDeps(cfg, zlog, api, backend, version)
}

// NewWithDeps creates a server over explicit collaborators
func NewWithDeps(cfg *config.Config, zlog zerolog.Logger, api portal.Authenticator, backend session.Backend, version string) (*Server, error) {
	server := &Server{
		config:  cfg,
		logger:  zlog,
		api:     api,
		backend: backend,
		version: version,
	}

	if err := server.setupRouter(); err != nil {
		return nil, err
	}

	return server, nil
}

// openBackend initializes the session backend selected by SESSION_BACKEND
func openBackend(ctx context.Context, cfg *config.Config, zlog zerolog.Logger) (session.Backend, error) {
	switch cfg.Session.Backend {
	case config.BackendSQLite:
		db, err := session.OpenSQLite(cfg.Session.DatabaseURL, zlog)
		if err != nil {
			return nil, err
		}
		return session.NewGormBackend(db)
	case config.BackendRedis:
		return session.NewRedisBackend(ctx, cfg.Session.RedisAddress)
	case config.BackendMemory, "":
		zlog.Warn().Msg("Using in-memory session backend - sessions are lost on restart")
		return session.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() error {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.router.SetHTMLTemplate(tmpl)

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(s.config.HTTP.AllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.HTTP.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	pages := s.router.Group("/")
	pages.Use(s.sameOriginMiddleware(), s.scopeMiddleware())
	{
		pages.GET(portal.RootPath, s.authPage)
		pages.POST(portal.RootPath, s.submitForm)
		pages.GET(portal.DashboardPath, s.dashboardPage)
		pages.POST("/logout", s.logout)
	}

	return nil
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "portald",
		"version":   s.version,
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the session backend
func (s *Server) Close() error {
	return s.backend.Close()
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.HTTP.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Str("api", s.config.API.BaseURL).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.logger.Error().Err(err).Msg("HTTP server error")
		_ = s.Close()
		return err
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	if err := s.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing session backend")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
