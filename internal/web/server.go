// Package web serves playlist rankings over a JSON HTTP API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/justestif/go-spotify-lyric-mood/internal/clustering"
	"github.com/justestif/go-spotify-lyric-mood/internal/db"
	"github.com/justestif/go-spotify-lyric-mood/internal/logging"
	"github.com/justestif/go-spotify-lyric-mood/internal/pipeline"
	"github.com/justestif/go-spotify-lyric-mood/internal/ranking"
	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8081"

// Ranker runs the ranking pipeline.
type Ranker interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	Groups(ctx context.Context, playlistID string, clean bool, cfg clustering.Config) (*pipeline.GroupsResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*db.Run, error)
	ListRuns(ctx context.Context, playlistID string, limit int) ([]db.Run, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}

// Defaults fill in query parameters a request leaves out.
type Defaults struct {
	Provider sentiment.Kind
	Mood     ranking.Mood
	Limit    int
	Clean    bool
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr     string
	Defaults Defaults
	Logger   *log.Logger
}

// Server is the HTTP server for the ranking API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	logger   *log.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, ranker Ranker) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	router := chi.NewRouter()
	s := &Server{
		router:   router,
		handlers: NewHandlers(ranker, cfg.Defaults, cfg.Logger),
		logger:   cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	// A ranking fetches lyrics for every track before the first byte is written.
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  s.logger.StandardLog(),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handlers.Health)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/playlists/{id}/ranking", s.handlers.Ranking)
		r.Get("/playlists/{id}/groups", s.handlers.Groups)
		r.Get("/playlists/{id}/runs", s.handlers.ListRuns)
		r.Get("/runs/{id}", s.handlers.GetRun)
		r.Delete("/runs/{id}", s.handlers.DeleteRun)
	})
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", "http://"+s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}
