package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filmgrid/catalog/internal/core/ports/driven"
	"github.com/filmgrid/catalog/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	logger     *slog.Logger
	version    string

	// Services
	filmService    driving.FilmService
	genreService   driving.GenreService
	personService  driving.PersonService
	reindexService driving.ReindexService

	// Default index names; rebuild endpoints can override per request
	filmsIndex   string
	genresIndex  string
	personsIndex string

	// Infrastructure
	tokenVerifier driven.TokenVerifier // nil disables auth on rebuild endpoints
	searchBackend Pinger
	cacheBackend  Pinger // optional
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	FilmsIndex   string
	GenresIndex  string
	PersonsIndex string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		Version:      "dev",
		FilmsIndex:   "movies",
		GenresIndex:  "genres",
		PersonsIndex: "persons",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	filmService driving.FilmService,
	genreService driving.GenreService,
	personService driving.PersonService,
	reindexService driving.ReindexService,
	tokenVerifier driven.TokenVerifier, // can be nil
	searchBackend Pinger,
	cacheBackend Pinger, // can be nil
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:         http.NewServeMux(),
		logger:         logger,
		version:        cfg.Version,
		filmService:    filmService,
		genreService:   genreService,
		personService:  personService,
		reindexService: reindexService,
		filmsIndex:     cfg.FilmsIndex,
		genresIndex:    cfg.GenresIndex,
		personsIndex:   cfg.PersonsIndex,
		tokenVerifier:  tokenVerifier,
		searchBackend:  searchBackend,
		cacheBackend:   cacheBackend,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.tokenVerifier)

	// Health and operational endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.Handle("GET /metrics", promhttp.Handler())

	// Catalog read endpoints (public)
	s.router.HandleFunc("GET /api/v1/films", s.handleSearchFilms)
	s.router.HandleFunc("GET /api/v1/films/{id}", s.handleGetFilm)
	s.router.HandleFunc("GET /api/v1/genres", s.handleListGenres)
	s.router.HandleFunc("GET /api/v1/genres/{id}", s.handleGetGenre)
	s.router.HandleFunc("GET /api/v1/persons", s.handleListPersons)
	s.router.HandleFunc("GET /api/v1/persons/{id}", s.handleGetPerson)

	// Rebuild endpoints (bearer token when a verifier is configured)
	s.router.Handle("POST /api/v1/etl/genres",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleRebuildGenres)))
	s.router.Handle("POST /api/v1/etl/persons",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleRebuildPersons)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
