package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/todmy/insight-engine/internal/auth"
	"github.com/todmy/insight-engine/internal/engine"
	"github.com/todmy/insight-engine/internal/innovation"
	"github.com/todmy/insight-engine/internal/storage"
)

type Server struct {
	router       *chi.Mux
	db           *sql.DB
	authService  auth.Service
	authHandlers *auth.Handlers
	orchestrator *engine.Orchestrator
	generator    *innovation.Generator
	reports      storage.ReportRepository
	logger       *slog.Logger
}

// ServerConfig carries the collaborators the HTTP layer exposes. The
// generator is optional; when nil the insights endpoint skips idea
// generation and reporting.
type ServerConfig struct {
	DB           *sql.DB
	AuthService  auth.Service
	Orchestrator *engine.Orchestrator
	Generator    *innovation.Generator
	Reports      storage.ReportRepository
	Logger       *slog.Logger
}

func NewServer(config ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:       r,
		db:           config.DB,
		authService:  config.AuthService,
		authHandlers: auth.NewHandlers(config.AuthService),
		orchestrator: config.Orchestrator,
		generator:    config.Generator,
		reports:      config.Reports,
		logger:       logger,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.authHandlers.Register)
		r.Post("/auth/login", s.authHandlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))
			r.Get("/auth/me", s.authHandlers.Me)

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/", s.handleListReports)
				r.Get("/{reportID}", s.handleGetReport)
				r.Delete("/{reportID}", s.handleDeleteReport)
			})
		})

		// Insights work with or without a logged-in user; reports are
		// only persisted under an account when one is present.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalMiddleware(s.authService))
			r.Post("/insights", s.handleInsights)
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if s.db == nil {
		dbStatus = "not configured"
	} else if err := s.db.PingContext(r.Context()); err != nil {
		dbStatus = "unreachable"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"database":        dbStatus,
		"idea_generation": s.generator != nil,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
