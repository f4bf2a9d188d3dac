package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/ironquest/internal/config"
	"github.com/claude/ironquest/internal/ingest"
	"github.com/claude/ironquest/internal/storage"
	"github.com/go-chi/chi/v5"
)

// defaultUserID identifies the single athlete in this self-hosted deployment.
const defaultUserID = 1

// Referenced progression templates. Strength and maintenance work follows
// fixed templates managed outside the engine; the oracle points at them by ID
// instead of generating sessions.
const (
	strengthTemplateID    = "tpl-strength-a"
	maintenanceTemplateID = "tpl-maintenance-a"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	ingest *ingest.Provider
	log    *slog.Logger
	apiKey string
	engine config.EngineConfig
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, provider *ingest.Provider, apiKey string, engineCfg config.EngineConfig, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		ingest: provider,
		log:    log,
		apiKey: apiKey,
		engine: engineCfg,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/wellness", s.handleWellnessIngest)
		r.Post("/events", s.handleEventsIngest)
		r.Post("/activity", s.handleActivityIngest)
	})

	// Engine endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/recommendation", s.handleRecommendation)
	s.router.Get("/api/v1/readiness", s.handleReadiness)
	s.router.Get("/api/v1/balance", s.handleBalance)
	s.router.Post("/api/v1/classify", s.handleClassify)
	s.router.Get("/api/v1/plates", s.handlePlates)
	s.router.Post("/api/v1/regulate", s.handleRegulate)

	// Skill tree
	s.router.Get("/api/v1/skills", s.handleListSkills)
	s.router.Get("/api/v1/skills/{id}", s.handleGetSkill)

	// Exercise log and calendar
	s.router.Post("/api/v1/log", s.handleAppendLog)
	s.router.Get("/api/v1/log", s.handleQueryLog)
	s.router.Get("/api/v1/log/best", s.handleLogBest)
	s.router.Get("/api/v1/events", s.handleQueryEvents)

	// Raw data for the remote MCP client
	s.router.Get("/api/v1/snapshots/latest", s.handleLatestSnapshot)
	s.router.Get("/api/v1/activity/cardio", s.handleCardioMinutes)
}
