// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/radar/internal/domain/aggregate"
	"github.com/okian/radar/internal/domain/analysis"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GetActiveProfiles(ctx context.Context, scope model.Scope, explicitIDs []string) ([]model.Profile, error)
	GetSummary(profiles []model.Profile) model.Summary
	Radar(profiles []model.Profile) []aggregate.Row
	DiagnoseLearner(ctx context.Context, scope model.Scope, learnerID, competenceKey string) (model.Profile, analysis.Diagnosis, error)
	Catalog() *catalog.Catalog
	ColorFor(learnerID string) string
	TargetMax() float64
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithMount registers extra routes (docs, debug) on the root router.
func WithMount(mount func(r chi.Router)) Option {
	return func(s *Server) {
		if mount != nil {
			s.mounts = append(s.mounts, mount)
		}
	}
}

// Server wires HTTP routes for the radar API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	catalogHandler  *CatalogHandler
	profilesHandler *ProfilesHandler
	analysisHandler *AnalysisHandler
	exportHandler   *ExportHandler

	corsOrigins []string
	mounts      []func(r chi.Router)
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		catalogHandler:  NewCatalogHandler(deps),
		profilesHandler: NewProfilesHandler(deps),
		analysisHandler: NewAnalysisHandler(deps),
		exportHandler:   NewExportHandler(deps),
		corsOrigins:     []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router with every route attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", AccountHeader},
		ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/catalog", MetricsMiddleware(s.catalogHandler.HandleCatalog, "catalog"))
		v1.Get("/catalog/{key}", MetricsMiddleware(s.catalogHandler.HandleCompetence, "competence"))

		v1.Group(func(pr chi.Router) {
			pr.Use(AccountMiddleware)
			pr.Get("/profiles", MetricsMiddleware(s.profilesHandler.HandleProfiles, "profiles"))
			pr.Get("/summary", MetricsMiddleware(s.profilesHandler.HandleSummary, "summary"))
			pr.Get("/analysis", MetricsMiddleware(s.analysisHandler.HandleAnalysis, "analysis"))
			pr.Get("/export.xlsx", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
		})
	})

	for _, mount := range s.mounts {
		mount(r)
	}
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// requestSelection reads scope and ids from the query string.
func requestSelection(r *http.Request) (model.Scope, []string, error) {
	q := r.URL.Query()
	scope, err := model.ParseScope(q.Get("scope"))
	if err != nil {
		return "", nil, err
	}
	return scope, splitIDs(q.Get("ids")), nil
}

// splitIDs parses a comma separated id list, dropping blanks.
func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
