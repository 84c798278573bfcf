package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/aggregate"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/pkg/logger"
)

// ProfilesDependencies defines the interface for profile reads.
type ProfilesDependencies interface {
	GetActiveProfiles(ctx context.Context, scope model.Scope, explicitIDs []string) ([]model.Profile, error)
	GetSummary(profiles []model.Profile) model.Summary
	Radar(profiles []model.Profile) []aggregate.Row
	ColorFor(learnerID string) string
	TargetMax() float64
}

// ProfilesHandler handles profile and summary requests.
type ProfilesHandler struct {
	deps ProfilesDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfilesDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

type legendEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type profilesResponse struct {
	NoData    bool            `json:"noData"`
	TargetMax float64         `json:"targetMax"`
	Profiles  []model.Profile `json:"profiles"`
	Legend    []legendEntry   `json:"legend"`
	Summary   model.Summary   `json:"summary"`
	Radar     []aggregate.Row `json:"radar"`
}

type summaryResponse struct {
	NoData  bool          `json:"noData"`
	Summary model.Summary `json:"summary"`
}

// HandleProfiles handles GET /v1/profiles requests.
func (h *ProfilesHandler) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, noData, ok := h.load(w, r)
	if !ok {
		return
	}
	legend := make([]legendEntry, len(profiles))
	for i, p := range profiles {
		legend[i] = legendEntry{ID: p.ID, Name: p.Name, Color: h.deps.ColorFor(p.ID)}
	}
	writeJSON(w, http.StatusOK, profilesResponse{
		NoData:    noData,
		TargetMax: h.deps.TargetMax(),
		Profiles:  profiles,
		Legend:    legend,
		Summary:   h.deps.GetSummary(profiles),
		Radar:     h.deps.Radar(profiles),
	})
}

// HandleSummary handles GET /v1/summary requests.
func (h *ProfilesHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	profiles, noData, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{NoData: noData, Summary: h.deps.GetSummary(profiles)})
}

// load resolves the active profiles of a request. A "no data" outcome is
// not an error for the client; ok is false only when a response was
// already written.
func (h *ProfilesHandler) load(w http.ResponseWriter, r *http.Request) (profiles []model.Profile, noData, ok bool) {
	scope, ids, err := requestSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return nil, false, false
	}
	return activeProfiles(w, r, h.deps, scope, ids)
}

type profileSource interface {
	GetActiveProfiles(ctx context.Context, scope model.Scope, explicitIDs []string) ([]model.Profile, error)
}

func activeProfiles(w http.ResponseWriter, r *http.Request, deps profileSource, scope model.Scope, ids []string) ([]model.Profile, bool, bool) {
	profiles, err := deps.GetActiveProfiles(r.Context(), scope, ids)
	switch {
	case err == nil:
		return profiles, false, true
	case errors.Is(err, service.ErrNoData):
		logger.Get().Debug(r.Context(), "no data for request",
			logger.String("scope", string(scope)),
			logger.Strings("ids", ids),
			logger.Bool("explicit", len(ids) > 0),
			logger.Error(err),
		)
		return []model.Profile{}, true, true
	default:
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
		return nil, false, false
	}
}
