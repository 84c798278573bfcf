package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/analysis"
	"github.com/okian/radar/internal/domain/model"
)

// AnalysisDependencies defines the interface for diagnoses.
type AnalysisDependencies interface {
	DiagnoseLearner(ctx context.Context, scope model.Scope, learnerID, competenceKey string) (model.Profile, analysis.Diagnosis, error)
}

// AnalysisHandler handles analysis requests.
type AnalysisHandler struct {
	deps AnalysisDependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

type analysisResponse struct {
	NoData    bool                `json:"noData"`
	LearnerID string              `json:"learner,omitempty"`
	Diagnosis *analysis.Diagnosis `json:"diagnosis,omitempty"`
}

// HandleAnalysis handles GET /v1/analysis requests.
func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope, err := model.ParseScope(q.Get("scope"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	focus := model.FocusSelection{
		CompetenceKey:    strings.TrimSpace(q.Get("competence")),
		ActiveProfileIDs: splitIDs(q.Get("learner")),
	}
	if focus.CompetenceKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing competence", ErrBadRequest))
		return
	}
	var learner string
	if len(focus.ActiveProfileIDs) > 0 {
		learner = focus.ActiveProfileIDs[0]
	}

	p, d, err := h.deps.DiagnoseLearner(r.Context(), scope, learner, focus.CompetenceKey)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, analysisResponse{LearnerID: p.ID, Diagnosis: &d})
	case errors.Is(err, service.ErrNoData):
		writeJSON(w, http.StatusOK, analysisResponse{NoData: true})
	default:
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	}
}
