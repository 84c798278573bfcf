package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/radar/internal/domain/catalog"
)

// CatalogDependencies defines the interface for catalog reads.
type CatalogDependencies interface {
	Catalog() *catalog.Catalog
	TargetMax() float64
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type competenceView struct {
	catalog.Competence
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
}

type catalogResponse struct {
	TargetMax   float64          `json:"targetMax"`
	Competences []competenceView `json:"competences"`
}

// HandleCatalog handles GET /v1/catalog requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	cat := h.deps.Catalog()
	comps := cat.Competences()
	views := make([]competenceView, len(comps))
	for i, c := range comps {
		views[i] = viewOf(cat, c)
	}
	writeJSON(w, http.StatusOK, catalogResponse{TargetMax: h.deps.TargetMax(), Competences: views})
}

// HandleCompetence handles GET /v1/catalog/{key} requests.
func (h *CatalogHandler) HandleCompetence(w http.ResponseWriter, r *http.Request) {
	cat := h.deps.Catalog()
	comp, err := cat.Get(chi.URLParam(r, "key"))
	if errors.Is(err, catalog.ErrUnknown) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(cat, comp))
}

func viewOf(cat *catalog.Catalog, c catalog.Competence) competenceView {
	return competenceView{
		Competence: c,
		Parents:    cat.ParentsOf(c.Key),
		Children:   cat.ChildrenOf(c.Key),
	}
}
