package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/okian/radar/internal/adapters/export"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
)

// ExportDependencies defines the interface for spreadsheet exports.
type ExportDependencies interface {
	GetActiveProfiles(ctx context.Context, scope model.Scope, explicitIDs []string) ([]model.Profile, error)
	GetSummary(profiles []model.Profile) model.Summary
	Catalog() *catalog.Catalog
}

// ExportHandler handles spreadsheet export requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /v1/export.xlsx requests. An empty selection
// still yields a valid workbook.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	scope, ids, err := requestSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	profiles, _, ok := activeProfiles(w, r, h.deps, scope, ids)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, h.deps.Catalog(), profiles, h.deps.GetSummary(profiles)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="radar.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
