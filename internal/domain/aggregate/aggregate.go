// Package aggregate selects the active profiles of a request and computes
// the summary shown above the radar.
package aggregate

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/scoring"
)

// Result is the aggregated view of a request.
type Result struct {
	Active  []model.Profile `json:"active"`
	Summary model.Summary   `json:"summary"`
}

// Aggregator orders profiles by display name for one locale.
type Aggregator struct {
	tag language.Tag
}

// New creates an Aggregator. An unparsable locale falls back to English.
func New(locale string) *Aggregator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Aggregator{tag: tag}
}

// Aggregate keeps the profiles listed in activeIDs, sorts them by name and
// summarizes them. A single learner is simply a one-element activeIDs.
func (a *Aggregator) Aggregate(profiles []model.Profile, activeIDs []string) Result {
	want := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		want[id] = struct{}{}
	}

	active := make([]model.Profile, 0, len(activeIDs))
	for _, p := range profiles {
		if _, ok := want[p.ID]; ok {
			active = append(active, p)
		}
	}
	a.Sort(active)

	return Result{Active: active, Summary: Summarize(active)}
}

// Sort orders profiles in place by display name, then by ID.
func (a *Aggregator) Sort(profiles []model.Profile) {
	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(a.tag)
	slices.SortStableFunc(profiles, func(x, y model.Profile) int {
		if c := col.CompareString(x.Name, y.Name); c != 0 {
			return c
		}
		return strings.Compare(x.ID, y.ID)
	})
}

// Summarize totals raw scores and raw maxima across every profile and
// competence.
func Summarize(profiles []model.Profile) model.Summary {
	var total, max float64
	for _, p := range profiles {
		t, m := p.RawTotals()
		total += t
		max += m
	}
	pct := scoring.Percentage(total, max)
	return model.Summary{
		TotalScore:    scoring.Round2(total),
		MaxTotalScore: scoring.Round2(max),
		Percentage:    pct,
		Level:         scoring.LevelFor(pct),
	}
}

// Row is one radar axis with the value of every profile keyed by profile ID.
type Row struct {
	CompetenceKey string             `json:"competence"`
	Label         string             `json:"label"`
	Kind          catalog.Kind       `json:"kind"`
	Values        map[string]float64 `json:"values"`
}

// Radar zips profiles into one row per catalog axis.
func Radar(cat *catalog.Catalog, profiles []model.Profile) []Row {
	comps := cat.Competences()
	rows := make([]Row, len(comps))
	for i, comp := range comps {
		values := make(map[string]float64, len(profiles))
		for _, p := range profiles {
			s, _ := p.Score(comp.Key)
			values[p.ID] = s.Value
		}
		rows[i] = Row{
			CompetenceKey: comp.Key,
			Label:         comp.Label,
			Kind:          comp.Kind,
			Values:        values,
		}
	}
	return rows
}
