// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"

	"github.com/okian/radar/internal/domain/scoring"
)

// CompetenceScore is one raw row produced by the data source.
type CompetenceScore struct {
	CompetenceKey string  // catalog key, e.g. "mathematiques"
	RawScore      float64 // raw points, expected >= 0
	RawMax        float64 // raw maximum; <= 0 means no data
}

// Score is a normalized competence value on the radar scale.
type Score struct {
	CompetenceKey string        `json:"competence"`
	Value         float64       `json:"value"`
	RawScore      float64       `json:"raw_score"`
	RawMax        float64       `json:"raw_max"`
	Level         scoring.Level `json:"level"`
	Progress      int           `json:"progress"`
}

// Profile is one learner's normalized competence set in catalog order.
type Profile struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Scores []Score `json:"scores"`
}

// Score returns the normalized entry for key.
func (p Profile) Score(key string) (Score, bool) {
	for _, s := range p.Scores {
		if s.CompetenceKey == key {
			return s, true
		}
	}
	return Score{}, false
}

// RawTotals sums raw scores and raw maxima across every competence.
func (p Profile) RawTotals() (total, max float64) {
	for _, s := range p.Scores {
		total += s.RawScore
		if s.RawMax > 0 {
			max += s.RawMax
		}
	}
	return total, max
}

// Summary is the headline reading of a set of active profiles.
type Summary struct {
	TotalScore    float64       `json:"total_score"`
	MaxTotalScore float64       `json:"max_total_score"`
	Percentage    int           `json:"percentage"`
	Level         scoring.Level `json:"level"`
}

// Learner is a learner identity exposed by the session collaborator.
type Learner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Scope selects which learners a request covers.
type Scope string

// Supported scopes.
const (
	ScopeSelf   Scope = "self"
	ScopeFamily Scope = "family"
)

// ParseScope validates a scope string. Empty input selects ScopeSelf.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeSelf:
		return ScopeSelf, nil
	case ScopeFamily:
		return ScopeFamily, nil
	default:
		return "", fmt.Errorf("unknown scope %q", s)
	}
}

// FocusSelection is the transient UI focus driving an analysis.
type FocusSelection struct {
	CompetenceKey    string   `json:"competence"`
	ActiveProfileIDs []string `json:"active_profile_ids"`
}
