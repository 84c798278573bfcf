// Package profile turns raw competence rows into normalized radar profiles.
package profile

import (
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/scoring"
)

// FallbackColor is used when no palette is configured.
const FallbackColor = "#7E66FF"

// DefaultPalette returns the learner color palette.
func DefaultPalette() []string {
	return []string{"#3B82F6", "#8B5CF6", "#EC4899", "#10B981", "#F59E0B"}
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithPalette sets the learner color palette. Empty palettes are ignored.
func WithPalette(palette []string) Option {
	return func(b *Builder) {
		if len(palette) > 0 {
			b.palette = slices.Clone(palette)
		}
	}
}

// WithTargetMax sets the radar scale.
func WithTargetMax(targetMax float64) Option {
	return func(b *Builder) {
		if targetMax > 0 {
			b.targetMax = targetMax
		}
	}
}

// Builder builds profiles against one catalog.
type Builder struct {
	catalog   *catalog.Catalog
	palette   []string
	targetMax float64
}

// NewBuilder creates a Builder for cat.
func NewBuilder(cat *catalog.Catalog, opts ...Option) *Builder {
	b := &Builder{
		catalog:   cat,
		palette:   DefaultPalette(),
		targetMax: scoring.DefaultTargetMax,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TargetMax returns the radar scale used by this builder.
func (b *Builder) TargetMax() float64 {
	return b.targetMax
}

// Build normalizes raw rows into a Profile. Scores follow catalog order
// whatever the order of raw; keys without a row read as 0, unknown keys are
// ignored and, for duplicated keys, the last row wins.
func (b *Builder) Build(learnerID, displayName string, raw []model.CompetenceScore) model.Profile {
	byKey := make(map[string]model.CompetenceScore, len(raw))
	for _, r := range raw {
		byKey[r.CompetenceKey] = r
	}

	comps := b.catalog.Competences()
	scores := make([]model.Score, len(comps))
	for i, comp := range comps {
		r := byKey[comp.Key]
		progress := scoring.Percentage(r.RawScore, r.RawMax)
		scores[i] = model.Score{
			CompetenceKey: comp.Key,
			Value:         scoring.Normalize(r.RawScore, r.RawMax, b.targetMax),
			RawScore:      r.RawScore,
			RawMax:        r.RawMax,
			Level:         scoring.LevelFor(progress),
			Progress:      progress,
		}
	}

	return model.Profile{
		ID:     learnerID,
		Name:   displayName,
		Color:  b.ColorFor(learnerID),
		Scores: scores,
	}
}

// ColorFor hashes a learner id into the palette. The result depends only
// on the id, never on the learner's position in a list.
func (b *Builder) ColorFor(learnerID string) string {
	return ColorFor(learnerID, b.palette)
}

// ColorFor hashes learnerID into palette.
func ColorFor(learnerID string, palette []string) string {
	if len(palette) == 0 {
		return FallbackColor
	}
	return palette[xxhash.Sum64String(learnerID)%uint64(len(palette))]
}
