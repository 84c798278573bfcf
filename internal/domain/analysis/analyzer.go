// Package analysis produces short diagnostics for a focused competence by
// reading its own score and the scores of its causal neighbors.
package analysis

import (
	"fmt"

	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/scoring"
)

// Tier is the band a normalized score falls into.
type Tier string

// Score tiers.
const (
	TierExcellent  Tier = "excellent"
	TierGood       Tier = "good"
	TierDeveloping Tier = "developing"
	TierUnknown    Tier = "unknown"
)

// Variant tells, for an effect, whether its foundations are weak.
type Variant string

// Effect variants. Causes always carry VariantNone.
const (
	VariantNone             Variant = ""
	VariantWeakFoundations  Variant = "weak_foundations"
	VariantSolidFoundations Variant = "solid_foundations"
)

// Tier lower bounds in tenths of the radar scale.
const (
	excellentTenths = 7
	goodTenths      = 5
)

// Diagnosis is the structured result of one analysis.
type Diagnosis struct {
	CompetenceKey   string       `json:"competence"`
	Kind            catalog.Kind `json:"kind,omitempty"`
	Tier            Tier         `json:"tier"`
	Variant         Variant      `json:"variant,omitempty"`
	Score           float64      `json:"score"`
	NeighborAverage float64      `json:"neighbor_average"`
	Neighbors       []string     `json:"neighbors"`
	Message         string       `json:"message"`
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithTemplates sets the message set.
func WithTemplates(t Templates) Option {
	return func(a *Analyzer) {
		a.templates = t
	}
}

// WithLocale selects the message set for locale.
func WithLocale(locale string) Option {
	return func(a *Analyzer) {
		a.templates = TemplatesFor(locale)
	}
}

// WithTargetMax sets the radar scale the tiers are measured on.
func WithTargetMax(targetMax float64) Option {
	return func(a *Analyzer) {
		if targetMax > 0 {
			a.targetMax = targetMax
		}
	}
}

// Analyzer is stateless once built and safe for concurrent use.
type Analyzer struct {
	catalog   *catalog.Catalog
	templates Templates
	targetMax float64
}

// New creates an Analyzer over cat.
func New(cat *catalog.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		catalog:   cat,
		templates: English,
		targetMax: scoring.DefaultTargetMax,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the diagnostic sentence for competenceKey in p.
func (a *Analyzer) Analyze(competenceKey string, p model.Profile) string {
	return a.Diagnose(competenceKey, p).Message
}

// Diagnose classifies competenceKey in p. Unknown keys and profiles without
// a matching score yield TierUnknown and a neutral message.
func (a *Analyzer) Diagnose(competenceKey string, p model.Profile) Diagnosis {
	comp, ok := a.catalog.Lookup(competenceKey)
	if !ok {
		return a.insufficient(competenceKey)
	}
	own, ok := p.Score(competenceKey)
	if !ok {
		return a.insufficient(competenceKey)
	}

	d := Diagnosis{
		CompetenceKey: competenceKey,
		Kind:          comp.Kind,
		Score:         own.Value,
		Tier:          a.tier(own.Value),
	}

	switch comp.Kind {
	case catalog.KindCause:
		d.Neighbors = a.catalog.ChildrenOf(competenceKey)
		d.NeighborAverage = scoring.Round2(neighborAverage(p, d.Neighbors))
		d.Message = a.render(a.causeFormat(d.Tier), comp.Label, own.Value)
	case catalog.KindEffect:
		d.Neighbors = a.catalog.ParentsOf(competenceKey)
		avg := neighborAverage(p, d.Neighbors)
		d.NeighborAverage = scoring.Round2(avg)
		d.Variant = a.variant(d.Tier, len(d.Neighbors), avg)
		d.Message = a.render(a.effectFormat(d.Tier, d.Variant), comp.Label, own.Value)
	default:
		return a.insufficient(competenceKey)
	}
	return d
}

func (a *Analyzer) tier(s float64) Tier {
	switch {
	case s*10 >= excellentTenths*a.targetMax:
		return TierExcellent
	case s*10 >= goodTenths*a.targetMax:
		return TierGood
	default:
		return TierDeveloping
	}
}

// variant compares the parents' average with the middle of the scale. An
// effect without parents has nothing weak to blame and reads as solid.
func (a *Analyzer) variant(t Tier, parents int, avg float64) Variant {
	if t == TierExcellent {
		return VariantNone
	}
	if parents > 0 && avg < a.targetMax/2 {
		return VariantWeakFoundations
	}
	return VariantSolidFoundations
}

func (a *Analyzer) causeFormat(t Tier) string {
	switch t {
	case TierExcellent:
		return a.templates.CauseExcellent
	case TierGood:
		return a.templates.CauseGood
	default:
		return a.templates.CauseDeveloping
	}
}

func (a *Analyzer) effectFormat(t Tier, v Variant) string {
	weak := v == VariantWeakFoundations
	switch {
	case t == TierExcellent:
		return a.templates.EffectExcellent
	case t == TierGood && weak:
		return a.templates.EffectGoodWeakBase
	case t == TierGood:
		return a.templates.EffectGoodSolidBase
	case weak:
		return a.templates.EffectDevelopingWeakBase
	default:
		return a.templates.EffectDevelopingSolidBase
	}
}

func (a *Analyzer) render(format, label string, score float64) string {
	return fmt.Sprintf(format, label, score, a.targetMax)
}

func (a *Analyzer) insufficient(key string) Diagnosis {
	return Diagnosis{
		CompetenceKey: key,
		Tier:          TierUnknown,
		Neighbors:     []string{},
		Message:       fmt.Sprintf(a.templates.InsufficientData, key),
	}
}

// neighborAverage is the mean normalized value of keys in p. Missing
// entries count as 0 and an empty key set averages to 0.
func neighborAverage(p model.Profile, keys []string) float64 {
	if len(keys) == 0 {
		return 0
	}
	var sum float64
	for _, k := range keys {
		s, _ := p.Score(k)
		sum += s.Value
	}
	return sum / float64(len(keys))
}
