// Package seed generates demo families of learners with competence scores.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/pkg/logger"
)

// Defaults for generated data.
const (
	defaultRawMax = 20.0
	// skipOneIn leaves roughly one competence in eight without activity.
	skipOneIn = 8
	pcgStream = 0x9e3779b97f4a7c15
)

// Performance bands on a 0-10 share of the raw maximum.
type band struct {
	min, span float64
}

//nolint:gochecknoglobals // fixed distribution table
var bands = []band{
	{3.0, 4.0}, // average, most common
	{3.0, 4.0},
	{7.0, 2.0}, // high
	{0.5, 2.5}, // low
	{9.0, 1.0}, // elite, rare
	{6.0, 2.0}, // mid-high
	{2.0, 2.0}, // mid-low
	{0.5, 9.5}, // wide
}

// Config describes the family to generate.
type Config struct {
	// GuardianID is the account owning the family. Empty derives one.
	GuardianID string
	// Names are the learners' display names.
	Names []string
	// IDs optionally fixes learner ids, index-aligned with Names.
	IDs []string
	// Seed makes generation reproducible.
	Seed uint64
	// RawMax is the raw maximum of every competence.
	RawMax float64
}

// DefaultConfig returns the demo family.
func DefaultConfig() Config {
	return Config{
		GuardianID: "demo-parent",
		Names:      []string{"Milan", "Aylon", "Sophie"},
		IDs:        []string{"milan", "aylon", "sophie"},
		Seed:       42,
		RawMax:     defaultRawMax,
	}
}

// Learner is one generated learner with its raw rows.
type Learner struct {
	Record repository.LearnerRecord
	Scores []model.CompetenceScore
}

// Family is a generated guardian with its learners.
type Family struct {
	GuardianID string
	Learners   []Learner
}

// Generate builds a family deterministically from cfg.
func Generate(cat *catalog.Catalog, cfg Config) Family {
	if cfg.RawMax <= 0 {
		cfg.RawMax = defaultRawMax
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, pcgStream)) //nolint:gosec // demo data

	guardian := cfg.GuardianID
	if guardian == "" {
		guardian = stableID(cfg.Seed, "guardian", 0)
	}

	fam := Family{GuardianID: guardian, Learners: make([]Learner, len(cfg.Names))}
	for i, name := range cfg.Names {
		id := stableID(cfg.Seed, name, i)
		if i < len(cfg.IDs) && cfg.IDs[i] != "" {
			id = cfg.IDs[i]
		}
		b := bands[rng.IntN(len(bands))]

		var rows []model.CompetenceScore
		for _, comp := range cat.Competences() {
			if rng.IntN(skipOneIn) == 0 {
				continue
			}
			share := b.min + rng.Float64()*b.span
			rows = append(rows, model.CompetenceScore{
				CompetenceKey: comp.Key,
				RawScore:      math.Round(share / 10 * cfg.RawMax),
				RawMax:        cfg.RawMax,
			})
		}

		fam.Learners[i] = Learner{
			Record: repository.LearnerRecord{ID: id, DisplayName: name, GuardianID: guardian},
			Scores: rows,
		}
	}
	return fam
}

// stableID derives a name-based UUID so a seed always yields the same ids.
func stableID(seed uint64, name string, i int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.FormatUint(seed, 10)+"/"+name+"/"+strconv.Itoa(i))).String()
}

// Write stores fam into w.
func Write(ctx context.Context, w repository.Writer, fam Family) error {
	for _, l := range fam.Learners {
		if err := w.UpsertLearner(ctx, l.Record); err != nil {
			return fmt.Errorf("seed learner %q: %w", l.Record.ID, err)
		}
		for _, s := range l.Scores {
			if err := w.UpsertScore(ctx, l.Record.ID, s); err != nil {
				return fmt.Errorf("seed score %q/%q: %w", l.Record.ID, s.CompetenceKey, err)
			}
		}
	}
	logger.Get().Info(ctx, "seeded demo family",
		logger.String("guardian_id", fam.GuardianID),
		logger.Int("learners", len(fam.Learners)),
	)
	return nil
}

// Seed generates a family from cfg and writes it into w.
func Seed(ctx context.Context, w repository.Writer, cat *catalog.Catalog, cfg Config) (Family, error) {
	fam := Generate(cat, cfg)
	if err := Write(ctx, w, fam); err != nil {
		return Family{}, err
	}
	return fam, nil
}
