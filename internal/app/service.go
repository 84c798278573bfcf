// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/aggregate"
	"github.com/okian/radar/internal/domain/analysis"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/profile"
	"github.com/okian/radar/internal/domain/scoring"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
)

// Defaults.
const (
	defaultFetchTimeout = 3 * time.Second
	defaultMaxCompare   = 8
	defaultLocale       = "en"
)

// Service implements the radar use cases on top of a data source.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     repository.Source
	catalog    *catalog.Catalog
	builder    *profile.Builder
	aggregator *aggregate.Aggregator
	analyzer   *analysis.Analyzer

	// Configuration
	fetchTimeout time.Duration
	maxCompare   int
	targetMax    float64
	locale       string
	palette      []string

	// State
	requests      atomic.Int64
	failedFetches atomic.Int64
	truncated     atomic.Int64
	lastActive    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the competence catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithFetchTimeout bounds each learner fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithMaxCompare caps how many learners one request may compare.
func WithMaxCompare(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCompare = n
		}
	}
}

// WithTargetMax sets the radar scale.
func WithTargetMax(v float64) Option {
	return func(s *Service) {
		if v > 0 {
			s.targetMax = v
		}
	}
}

// WithLocale sets the locale used for name ordering and messages.
func WithLocale(locale string) Option {
	return func(s *Service) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithPalette sets the learner color palette.
func WithPalette(palette []string) Option {
	return func(s *Service) {
		if len(palette) > 0 {
			s.palette = slices.Clone(palette)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service reading from source.
func New(source repository.Source, opts ...Option) *Service {
	s := &Service{
		source:       source,
		fetchTimeout: defaultFetchTimeout,
		maxCompare:   defaultMaxCompare,
		targetMax:    scoring.DefaultTargetMax,
		locale:       defaultLocale,
		palette:      profile.DefaultPalette(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.builder = profile.NewBuilder(s.catalog,
		profile.WithPalette(s.palette),
		profile.WithTargetMax(s.targetMax),
	)
	s.aggregator = aggregate.New(s.locale)
	s.analyzer = analysis.New(s.catalog,
		analysis.WithLocale(s.locale),
		analysis.WithTargetMax(s.targetMax),
	)
	return s
}

// Catalog returns the competence catalog in use.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// ColorFor returns the display color of a learner.
func (s *Service) ColorFor(learnerID string) string {
	return s.builder.ColorFor(learnerID)
}

// TargetMax returns the radar scale.
func (s *Service) TargetMax() float64 {
	return s.targetMax
}

// GetActiveProfiles resolves scope for the account in ctx, optionally
// narrowed to explicitIDs, fetches every learner in parallel and returns
// the profiles that could be built, ordered by name.
//
// Learners whose fetch fails are dropped with a warning. When nothing
// survives, the result is an empty slice and an error wrapping ErrNoData.
func (s *Service) GetActiveProfiles(ctx context.Context, scope model.Scope, explicitIDs []string) ([]model.Profile, error) {
	s.requests.Add(1)

	learners, err := s.source.ListLearnerIdentities(ctx, scope)
	if err != nil {
		metrics.RecordErrorByComponent("service", "list_learners")
		s.logger.Warn(ctx, "failed to list learners",
			logger.String("scope", string(scope)),
			logger.Error(err),
		)
		return []model.Profile{}, fmt.Errorf("%w: %w", ErrNoData, err)
	}

	learners = s.selectLearners(ctx, learners, explicitIDs)
	metrics.ObserveLearnersResolved(len(learners))
	if len(learners) == 0 {
		s.lastActive.Store(0)
		metrics.UpdateActiveProfiles(0)
		return []model.Profile{}, fmt.Errorf("%w: no learners for scope %q", ErrNoData, scope)
	}

	built := s.fetchAll(ctx, learners)
	if err := ctx.Err(); err != nil {
		return []model.Profile{}, err
	}

	profiles := make([]model.Profile, 0, len(built))
	ids := make([]string, 0, len(built))
	for _, p := range built {
		if p != nil {
			profiles = append(profiles, *p)
			ids = append(ids, p.ID)
		}
	}

	res := s.aggregator.Aggregate(profiles, ids)
	s.lastActive.Store(int64(len(res.Active)))
	metrics.UpdateActiveProfiles(len(res.Active))
	if len(res.Active) == 0 {
		return res.Active, fmt.Errorf("%w: every fetch failed", ErrNoData)
	}
	return res.Active, nil
}

// selectLearners narrows learners to explicitIDs, when given, and caps the
// set at maxCompare. IDs outside the scope are ignored; learners past the
// cap are counted and logged.
func (s *Service) selectLearners(ctx context.Context, learners []model.Learner, explicitIDs []string) []model.Learner {
	if len(explicitIDs) > 0 {
		learners = slices.DeleteFunc(slices.Clone(learners), func(l model.Learner) bool {
			return !slices.Contains(explicitIDs, l.ID)
		})
	}
	if dropped := len(learners) - s.maxCompare; dropped > 0 {
		s.truncated.Add(int64(dropped))
		metrics.RecordErrorByComponent("service", "compare_truncated")
		s.logger.Warn(ctx, "comparison capped, learners left out",
			logger.Int("max_compare", s.maxCompare),
			logger.Int("dropped", dropped),
			logger.Strings("dropped_ids", learnerIDs(learners[s.maxCompare:])),
		)
		learners = learners[:s.maxCompare]
	}
	return learners
}

func learnerIDs(learners []model.Learner) []string {
	ids := make([]string, len(learners))
	for i, l := range learners {
		ids[i] = l.ID
	}
	return ids
}

// fetchAll fetches and builds every learner concurrently. Slot i holds the
// profile of learners[i], or nil when its fetch failed.
func (s *Service) fetchAll(ctx context.Context, learners []model.Learner) []*model.Profile {
	results := make([]*model.Profile, len(learners))

	var g errgroup.Group
	for i, l := range learners {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			start := time.Now()
			rows, err := s.source.FetchLearnerCompetences(fctx, l.ID)
			metrics.RecordFetch(err == nil, float64(time.Since(start).Microseconds())/1000)
			if err != nil {
				s.failedFetches.Add(1)
				metrics.RecordErrorByComponent("service", fetchErrorType(err))
				s.logger.Warn(ctx, "dropping learner after failed fetch",
					logger.String("learner_id", l.ID),
					logger.Duration("took", time.Since(start)),
					logger.Error(err),
				)
				return nil
			}

			p := s.builder.Build(l.ID, l.DisplayName, rows)
			metrics.RecordProfileBuilt()
			results[i] = &p
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func fetchErrorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "fetch_timeout"
	case errors.Is(err, repository.ErrNotFound):
		return "fetch_not_found"
	default:
		return "fetch_unavailable"
	}
}

// GetSummary totals the given profiles.
func (s *Service) GetSummary(profiles []model.Profile) model.Summary {
	sum := aggregate.Summarize(profiles)
	if len(profiles) > 0 {
		metrics.ObserveSummaryPercentage(sum.Percentage)
	}
	return sum
}

// Radar returns one row per catalog axis for profiles.
func (s *Service) Radar(profiles []model.Profile) []aggregate.Row {
	return aggregate.Radar(s.catalog, profiles)
}

// GetAnalysis returns the diagnostic sentence for competenceKey in p.
func (s *Service) GetAnalysis(competenceKey string, p model.Profile) string {
	return s.Diagnose(competenceKey, p).Message
}

// Diagnose returns the structured diagnosis for competenceKey in p.
func (s *Service) Diagnose(competenceKey string, p model.Profile) analysis.Diagnosis {
	d := s.analyzer.Diagnose(competenceKey, p)
	metrics.RecordAnalysis(string(d.Kind), string(d.Tier))
	return d
}

// DiagnoseLearner fetches one learner within scope and diagnoses
// competenceKey. An empty learnerID picks the first active profile.
func (s *Service) DiagnoseLearner(ctx context.Context, scope model.Scope, learnerID, competenceKey string) (model.Profile, analysis.Diagnosis, error) {
	var ids []string
	if learnerID != "" {
		ids = []string{learnerID}
	}
	profiles, err := s.GetActiveProfiles(ctx, scope, ids)
	if err != nil {
		return model.Profile{}, analysis.Diagnosis{}, err
	}
	p := profiles[0]
	return p, s.Diagnose(competenceKey, p), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"competences":    s.catalog.Len(),
		"targetMax":      s.targetMax,
		"locale":         s.locale,
		"maxCompare":     s.maxCompare,
		"fetchTimeoutMs": s.fetchTimeout.Milliseconds(),
		"requests":       s.requests.Load(),
		"failedFetches":  s.failedFetches.Load(),
		"truncated":      s.truncated.Load(),
		"activeProfiles": s.lastActive.Load(),
	}
}

// Close releases the data source when it holds resources.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if closer, ok := s.source.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
