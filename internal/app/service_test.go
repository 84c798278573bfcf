package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/analysis"
	"github.com/okian/radar/internal/domain/catalog"
	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/internal/domain/scoring"
	"github.com/okian/radar/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// stubSource serves fixed learners and fails the listed ids.
type stubSource struct {
	learners []model.Learner
	rows     map[string][]model.CompetenceScore
	fail     map[string]error
	delay    time.Duration
	listErr  error

	mu     sync.Mutex
	active int
	peak   int
}

func (s *stubSource) ListLearnerIdentities(context.Context, model.Scope) ([]model.Learner, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.learners, nil
}

func (s *stubSource) FetchLearnerCompetences(ctx context.Context, id string) ([]model.CompetenceScore, error) {
	s.mu.Lock()
	s.active++
	s.peak = max(s.peak, s.active)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.fail[id]; err != nil {
		return nil, err
	}
	return s.rows[id], nil
}

func family() *stubSource {
	return &stubSource{
		learners: []model.Learner{
			{ID: "a", DisplayName: "Milan"},
			{ID: "b", DisplayName: "Aylon"},
			{ID: "c", DisplayName: "Sophie"},
		},
		rows: map[string][]model.CompetenceScore{
			"a": {{CompetenceKey: catalog.Mathematics, RawScore: 60, RawMax: 100}},
			"b": {{CompetenceKey: catalog.Mathematics, RawScore: 90, RawMax: 100}},
			"c": {{CompetenceKey: catalog.Concentration, RawScore: 9, RawMax: 10}},
		},
		fail: map[string]error{},
	}
}

func profileIDs(ps []model.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestService_GetActiveProfiles(t *testing.T) {
	Convey("Given a service over a family of three learners", t, func() {
		src := family()
		svc := service.New(src)
		ctx := context.Background()

		Convey("When every fetch succeeds", func() {
			ps, err := svc.GetActiveProfiles(ctx, model.ScopeFamily, nil)

			Convey("Then all profiles are returned ordered by name", func() {
				So(err, ShouldBeNil)
				So(profileIDs(ps), ShouldResemble, []string{"b", "a", "c"})
			})
		})

		Convey("When one of three fetches fails", func() {
			src.fail["c"] = repository.ErrUnavailable
			ps, err := svc.GetActiveProfiles(ctx, model.ScopeFamily, nil)

			Convey("Then exactly the two others are returned without error", func() {
				So(err, ShouldBeNil)
				So(profileIDs(ps), ShouldResemble, []string{"b", "a"})
				So(svc.GetStats()["failedFetches"], ShouldEqual, int64(1))
			})
		})

		Convey("When explicit ids narrow the comparison", func() {
			ps, err := svc.GetActiveProfiles(ctx, model.ScopeFamily, []string{"a", "b", "outsider"})

			Convey("Then only in-scope learners are compared", func() {
				So(err, ShouldBeNil)
				So(profileIDs(ps), ShouldResemble, []string{"b", "a"})
			})

			Convey("Then nothing is counted as truncated", func() {
				So(svc.GetStats()["truncated"], ShouldEqual, int64(0))
			})

			Convey("Then the summary totals both", func() {
				sum := svc.GetSummary(ps)
				So(sum.TotalScore, ShouldEqual, 150)
				So(sum.MaxTotalScore, ShouldEqual, 200)
				So(sum.Percentage, ShouldEqual, 75)
				So(sum.Level, ShouldEqual, scoring.LevelExpert)
			})
		})

		Convey("When every fetch fails", func() {
			for _, id := range []string{"a", "b", "c"} {
				src.fail[id] = repository.ErrUnavailable
			}
			ps, err := svc.GetActiveProfiles(ctx, model.ScopeFamily, nil)

			Convey("Then an empty slice and ErrNoData are returned", func() {
				So(ps, ShouldNotBeNil)
				So(ps, ShouldBeEmpty)
				So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
			})
		})

		Convey("When listing learners fails", func() {
			src.listErr = repository.ErrUnavailable
			ps, err := svc.GetActiveProfiles(ctx, model.ScopeFamily, nil)

			Convey("Then the failure degrades to no data", func() {
				So(ps, ShouldBeEmpty)
				So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
				So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestService_Concurrency(t *testing.T) {
	Convey("Given slow fetches", t, func() {
		src := family()
		src.delay = 50 * time.Millisecond

		Convey("When three learners are compared", func() {
			svc := service.New(src)
			start := time.Now()
			ps, err := svc.GetActiveProfiles(context.Background(), model.ScopeFamily, nil)
			took := time.Since(start)

			Convey("Then fetches run in parallel", func() {
				So(err, ShouldBeNil)
				So(ps, ShouldHaveLength, 3)
				So(src.peak, ShouldBeGreaterThan, 1)
				So(took, ShouldBeLessThan, 140*time.Millisecond)
			})
		})

		Convey("When a fetch exceeds the per-fetch timeout", func() {
			svc := service.New(src, service.WithFetchTimeout(10*time.Millisecond))
			ps, err := svc.GetActiveProfiles(context.Background(), model.ScopeFamily, nil)

			Convey("Then the slow learners are dropped", func() {
				So(ps, ShouldBeEmpty)
				So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
			})
		})
	})

	Convey("Given more learners than the comparison cap", t, func() {
		svc := service.New(family(), service.WithMaxCompare(2))

		Convey("Then the set is capped and the overflow is counted", func() {
			ps, err := svc.GetActiveProfiles(context.Background(), model.ScopeFamily, nil)
			So(err, ShouldBeNil)
			So(ps, ShouldHaveLength, 2)
			So(svc.GetStats()["truncated"], ShouldEqual, int64(1))
		})
	})
}

func TestService_Analysis(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New(family())
		ctx := context.Background()

		Convey("When diagnosing a learner's cause competence", func() {
			p, d, err := svc.DiagnoseLearner(ctx, model.ScopeFamily, "c", catalog.Concentration)

			Convey("Then the excellent tier is reported", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "c")
				So(d.Tier, ShouldEqual, analysis.TierExcellent)
				So(svc.GetAnalysis(catalog.Concentration, p), ShouldEqual, d.Message)
			})
		})

		Convey("When the learner is outside the scope", func() {
			_, _, err := svc.DiagnoseLearner(ctx, model.ScopeFamily, "ghost", catalog.Concentration)
			So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
		})

		Convey("When the competence is unknown", func() {
			_, d, err := svc.DiagnoseLearner(ctx, model.ScopeFamily, "a", "astronomie")
			So(err, ShouldBeNil)
			So(d.Tier, ShouldEqual, analysis.TierUnknown)
		})
	})

	Convey("Given a French service", t, func() {
		svc := service.New(family(), service.WithLocale("fr"))
		_, d, err := svc.DiagnoseLearner(context.Background(), model.ScopeFamily, "c", catalog.Concentration)
		So(err, ShouldBeNil)
		So(d.Message, ShouldStartWith, "Excellent niveau en")
	})
}

func TestService_Stats(t *testing.T) {
	Convey("Given a service with custom options", t, func() {
		svc := service.New(family(),
			service.WithMaxCompare(4),
			service.WithTargetMax(20),
			service.WithFetchTimeout(time.Second),
		)

		Convey("Then stats reflect the configuration", func() {
			stats := svc.GetStats()
			So(stats["maxCompare"], ShouldEqual, 4)
			So(stats["targetMax"], ShouldEqual, 20.0)
			So(stats["fetchTimeoutMs"], ShouldEqual, int64(1000))
			So(stats["competences"], ShouldEqual, 8)
			So(svc.TargetMax(), ShouldEqual, 20)
			So(svc.Close(), ShouldBeNil)
		})
	})
}
