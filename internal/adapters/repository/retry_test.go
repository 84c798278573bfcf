package repository_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/domain/model"
)

// flakySource fails the first failures calls with err.
type flakySource struct {
	calls    atomic.Int32
	failures int32
	err      error
}

func (f *flakySource) FetchLearnerCompetences(context.Context, string) ([]model.CompetenceScore, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, f.err
	}
	return []model.CompetenceScore{{CompetenceKey: "k", RawScore: 1, RawMax: 2}}, nil
}

func (f *flakySource) ListLearnerIdentities(context.Context, model.Scope) ([]model.Learner, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, f.err
	}
	return []model.Learner{{ID: "a"}}, nil
}

func fastRetries(n int) []repository.RetryOption {
	return []repository.RetryOption{
		repository.WithMaxRetries(n),
		repository.WithInitialInterval(time.Millisecond),
		repository.WithMaxInterval(2 * time.Millisecond),
	}
}

func TestRetryingSource(t *testing.T) {
	Convey("Given a source that fails transiently", t, func() {
		flaky := &flakySource{failures: 2, err: repository.ErrUnavailable}

		Convey("When enough retries are allowed", func() {
			src := repository.NewRetryingSource(flaky, fastRetries(3)...)
			rows, err := src.FetchLearnerCompetences(context.Background(), "a")

			Convey("Then the call eventually succeeds", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(flaky.calls.Load(), ShouldEqual, 3)
			})
		})

		Convey("When retries run out", func() {
			src := repository.NewRetryingSource(flaky, fastRetries(1)...)
			_, err := src.ListLearnerIdentities(context.Background(), model.ScopeFamily)

			Convey("Then the last error is returned", func() {
				So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
				So(flaky.calls.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a source reporting an unknown learner", t, func() {
		flaky := &flakySource{failures: 5, err: repository.ErrNotFound}
		src := repository.NewRetryingSource(flaky, fastRetries(3)...)

		Convey("Then the error is not retried", func() {
			_, err := src.FetchLearnerCompetences(context.Background(), "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(flaky.calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a cancelled context", t, func() {
		flaky := &flakySource{failures: 5, err: repository.ErrUnavailable}
		src := repository.NewRetryingSource(flaky, fastRetries(3)...)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then retrying stops", func() {
			_, err := src.FetchLearnerCompetences(ctx, "a")
			So(err, ShouldNotBeNil)
			So(flaky.calls.Load(), ShouldBeLessThanOrEqualTo, 1)
		})
	})
}
