package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/okian/radar/internal/domain/model"
	"github.com/okian/radar/pkg/metrics"
)

// Default retry policy.
const (
	defaultMaxRetries      = 2
	defaultInitialInterval = 50 * time.Millisecond
	defaultMaxInterval     = 500 * time.Millisecond
)

// RetryingSource retries transient failures of the wrapped Source with
// exponential backoff. Unknown learners, missing accounts and context
// cancellation are not retried.
type RetryingSource struct {
	next            Source
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewRetryingSource wraps next.
func NewRetryingSource(next Source, opts ...RetryOption) *RetryingSource {
	s := &RetryingSource{
		next:            next,
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchLearnerCompetences calls the wrapped source with retries.
func (s *RetryingSource) FetchLearnerCompetences(ctx context.Context, learnerID string) ([]model.CompetenceScore, error) {
	var out []model.CompetenceScore
	err := s.retry(ctx, func() error {
		var err error
		out, err = s.next.FetchLearnerCompetences(ctx, learnerID)
		return err
	})
	return out, err
}

// ListLearnerIdentities calls the wrapped source with retries.
func (s *RetryingSource) ListLearnerIdentities(ctx context.Context, scope model.Scope) ([]model.Learner, error) {
	var out []model.Learner
	err := s.retry(ctx, func() error {
		var err error
		out, err = s.next.ListLearnerIdentities(ctx, scope)
		return err
	})
	return out, err
}

func (s *RetryingSource) retry(ctx context.Context, call func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initialInterval
	bo.MaxInterval = s.maxInterval
	bo.MaxElapsedTime = 0

	op := func() error {
		err := call()
		if err != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(error, time.Duration) {
		metrics.RecordFetchRetry()
	}
	return backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, s.maxRetries), ctx), notify)
}

func permanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNoAccount) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
