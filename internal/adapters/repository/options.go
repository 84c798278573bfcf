package repository

import "time"

// RetryOption applies a configuration option to the RetryingSource.
type RetryOption func(*RetryingSource)

// WithMaxRetries sets how many times a failed call is retried.
func WithMaxRetries(n int) RetryOption {
	return func(s *RetryingSource) {
		if n >= 0 {
			s.maxRetries = uint64(n)
		}
	}
}

// WithInitialInterval sets the first backoff delay.
func WithInitialInterval(d time.Duration) RetryOption {
	return func(s *RetryingSource) {
		if d > 0 {
			s.initialInterval = d
		}
	}
}

// WithMaxInterval caps a single backoff delay.
func WithMaxInterval(d time.Duration) RetryOption {
	return func(s *RetryingSource) {
		if d > 0 {
			s.maxInterval = d
		}
	}
}
