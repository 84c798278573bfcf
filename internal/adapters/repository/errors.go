package repository

import "errors"

// Sentinel kinds for data source errors.
var (
	// ErrUnavailable is the generic "data source failed" condition.
	ErrUnavailable = errors.New("data source unavailable")
	ErrNotFound    = errors.New("learner not found")
	ErrNoAccount   = errors.New("no account in context")
	ErrUnsupported = errors.New("unsupported data source driver")
)
