// Package repository provides the learner data sources behind the radar.
package repository

import (
	"context"

	"github.com/okian/radar/internal/domain/model"
)

// Source is the read contract the engine consumes.
type Source interface {
	// FetchLearnerCompetences returns the raw rows recorded for a learner.
	// Competences without activity may be omitted.
	// Returns ErrNotFound if the learner is unknown.
	FetchLearnerCompetences(ctx context.Context, learnerID string) ([]model.CompetenceScore, error)

	// ListLearnerIdentities resolves scope for the account carried by ctx.
	// ScopeSelf yields the account's own learner; ScopeFamily yields every
	// learner whose guardian is the account.
	ListLearnerIdentities(ctx context.Context, scope model.Scope) ([]model.Learner, error)
}

// LearnerRecord is a stored learner with its guardian link.
type LearnerRecord struct {
	ID          string
	DisplayName string
	GuardianID  string
}

// Writer seeds learner data.
type Writer interface {
	UpsertLearner(ctx context.Context, l LearnerRecord) error
	UpsertScore(ctx context.Context, learnerID string, s model.CompetenceScore) error
}

// Store is a Source that can also be written and closed.
type Store interface {
	Source
	Writer
	Close() error
}

// accountFor extracts the current account or fails with ErrNoAccount.
func accountFor(ctx context.Context) (string, error) {
	id, ok := model.AccountFromContext(ctx)
	if !ok {
		return "", ErrNoAccount
	}
	return id, nil
}
