package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/okian/radar/internal/domain/model"
)

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	learners map[string]LearnerRecord
	scores   map[string][]model.CompetenceScore
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		learners: make(map[string]LearnerRecord),
		scores:   make(map[string][]model.CompetenceScore),
	}
}

// UpsertLearner inserts or replaces a learner.
func (s *MemoryStore) UpsertLearner(_ context.Context, l LearnerRecord) error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("upsert learner: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learners[l.ID] = l
	return nil
}

// UpsertScore inserts or replaces the row for (learnerID, competence key).
func (s *MemoryStore) UpsertScore(_ context.Context, learnerID string, cs model.CompetenceScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.learners[learnerID]; !ok {
		return fmt.Errorf("upsert score for %q: %w", learnerID, ErrNotFound)
	}
	rows := s.scores[learnerID]
	if i := slices.IndexFunc(rows, func(r model.CompetenceScore) bool { return r.CompetenceKey == cs.CompetenceKey }); i >= 0 {
		rows[i] = cs
	} else {
		rows = append(rows, cs)
	}
	s.scores[learnerID] = rows
	return nil
}

// FetchLearnerCompetences returns a copy of the learner's rows.
func (s *MemoryStore) FetchLearnerCompetences(ctx context.Context, learnerID string) ([]model.CompetenceScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.learners[learnerID]; !ok {
		return nil, fmt.Errorf("fetch %q: %w", learnerID, ErrNotFound)
	}
	return slices.Clone(s.scores[learnerID]), nil
}

// ListLearnerIdentities resolves scope for the account in ctx, ordered by ID.
func (s *MemoryStore) ListLearnerIdentities(ctx context.Context, scope model.Scope) ([]model.Learner, error) {
	account, err := accountFor(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Learner{}
	switch scope {
	case model.ScopeSelf:
		if l, ok := s.learners[account]; ok {
			out = append(out, model.Learner{ID: l.ID, DisplayName: l.DisplayName})
		}
	case model.ScopeFamily:
		for _, l := range s.learners {
			if l.GuardianID == account {
				out = append(out, model.Learner{ID: l.ID, DisplayName: l.DisplayName})
			}
		}
	default:
		return nil, fmt.Errorf("list learners: unknown scope %q", scope)
	}
	slices.SortFunc(out, func(a, b model.Learner) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
