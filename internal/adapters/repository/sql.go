package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/okian/radar/internal/domain/model"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore is a Store backed by database/sql.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens a database, checks connectivity and ensures the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite
		if dsn == "" {
			dsn = "file:radar.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/radar?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// NewSQLStore wraps an open database whose schema already exists.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// UpsertLearner inserts or replaces a learner.
func (s *SQLStore) UpsertLearner(ctx context.Context, l LearnerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learners (id, display_name, guardian_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET display_name=EXCLUDED.display_name, guardian_id=EXCLUDED.guardian_id`,
		l.ID, l.DisplayName, l.GuardianID)
	if err != nil {
		return fmt.Errorf("upsert learner %q: %w", l.ID, err)
	}
	return nil
}

// UpsertScore inserts or replaces the row for (learnerID, competence key).
func (s *SQLStore) UpsertScore(ctx context.Context, learnerID string, cs model.CompetenceScore) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO competence_scores (learner_id, competence_key, raw_score, raw_max) VALUES ($1, $2, $3, $4)
		ON CONFLICT (learner_id, competence_key) DO UPDATE SET raw_score=EXCLUDED.raw_score, raw_max=EXCLUDED.raw_max`,
		learnerID, cs.CompetenceKey, cs.RawScore, cs.RawMax)
	if err != nil {
		return fmt.Errorf("upsert score %q/%q: %w", learnerID, cs.CompetenceKey, err)
	}
	return nil
}

// FetchLearnerCompetences returns the rows recorded for learnerID.
func (s *SQLStore) FetchLearnerCompetences(ctx context.Context, learnerID string) ([]model.CompetenceScore, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM learners WHERE id=$1`, learnerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch %q: %w", learnerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w: %w", learnerID, ErrUnavailable, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT competence_key, raw_score, raw_max FROM competence_scores
		WHERE learner_id=$1 ORDER BY competence_key`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w: %w", learnerID, ErrUnavailable, err)
	}
	defer rows.Close()

	out := []model.CompetenceScore{}
	for rows.Next() {
		var cs model.CompetenceScore
		if err := rows.Scan(&cs.CompetenceKey, &cs.RawScore, &cs.RawMax); err != nil {
			return nil, fmt.Errorf("scan %q: %w: %w", learnerID, ErrUnavailable, err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %q: %w: %w", learnerID, ErrUnavailable, err)
	}
	return out, nil
}

// ListLearnerIdentities resolves scope for the account in ctx, ordered by ID.
func (s *SQLStore) ListLearnerIdentities(ctx context.Context, scope model.Scope) ([]model.Learner, error) {
	account, err := accountFor(ctx)
	if err != nil {
		return nil, err
	}

	var query string
	switch scope {
	case model.ScopeSelf:
		query = `SELECT id, display_name FROM learners WHERE id=$1 ORDER BY id`
	case model.ScopeFamily:
		query = `SELECT id, display_name FROM learners WHERE guardian_id=$1 ORDER BY id`
	default:
		return nil, fmt.Errorf("list learners: unknown scope %q", scope)
	}

	rows, err := s.db.QueryContext(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	out := []model.Learner{}
	for rows.Next() {
		var l model.Learner
		if err := rows.Scan(&l.ID, &l.DisplayName); err != nil {
			return nil, fmt.Errorf("list learners: %w: %w", ErrUnavailable, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list learners: %w: %w", ErrUnavailable, err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS learners (
  id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL,
  guardian_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS learners_guardian ON learners (guardian_id);

CREATE TABLE IF NOT EXISTS competence_scores (
  learner_id TEXT NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
  competence_key TEXT NOT NULL,
  raw_score REAL NOT NULL DEFAULT 0,
  raw_max REAL NOT NULL DEFAULT 0,
  PRIMARY KEY (learner_id, competence_key)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS learners (
  id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL,
  guardian_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS learners_guardian ON learners (guardian_id);

CREATE TABLE IF NOT EXISTS competence_scores (
  learner_id TEXT NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
  competence_key TEXT NOT NULL,
  raw_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  raw_max DOUBLE PRECISION NOT NULL DEFAULT 0,
  PRIMARY KEY (learner_id, competence_key)
);
`
