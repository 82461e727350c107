package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aqasim81/sql-migrate-runner/internal/database"
)

// AppliedMigration represents a row of the schema_migrations table.
type AppliedMigration struct {
	ID        int64
	Filename  string
	Checksum  string
	AppliedAt time.Time
}

// Tracker manages the schema_migrations table.
type Tracker struct {
	backend backend
	stmts   dialect
	now     func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for applied_at.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a Tracker for an open database handle.
func New(h *database.Handle, opts ...Option) (*Tracker, error) {
	d, ok := dialects[h.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, h.Driver)
	}

	t := &Tracker{stmts: d, now: time.Now}

	if h.Pool != nil {
		t.backend = pgxBackend{pool: h.Pool}
	} else {
		t.backend = sqlBackend{db: h.DB}
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// EnsureTable creates the schema_migrations table if it does not exist.
func (t *Tracker) EnsureTable(ctx context.Context) error {
	if err := t.backend.exec(ctx, t.stmts.createTable); err != nil {
		return fmt.Errorf("%w: %w", ErrTableCreation, err)
	}

	return nil
}

// AlreadyApplied reports whether filename has a record whose checksum
// equals checksum. A record with a different checksum means the file changed
// since it was applied and returns false.
func (t *Tracker) AlreadyApplied(ctx context.Context, filename, checksum string) (bool, error) {
	stored, found, err := t.Checksum(ctx, filename)
	if err != nil {
		return false, err
	}

	return found && stored == checksum, nil
}

// Checksum returns the recorded checksum for filename and whether a record
// exists.
func (t *Tracker) Checksum(ctx context.Context, filename string) (string, bool, error) {
	var checksum string

	err := t.backend.queryRow(ctx, t.stmts.selectChecksum, filename).Scan(&checksum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("getting checksum for %s: %w", filename, err)
	}

	return checksum, true, nil
}

// RecordApplied stores filename and checksum with the current UTC time.
// An existing row for filename is overwritten, so a changed file that was
// re-applied is skipped on the next run.
func (t *Tracker) RecordApplied(ctx context.Context, filename, checksum string) error {
	appliedAt := t.now().UTC()

	if err := t.backend.exec(ctx, t.stmts.upsert, filename, checksum, appliedAt); err != nil {
		return fmt.Errorf("recording migration %s as applied: %w", filename, err)
	}

	return nil
}

// GetApplied returns all bookkeeping rows in insertion order.
func (t *Tracker) GetApplied(ctx context.Context) ([]AppliedMigration, error) {
	var applied []AppliedMigration

	err := t.backend.queryEach(ctx, t.stmts.selectAll, func(r row) error {
		var (
			m         AppliedMigration
			appliedAt sql.NullTime
		)

		if err := r.Scan(&m.ID, &m.Filename, &m.Checksum, &appliedAt); err != nil {
			return fmt.Errorf("scanning migration row: %w", err)
		}

		m.AppliedAt = appliedAt.Time

		applied = append(applied, m)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}

	return applied, nil
}
