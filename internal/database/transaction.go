package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session executes single statements inside an open transaction.
type Session interface {
	Exec(ctx context.Context, sql string) error
}

// TxRunner opens a transaction, hands a Session to fn, and commits when fn
// returns nil. Any error from fn rolls the transaction back.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(s Session) error) error
}

// PGRunner runs transactions on a pgx pool.
type PGRunner struct {
	pool *pgxpool.Pool
}

// NewPGRunner creates a PGRunner.
func NewPGRunner(pool *pgxpool.Pool) *PGRunner {
	return &PGRunner{pool: pool}
}

// InTransaction implements TxRunner.
func (r *PGRunner) InTransaction(ctx context.Context, fn func(s Session) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // rollback on committed tx returns ErrTxClosed

	if err := fn(&pgSession{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// pgSession wraps every statement in a savepoint. PostgreSQL aborts the
// whole transaction on any error, so a tolerated error must be rolled back
// to the savepoint before the next statement can run.
type pgSession struct {
	tx pgx.Tx
}

func (s *pgSession) Exec(ctx context.Context, sql string) error {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	if _, err := sp.Exec(ctx, sql); err != nil {
		_ = sp.Rollback(ctx)

		return err
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}

	return nil
}

// SQLRunner runs transactions on a database/sql handle (MySQL, SQLite).
//
// MySQL commits implicitly after DDL, so a failed file may leave earlier
// statements applied; the benign error list exists for exactly that re-run.
type SQLRunner struct {
	db *sql.DB
}

// NewSQLRunner creates a SQLRunner.
func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

// InTransaction implements TxRunner.
func (r *SQLRunner) InTransaction(ctx context.Context, fn func(s Session) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // rollback after commit returns ErrTxDone

	if err := fn(sqlSession{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

type sqlSession struct {
	tx *sql.Tx
}

func (s sqlSession) Exec(ctx context.Context, query string) error {
	_, err := s.tx.ExecContext(ctx, query)

	return err
}
