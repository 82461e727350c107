package tracker

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// row is satisfied by both pgx.Row and *sql.Row.
type row interface {
	Scan(dest ...any) error
}

// backend hides the difference between a pgx pool and database/sql.
type backend interface {
	exec(ctx context.Context, query string, args ...any) error
	queryRow(ctx context.Context, query string, args ...any) row
	queryEach(ctx context.Context, query string, fn func(r row) error) error
}

type pgxBackend struct {
	pool *pgxpool.Pool
}

func (b pgxBackend) exec(ctx context.Context, query string, args ...any) error {
	_, err := b.pool.Exec(ctx, query, args...)

	return err
}

func (b pgxBackend) queryRow(ctx context.Context, query string, args ...any) row {
	return b.pool.QueryRow(ctx, query, args...)
}

func (b pgxBackend) queryEach(ctx context.Context, query string, fn func(r row) error) error {
	rows, err := b.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}

type sqlBackend struct {
	db *sql.DB
}

func (b sqlBackend) exec(ctx context.Context, query string, args ...any) error {
	_, err := b.db.ExecContext(ctx, query, args...)

	return err
}

func (b sqlBackend) queryRow(ctx context.Context, query string, args ...any) row {
	return b.db.QueryRowContext(ctx, query, args...)
}

func (b sqlBackend) queryEach(ctx context.Context, query string, fn func(r row) error) error {
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
