package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 database/sql driver
)

// Driver names a supported database backend.
type Driver string

// Supported drivers.
const (
	Postgres Driver = "postgres"
	MySQL    Driver = "mysql"
	SQLite   Driver = "sqlite3"
)

const defaultMaxConns = 5

// ParseDriver validates a driver name. "postgresql" and "sqlite" are
// accepted as aliases.
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, name)
	}
}

// Handle is an open database for one of the supported drivers. Exactly one
// of Pool and DB is set.
type Handle struct {
	Driver Driver
	Pool   *pgxpool.Pool
	DB     *sql.DB
}

// Open connects to the database and verifies the connection with a ping.
func Open(ctx context.Context, driver Driver, databaseURL string) (*Handle, error) {
	switch driver {
	case Postgres:
		pool, err := NewPool(ctx, databaseURL)
		if err != nil {
			return nil, err
		}

		return &Handle{Driver: driver, Pool: pool}, nil
	case MySQL:
		db, err := OpenMySQL(ctx, databaseURL)
		if err != nil {
			return nil, err
		}

		return &Handle{Driver: driver, DB: db}, nil
	case SQLite:
		db, err := OpenSQLite(ctx, databaseURL)
		if err != nil {
			return nil, err
		}

		return &Handle{Driver: driver, DB: db}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Runner returns the transaction runner for the handle's driver.
func (h *Handle) Runner() TxRunner {
	if h.Pool != nil {
		return NewPGRunner(h.Pool)
	}

	return NewSQLRunner(h.DB)
}

// Close releases the underlying pool.
func (h *Handle) Close() {
	if h == nil {
		return
	}

	if h.Pool != nil {
		h.Pool.Close()
	}

	if h.DB != nil {
		_ = h.DB.Close()
	}
}

// NewPool creates a pgx connection pool for the given database URL.
// It parses the connection string, sets a conservative max connection limit,
// and pings the database to verify connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	poolCfg.MaxConns = defaultMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return pool, nil
}

// OpenMySQL opens a MySQL database from a go-sql-driver DSN such as
// "user:pass@tcp(host:3306)/app". DATETIME columns are parsed into time.Time.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty DSN", ErrInvalidDatabaseURL)
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(defaultMaxConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, nil
}

// OpenSQLite opens a SQLite database file. The DSN is passed to
// mattn/go-sqlite3 unchanged, so "file:app.db?_busy_timeout=5000" works.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty DSN", ErrInvalidDatabaseURL)
	}

	db, err := sql.Open(string(SQLite), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, nil
}
