package tracker

import "github.com/aqasim81/sql-migrate-runner/internal/database"

// TableName is the bookkeeping table.
const TableName = "schema_migrations"

// dialect holds the bookkeeping statements for one driver.
type dialect struct {
	createTable    string
	selectChecksum string
	upsert         string
	selectAll      string
}

var dialects = map[database.Driver]dialect{ //nolint:gochecknoglobals // read-only lookup table
	database.Postgres: {
		createTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
    id          BIGSERIAL PRIMARY KEY,
    filename    VARCHAR(255) NOT NULL UNIQUE,
    checksum    VARCHAR(64) NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		selectChecksum: `SELECT checksum FROM schema_migrations WHERE filename = $1`,
		upsert: `INSERT INTO schema_migrations (filename, checksum, applied_at)
VALUES ($1, $2, $3)
ON CONFLICT (filename) DO UPDATE SET
    checksum = EXCLUDED.checksum,
    applied_at = EXCLUDED.applied_at`,
		selectAll: `SELECT id, filename, checksum, applied_at FROM schema_migrations ORDER BY id`,
	},
	database.MySQL: {
		createTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
    id          INT PRIMARY KEY AUTO_INCREMENT,
    filename    VARCHAR(255) NOT NULL UNIQUE,
    checksum    VARCHAR(64) NOT NULL,
    applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
		selectChecksum: `SELECT checksum FROM schema_migrations WHERE filename = ?`,
		upsert: `INSERT INTO schema_migrations (filename, checksum, applied_at)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
    checksum = VALUES(checksum),
    applied_at = VALUES(applied_at)`,
		selectAll: `SELECT id, filename, checksum, applied_at FROM schema_migrations ORDER BY id`,
	},
	database.SQLite: {
		createTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    filename    VARCHAR(255) NOT NULL UNIQUE,
    checksum    VARCHAR(64) NOT NULL,
    applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
		selectChecksum: `SELECT checksum FROM schema_migrations WHERE filename = ?`,
		upsert: `INSERT INTO schema_migrations (filename, checksum, applied_at)
VALUES (?, ?, ?)
ON CONFLICT (filename) DO UPDATE SET
    checksum = excluded.checksum,
    applied_at = excluded.applied_at`,
		selectAll: `SELECT id, filename, checksum, applied_at FROM schema_migrations ORDER BY id`,
	},
}
