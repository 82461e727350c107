package database

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// MySQL server error numbers that mean the schema change is already in place.
const (
	MySQLTableExists          uint16 = 1050 // ER_TABLE_EXISTS_ERROR
	MySQLDupFieldName         uint16 = 1060 // ER_DUP_FIELDNAME
	MySQLDupKeyName           uint16 = 1061 // ER_DUP_KEYNAME
	MySQLDupEntry             uint16 = 1062 // ER_DUP_ENTRY
	MySQLCantDropFieldOrKey   uint16 = 1091 // ER_CANT_DROP_FIELD_OR_KEY
	MySQLFunctionalIndexOnLOB uint16 = 3757 // ER_FUNCTIONAL_INDEX_ON_LOB
)

var benignMySQL = map[uint16]bool{ //nolint:gochecknoglobals // read-only lookup table
	MySQLTableExists:          true,
	MySQLDupFieldName:         true,
	MySQLDupKeyName:           true,
	MySQLDupEntry:             true,
	MySQLCantDropFieldOrKey:   true,
	MySQLFunctionalIndexOnLOB: true,
}

// PostgreSQL SQLSTATE codes with the same meaning as the MySQL list.
var benignPostgres = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"42P07": true, // duplicate_table, also raised for an existing index
	"42701": true, // duplicate_column
	"42710": true, // duplicate_object
	"23505": true, // unique_violation
}

// PostgreSQL SQLSTATE codes that are benign only for a DROP. Elsewhere they
// report a misspelled column or an unknown type.
var benignPostgresDrop = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"42703": true, // undefined_column, DROP COLUMN of a missing column
	"42704": true, // undefined_object, DROP INDEX or DROP CONSTRAINT of a missing object
}

// Words that follow DROP inside ALTER COLUMN without naming a column,
// index or constraint.
var alterColumnDropTargets = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"DEFAULT":    true,
	"NOT":        true,
	"EXPRESSION": true,
	"IDENTITY":   true,
}

// SQLite reports most schema conflicts as a generic SQLITE_ERROR, so the
// message is all there is to go on.
var benignSQLiteMessages = []string{ //nolint:gochecknoglobals // read-only lookup table
	"already exists",
	"duplicate column name",
	"no such index",
}

const functionalIndexMessage = "functional index"

// ErrorCode returns the driver-specific code carried by err: the MySQL
// error number, the PostgreSQL SQLSTATE, or the SQLite extended result code.
// It returns "" for errors that did not come from a database driver.
func ErrorCode(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(int(liteErr.ExtendedCode))
	}

	return ""
}

// IsBenign reports whether err means the statement's effect already exists
// (table, column, index or row present; dropped key already gone), so a
// re-run can continue past it. Any error whose message mentions a
// functional index is also benign.
func IsBenign(err error) bool {
	if err == nil {
		return false
	}

	if benignByCode(err) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), functionalIndexMessage)
}

// IsBenignStatement is IsBenign with the statement that raised err. It also
// accepts a missing column or object on PostgreSQL when stmt drops it.
func IsBenignStatement(stmt string, err error) bool {
	if IsBenign(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return benignPostgresDrop[pgErr.Code] && isDropStatement(stmt)
	}

	return false
}

// isDropStatement reports whether stmt is a DROP or an ALTER that drops a
// column, index or constraint.
func isDropStatement(stmt string) bool {
	words := strings.Fields(strings.ToUpper(stmt))
	if len(words) == 0 {
		return false
	}

	switch words[0] {
	case "DROP":
		return true
	case "ALTER":
		for i, w := range words {
			if w != "DROP" {
				continue
			}

			if i+1 < len(words) && !alterColumnDropTargets[strings.TrimRight(words[i+1], ";,")] {
				return true
			}
		}
	}

	return false
}

func benignByCode(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return benignMySQL[myErr.Number]
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return benignPostgres[pgErr.Code]
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return benignSQLite(liteErr)
	}

	return false
}

func benignSQLite(err sqlite3.Error) bool {
	if err.ExtendedCode == sqlite3.ErrConstraintUnique || err.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return true
	}

	if err.Code != sqlite3.ErrError {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, m := range benignSQLiteMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}

	return false
}
