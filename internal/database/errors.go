package database

import "errors"

// ErrInvalidDatabaseURL indicates the provided database URL could not be parsed.
var ErrInvalidDatabaseURL = errors.New("invalid database URL")

// ErrConnectionFailed indicates a connection to the database could not be established.
var ErrConnectionFailed = errors.New("database connection failed")

// ErrUnsupportedDriver indicates the configured driver name is not one of
// postgres, mysql or sqlite3.
var ErrUnsupportedDriver = errors.New("unsupported database driver")
