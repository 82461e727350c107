package tracker

import "errors"

// ErrTableCreation indicates the schema_migrations table could not be created.
var ErrTableCreation = errors.New("creating schema_migrations table")

// ErrUnsupportedDriver indicates no bookkeeping SQL exists for the driver.
var ErrUnsupportedDriver = errors.New("no schema_migrations dialect for driver")
