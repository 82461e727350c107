package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aqasim81/sql-migrate-runner/internal/database"
	"github.com/aqasim81/sql-migrate-runner/internal/migration"
)

// statementPreviewLen bounds how much of a statement is logged.
const statementPreviewLen = 120

// MigrationTracker abstracts schema_migrations operations for testability.
type MigrationTracker interface {
	EnsureTable(ctx context.Context) error
	AlreadyApplied(ctx context.Context, filename, checksum string) (bool, error)
	RecordApplied(ctx context.Context, filename, checksum string) error
}

// loadFunc reads one migration file from disk.
type loadFunc func(path string) (migration.File, error)

// Executor applies migration files one at a time. A file either applies
// completely (benign errors aside), is skipped as already applied, or fails
// without being recorded. A failed file never stops the run.
type Executor struct {
	runner           database.TxRunner
	tracker          MigrationTracker
	statementTimeout time.Duration
	dryRun           bool
	logger           zerolog.Logger
	onProgress       func(FileResult)
	load             loadFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithStatementTimeout bounds each statement with a context deadline.
func WithStatementTimeout(d time.Duration) Option {
	return func(e *Executor) { e.statementTimeout = d }
}

// WithDryRun enables dry-run mode where no SQL is executed.
func WithDryRun(b bool) Option {
	return func(e *Executor) { e.dryRun = b }
}

// WithLogger sets the logger for per-file and benign-error messages.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithProgressCallback sets a function called when a file starts and when
// it reaches a final status.
func WithProgressCallback(fn func(FileResult)) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// New creates an Executor with the given transaction runner, tracker, and options.
func New(runner database.TxRunner, t MigrationTracker, opts ...Option) *Executor {
	e := &Executor{
		runner:  runner,
		tracker: t,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.load == nil {
		e.load = migration.Load
	}

	return e
}

// ApplyAll ensures the bookkeeping table exists and then processes every
// path in order. File failures are reported in the Report, not returned;
// the error is non-nil only when the bookkeeping table cannot be created or
// ctx is cancelled between files.
func (e *Executor) ApplyAll(ctx context.Context, paths []string) (*Report, error) {
	if err := e.tracker.EnsureTable(ctx); err != nil {
		return nil, err
	}

	report := &Report{Results: make([]FileResult, 0, len(paths))}
	seen := make(map[string]string, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("migration run interrupted: %w", err)
		}

		name := filepath.Base(path)
		if prev, dup := seen[name]; dup {
			e.logger.Warn().
				Str("file", path).
				Str("previous", prev).
				Msg("filename already used by another migration; both share one bookkeeping row")
		}

		seen[name] = path

		report.Results = append(report.Results, e.ApplyFile(ctx, path))
	}

	return report, nil
}

// ApplyFile processes a single migration file. Read, database and
// bookkeeping errors come back in the result with StatusFailed.
func (e *Executor) ApplyFile(ctx context.Context, path string) FileResult {
	start := time.Now()

	res := e.applyFile(ctx, path)
	res.Duration = time.Since(start)

	switch res.Status {
	case StatusFailed:
		e.logger.Error().Err(res.Err).Str("file", path).Msg("migration failed")
	case StatusApplied:
		e.logger.Info().
			Str("file", res.Filename).
			Int("statements", res.Executed).
			Int("benign", len(res.Benign)).
			Dur("duration", res.Duration).
			Msg("migration applied")
	case StatusSkipped:
		e.logger.Debug().Str("file", res.Filename).Msg("already applied")
	case StatusPending:
		e.logger.Info().Str("file", res.Filename).Msg("would apply")
	}

	e.fireProgress(res)

	return res
}

func (e *Executor) applyFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path, Filename: filepath.Base(path)}

	f, err := e.load(path)
	if err != nil {
		return failed(res, err)
	}

	res.Filename = f.Filename
	res.Checksum = f.Checksum

	applied, err := e.tracker.AlreadyApplied(ctx, f.Filename, f.Checksum)
	if err != nil {
		return failed(res, fmt.Errorf("checking migration %s: %w", f.Filename, err))
	}

	if applied {
		res.Status = StatusSkipped
		return res
	}

	if e.dryRun {
		res.Status = StatusPending
		return res
	}

	e.fireProgress(FileResult{Path: path, Filename: f.Filename, Checksum: f.Checksum, Status: StatusStarting})

	if stmts := f.Statements(); len(stmts) > 0 {
		err := e.runner.InTransaction(ctx, func(s database.Session) error {
			return e.execStatements(ctx, s, stmts, &res)
		})
		if err != nil {
			return failed(res, fmt.Errorf("executing migration %s: %w", f.Filename, err))
		}
	}

	if err := e.tracker.RecordApplied(ctx, f.Filename, f.Checksum); err != nil {
		return failed(res, fmt.Errorf("recording migration %s: %w", f.Filename, err))
	}

	res.Status = StatusApplied

	return res
}

// execStatements runs stmts in order. Benign errors are logged and
// skipped; the first other error stops the file.
func (e *Executor) execStatements(ctx context.Context, s database.Session, stmts []string, res *FileResult) error {
	for i, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		err := e.execOne(ctx, s, stmt)
		if err == nil {
			res.Executed++
			continue
		}

		if !database.IsBenignStatement(stmt, err) {
			return &StatementError{Index: i + 1, SQL: stmt, Err: err}
		}

		code := database.ErrorCode(err)
		res.Benign = append(res.Benign, BenignSkip{Code: code, Statement: stmt, Err: err})

		e.logger.Warn().
			Str("file", res.Filename).
			Str("code", code).
			Str("statement", truncate(stmt, statementPreviewLen)).
			Msg("skipping benign error")
	}

	return nil
}

func (e *Executor) execOne(ctx context.Context, s database.Session, stmt string) error {
	if e.statementTimeout <= 0 {
		return s.Exec(ctx, stmt)
	}

	ctx, cancel := context.WithTimeout(ctx, e.statementTimeout)
	defer cancel()

	return s.Exec(ctx, stmt)
}

func (e *Executor) fireProgress(res FileResult) {
	if e.onProgress != nil {
		e.onProgress(res)
	}
}

func failed(res FileResult, err error) FileResult {
	res.Status = StatusFailed
	res.Err = err

	return res
}

// truncate shortens s to at most n characters for display, marking the cut.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}

		count++
	}

	return s
}
