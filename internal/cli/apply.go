package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-migrate-runner/internal/config"
	"github.com/aqasim81/sql-migrate-runner/internal/database"
	"github.com/aqasim81/sql-migrate-runner/internal/executor"
	"github.com/aqasim81/sql-migrate-runner/internal/metrics"
	"github.com/aqasim81/sql-migrate-runner/internal/migration"
	"github.com/aqasim81/sql-migrate-runner/internal/tracker"
)

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New( //nolint:gochecknoglobals // sentinel error
	"database URL is required (set --database-url, MIGRATE_DATABASE_URL, or database_url in config)",
)

// errMigrationsFailed is returned under --strict when any file failed.
var errMigrationsFailed = errors.New("one or more migrations failed") //nolint:gochecknoglobals // sentinel error

var applyCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "apply",
	Short: "Apply pending migrations",
	Long: `Apply every migration file that is new or has changed since it was last
recorded. A failing file is rolled back, left unrecorded, and reported;
the remaining files still run. Use --strict to exit non-zero when any file
failed.`,
	RunE: runApply,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	addApplyFlags(applyCmd)
	rootCmd.AddCommand(applyCmd)
}

// addApplyFlags registers the apply flags on cmd. The root command carries
// them too so that a bare "migrate" accepts them.
func addApplyFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "report what would be applied without executing")
	cmd.Flags().Bool("strict", false, "exit with non-zero code if any migration failed")
	cmd.Flags().Duration("statement-timeout", 0, "per-statement timeout (e.g., 30s, 5m)")
	cmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics to this path")
}

type applyOpts struct {
	stmtTimeout time.Duration
	dryRun      bool
	strict      bool
	metricsFile string
}

func applyOptions(cmd *cobra.Command, cfg *config.Config) applyOpts {
	opts := applyOpts{
		stmtTimeout: cfg.StatementTimeout,
		metricsFile: cfg.MetricsFile,
	}

	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.strict, _ = cmd.Flags().GetBool("strict")

	if cmd.Flags().Changed("statement-timeout") {
		opts.stmtTimeout, _ = cmd.Flags().GetDuration("statement-timeout")
	}

	if cmd.Flags().Changed("metrics-file") {
		opts.metricsFile, _ = cmd.Flags().GetString("metrics-file")
	}

	return opts
}

func runApply(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	out := cmd.OutOrStdout()
	opts := applyOptions(cmd, cfg)

	paths, err := collectPaths(cfg, out)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	h, err := connectDB(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer h.Close()

	t, err := tracker.New(h)
	if err != nil {
		return err
	}

	report, err := executeMigrations(ctx, out, h.Runner(), t, paths, opts)
	if report != nil && opts.metricsFile != "" {
		writeMetrics(report, opts.metricsFile)
	}

	if err != nil {
		return err
	}

	if opts.strict && report.HasFailures() {
		return fmt.Errorf("%w: %d file(s)", errMigrationsFailed, report.Count(executor.StatusFailed))
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// collectPaths lists the migration files for cfg's layout.
func collectPaths(cfg *config.Config, out io.Writer) ([]string, error) {
	paths, err := migration.Collect(migration.Layout{
		Root:          cfg.Root,
		InitDir:       cfg.InitDir,
		MigrationsDir: cfg.MigrationsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("collecting migrations: %w", err)
	}

	if len(paths) == 0 {
		fmt.Fprintln(out, "No migration files found.")
	}

	return paths, nil
}

func connectDB(ctx context.Context, cfg *config.Config, out io.Writer) (*database.Handle, error) {
	if cfg.DatabaseURL == "" {
		return nil, errDatabaseURLRequired
	}

	driver, err := database.ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Connecting to %s (%s)\n", config.RedactURL(cfg.DatabaseURL), driver)

	h, err := database.Open(ctx, driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return h, nil
}

func executeMigrations(
	ctx context.Context,
	out io.Writer,
	runner database.TxRunner,
	t executor.MigrationTracker,
	paths []string,
	opts applyOpts,
) (*executor.Report, error) {
	var started string

	exec := executor.New(runner, t,
		executor.WithStatementTimeout(opts.stmtTimeout),
		executor.WithDryRun(opts.dryRun),
		executor.WithLogger(logger),
		executor.WithProgressCallback(func(res executor.FileResult) {
			switch res.Status {
			case executor.StatusStarting:
				started = res.Path
				fmt.Fprintf(out, "  Applying %s ... ", res.Filename)
			case executor.StatusApplied:
				fmt.Fprintf(out, "done (%s", res.Duration.Truncate(time.Millisecond))

				if n := len(res.Benign); n > 0 {
					fmt.Fprintf(out, ", %d tolerated", n)
				}

				fmt.Fprintln(out, ")")
			case executor.StatusPending:
				fmt.Fprintf(out, "  Would apply %s\n", res.Filename)
			case executor.StatusFailed:
				if started != res.Path {
					fmt.Fprintf(out, "  Applying %s ... ", res.Filename)
				}

				fmt.Fprintln(out, "FAILED")
				fmt.Fprintf(out, "    Error: %v\n", res.Err)
			}
		}),
	)

	if opts.dryRun {
		fmt.Fprintln(out, "\n--- DRY RUN (no changes will be made) ---")
	}

	report, err := exec.ApplyAll(ctx, paths)
	if err != nil {
		return report, fmt.Errorf("applying migrations: %w", err)
	}

	if opts.dryRun {
		fmt.Fprintf(out, "\nDry run complete: %d migration(s) would be applied, %d already applied.\n",
			report.Count(executor.StatusPending), report.Count(executor.StatusSkipped))

		return report, nil
	}

	fmt.Fprintf(out, "\nApply complete: %d applied, %d skipped, %d failed.\n",
		report.Count(executor.StatusApplied), report.Count(executor.StatusSkipped), report.Count(executor.StatusFailed))

	for _, f := range report.Failed() {
		fmt.Fprintf(out, "  %s: %v\n", f.Filename, f.Err)
	}

	return report, nil
}

func writeMetrics(report *executor.Report, path string) {
	c := metrics.New()
	c.ObserveReport(report, time.Now())

	if err := c.WriteTextfile(path); err != nil {
		logger.Error().Err(err).Msg("metrics not written")
		return
	}

	logger.Debug().Str("path", path).Msg("metrics written")
}
