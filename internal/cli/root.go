package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-migrate-runner/internal/config"
)

const version = "0.2.0"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// logger is configured from AppConfig during PersistentPreRunE.
var logger = zerolog.Nop() //nolint:gochecknoglobals // shared by all subcommands

// rootCmd is the base command. Without a subcommand it applies migrations.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "migrate",
	Version: version,
	Short:   "Re-runnable SQL migration runner",
	Long: `migrate applies the .sql files of the init and migrations directories in
filename order. Each file is recorded in schema_migrations by name and
SHA-256 checksum, so unchanged files are skipped on the next run and
"already exists" errors from a partial earlier run are tolerated.

Running migrate without a subcommand is the same as "migrate apply".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(cmd.ErrOrStderr(), AppConfig.LogFormat, verbose)

		return nil
	},
	RunE: runApply,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	pf := rootCmd.PersistentFlags()
	pf.String("config", "migrate.yml", "path to configuration file")
	pf.String("driver", "", "database driver (mysql, postgres, sqlite3)")
	pf.String("database-url", "", "connection string or MySQL DSN")
	pf.String("root", "", "repository root the migration directories are relative to")
	pf.String("init-dir", "", "directory of init scripts")
	pf.String("migrations-dir", "", "directory of migration files")
	pf.String("log-format", "", "log output format (console, json)")
	pf.Bool("verbose", false, "enable debug logging")

	addApplyFlags(rootCmd)
}

// Execute runs the root command. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	for flag, field := range map[string]*string{
		"driver":         &cfg.Driver,
		"database-url":   &cfg.DatabaseURL,
		"root":           &cfg.Root,
		"init-dir":       &cfg.InitDir,
		"migrations-dir": &cfg.MigrationsDir,
		"log-format":     &cfg.LogFormat,
	} {
		if cmd.Flags().Lookup(flag) != nil && cmd.Flags().Changed(flag) {
			*field, _ = cmd.Flags().GetString(flag)
		}
	}
}

// newLogger returns a console or JSON logger at info level, debug when verbose.
func newLogger(w io.Writer, format string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if format == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}

	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
