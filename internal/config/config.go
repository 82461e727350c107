package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aqasim81/sql-migrate-runner/internal/migration"
)

// Default values for configuration fields.
const (
	DefaultDriver        = "mysql"
	DefaultRoot          = "."
	DefaultInitDir       = migration.DefaultInitDir
	DefaultMigrationsDir = migration.DefaultMigrationsDir
	DefaultLogFormat     = "console"
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	Driver           string
	DatabaseURL      string
	Root             string
	InitDir          string
	MigrationsDir    string
	StatementTimeout time.Duration // zero means no per-statement deadline
	MetricsFile      string
	LogFormat        string
}

// yamlConfig is the raw YAML file representation with string durations.
type yamlConfig struct {
	Driver           string `yaml:"driver"`
	DatabaseURL      string `yaml:"database_url"`
	Root             string `yaml:"root"`
	InitDir          string `yaml:"init_dir"`
	MigrationsDir    string `yaml:"migrations_dir"`
	StatementTimeout string `yaml:"statement_timeout"`
	MetricsFile      string `yaml:"metrics_file"`
	LogFormat        string `yaml:"log_format"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		Driver:        DefaultDriver,
		Root:          DefaultRoot,
		InitDir:       DefaultInitDir,
		MigrationsDir: DefaultMigrationsDir,
		LogFormat:     DefaultLogFormat,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw)
}

// fromYAML converts the raw YAML representation to a Config with defaults applied.
func fromYAML(raw *yamlConfig) (*Config, error) {
	cfg := New()

	setString(&cfg.Driver, raw.Driver)
	setString(&cfg.DatabaseURL, raw.DatabaseURL)
	setString(&cfg.Root, raw.Root)
	setString(&cfg.InitDir, raw.InitDir)
	setString(&cfg.MigrationsDir, raw.MigrationsDir)
	setString(&cfg.MetricsFile, raw.MetricsFile)
	setString(&cfg.LogFormat, raw.LogFormat)

	if raw.StatementTimeout != "" {
		d, err := time.ParseDuration(raw.StatementTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing statement_timeout %q: %w", raw.StatementTimeout, err)
		}

		cfg.StatementTimeout = d
	}

	return cfg, nil
}

// MergeEnv overrides config fields from MIGRATE_* environment variables.
func MergeEnv(cfg *Config) {
	setString(&cfg.Driver, os.Getenv("MIGRATE_DRIVER"))
	setString(&cfg.DatabaseURL, os.Getenv("MIGRATE_DATABASE_URL"))
	setString(&cfg.Root, os.Getenv("MIGRATE_ROOT"))
	setString(&cfg.InitDir, os.Getenv("MIGRATE_INIT_DIR"))
	setString(&cfg.MigrationsDir, os.Getenv("MIGRATE_MIGRATIONS_DIR"))
	setString(&cfg.MetricsFile, os.Getenv("MIGRATE_METRICS_FILE"))
	setString(&cfg.LogFormat, os.Getenv("MIGRATE_LOG_FORMAT"))

	if v := os.Getenv("MIGRATE_STATEMENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.StatementTimeout = d
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
