package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/config"
)

// testRepo is a repository root with the default directory layout and a
// SQLite database file next to it.
type testRepo struct {
	root   string
	dbPath string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	root := t.TempDir()

	return &testRepo{root: root, dbPath: filepath.Join(root, "app.db")}
}

func (r *testRepo) writeInit(t *testing.T, name, content string) {
	t.Helper()
	writeSQL(t, filepath.Join(r.root, config.DefaultInitDir), name, content)
}

func (r *testRepo) writeMigration(t *testing.T, name, content string) {
	t.Helper()
	writeSQL(t, filepath.Join(r.root, config.DefaultMigrationsDir), name, content)
}

// useConfig points AppConfig at the repo for the duration of the test.
func (r *testRepo) useConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.New()
	cfg.Driver = "sqlite3"
	cfg.DatabaseURL = r.dbPath
	cfg.Root = r.root

	setAppConfig(t, cfg)

	return cfg
}

func setAppConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	old := AppConfig
	AppConfig = cfg

	t.Cleanup(func() { AppConfig = old })
}

func writeSQL(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// newTestCmd returns a bare command wired to run with captured output.
func newTestCmd(run func(*cobra.Command, []string) error) (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{RunE: run}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	return cmd, buf
}
