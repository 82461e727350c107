package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
	"github.com/aqasim81/sql-migrate-runner/internal/migration"
)

// newLintCmd creates a fresh command wired to runLint with a captured output buffer.
func newLintCmd(t *testing.T, flags map[string]string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cmd, buf := newTestCmd(runLint)
	cmd.Flags().Bool("strict", false, "")
	cmd.Flags().String("min-severity", "high", "")

	for k, v := range flags {
		require.NoError(t, cmd.Flags().Set(k, v))
	}

	return cmd, buf
}

func TestCountFilesWithFindings(t *testing.T) {
	t.Parallel()

	f1 := &migration.File{Filename: "001.sql"}
	f2 := &migration.File{Filename: "002.sql"}

	tests := []struct {
		name     string
		results  []analyzer.AnalysisResult
		expected int
	}{
		{name: "empty results", results: nil, expected: 0},
		{
			name:     "no findings",
			results:  []analyzer.AnalysisResult{{File: f1}},
			expected: 0,
		},
		{
			name: "one with findings",
			results: []analyzer.AnalysisResult{
				{File: f1},
				{File: f2, Findings: []analyzer.Finding{{Rule: "test"}}},
			},
			expected: 1,
		},
		{
			name: "all with findings",
			results: []analyzer.AnalysisResult{
				{File: f1, Findings: []analyzer.Finding{{Rule: "a"}}},
				{File: f2, Findings: []analyzer.Finding{{Rule: "b"}}},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, countFilesWithFindings(tt.results))
		})
	}
}

func TestRunLint_cleanFiles(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	repo := newTestRepo(t)
	cfg := repo.useConfig(t)
	cfg.Driver = "postgres"

	repo.writeMigration(t, "001_users.sql", "CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY);")
	repo.writeMigration(t, "002_idx.sql", "CREATE INDEX IF NOT EXISTS idx_users_id ON users (id);")

	cmd, buf := newLintCmd(t, map[string]string{"strict": "true"})
	require.NoError(t, runLint(cmd, nil))
	assert.Contains(t, buf.String(), "All statements are re-runnable.")
	assert.NotContains(t, buf.String(), "PostgreSQL grammar")
}

func TestRunLint_reportsFindings(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	repo := newTestRepo(t)
	cfg := repo.useConfig(t)
	cfg.Driver = "postgres"

	repo.writeInit(t, "01_users.sql", "CREATE TABLE users (id INT);")
	repo.writeMigration(t, "001_drop.sql", "DROP TABLE legacy;")

	tests := []struct {
		name    string
		flags   map[string]string
		wantErr bool
	}{
		{name: "non-strict passes", flags: nil},
		{name: "strict fails on high", flags: map[string]string{"strict": "true"}, wantErr: true},
		{name: "strict with low threshold fails", flags: map[string]string{"strict": "true", "min-severity": "low"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, buf := newLintCmd(t, tt.flags)
			err := runLint(cmd, nil)

			out := buf.String()
			assert.Contains(t, out, "=== 01_users.sql ===")
			assert.Contains(t, out, "[LOW]")
			assert.Contains(t, out, "Rule:  create-table-not-idempotent")
			assert.Contains(t, out, "=== 001_drop.sql ===")
			assert.Contains(t, out, "[HIGH]")
			assert.Contains(t, out, "Found 2 finding(s) across 2 file(s).")

			if tt.wantErr {
				require.ErrorIs(t, err, errLintFindings)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestRunLint_strictMediumIgnoresLow(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	repo := newTestRepo(t)
	cfg := repo.useConfig(t)
	cfg.Driver = "postgres"

	repo.writeMigration(t, "001_users.sql", "CREATE TABLE users (id INT);")

	cmd, _ := newLintCmd(t, map[string]string{"strict": "true", "min-severity": "medium"})
	require.NoError(t, runLint(cmd, nil))
}

func TestRunLint_mysqlDriverPrintsNote(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	repo := newTestRepo(t)
	repo.useConfig(t).Driver = "mysql"

	repo.writeMigration(t, "001_users.sql", "CREATE TABLE `users` (`id` INT) ENGINE=InnoDB;")

	cmd, buf := newLintCmd(t, nil)
	require.NoError(t, runLint(cmd, nil))
	assert.Contains(t, buf.String(), "mysql-only syntax is reported as unparsable-statement")
	assert.Contains(t, buf.String(), "Rule:  unparsable-statement")
}

func TestRunLint_invalidSeverity(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	repo := newTestRepo(t)
	repo.useConfig(t)

	for _, sev := range []string{"critical", "safe"} {
		cmd, _ := newLintCmd(t, map[string]string{"min-severity": sev})
		require.ErrorIs(t, runLint(cmd, nil), errInvalidSeverity)
	}
}

func TestRunLint_noFiles(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	repo := newTestRepo(t)
	repo.useConfig(t)

	cmd, buf := newLintCmd(t, nil)
	require.NoError(t, runLint(cmd, nil))
	assert.Contains(t, buf.String(), "No migration files found.")
}
