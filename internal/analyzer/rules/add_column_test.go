package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
	"github.com/aqasim81/sql-migrate-runner/internal/analyzer/rules"
	"github.com/aqasim81/sql-migrate-runner/internal/parser"
)

func TestAddColumnRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "add-column-not-idempotent", rules.NewAddColumnRule().ID())
}

func TestAddColumnRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewAddColumnRule(), []ruleCase{
		{
			name:         "ADD COLUMN without IF NOT EXISTS is LOW",
			sql:          "ALTER TABLE users ADD COLUMN max_bpm INT;",
			wantCount:    1,
			wantSeverity: analyzer.Low,
			wantTable:    "users",
			wantMessage:  "max_bpm",
		},
		{
			name:      "IF NOT EXISTS is safe",
			sql:       "ALTER TABLE users ADD COLUMN IF NOT EXISTS max_bpm INT;",
			wantCount: 0,
		},
		{
			name:      "other ALTER TABLE commands ignored",
			sql:       "ALTER TABLE users ALTER COLUMN email SET NOT NULL;",
			wantCount: 0,
		},
		{
			name:      "non-alter statement ignored",
			sql:       "CREATE TABLE users (id INT);",
			wantCount: 0,
		},
	})
}

func TestAddColumnRule_multipleColumns(t *testing.T) {
	t.Parallel()

	result, err := parser.Parse(
		"ALTER TABLE sessions ADD COLUMN sleep_score INT, ADD COLUMN IF NOT EXISTS hrv INT, ADD COLUMN source TEXT;",
	)
	require.NoError(t, err)

	findings := rules.NewAddColumnRule().Check(result.Stmts[0], &analyzer.RuleContext{})
	require.Len(t, findings, 2)
	assert.Contains(t, findings[0].Message, "sleep_score")
	assert.Contains(t, findings[1].Message, "source")
}
