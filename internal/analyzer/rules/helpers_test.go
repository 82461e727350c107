package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
	"github.com/aqasim81/sql-migrate-runner/internal/parser"
)

type ruleCase struct {
	name         string
	sql          string
	wantCount    int
	wantSeverity analyzer.Severity
	wantTable    string
	wantMessage  string // substring of the first finding's message
}

// runRuleCases parses each case as a single statement and checks rule's findings.
func runRuleCases(t *testing.T, rule analyzer.Rule, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := parser.Parse(tt.sql)
			require.NoError(t, err)
			require.Len(t, result.Stmts, 1)

			ctx := &analyzer.RuleContext{StmtIndex: 3, SQL: result.Text(0)}

			findings := rule.Check(result.Stmts[0], ctx)
			require.Len(t, findings, tt.wantCount)

			if tt.wantCount == 0 {
				return
			}

			assert.Equal(t, rule.ID(), findings[0].Rule)
			assert.Equal(t, tt.wantSeverity, findings[0].Severity)
			assert.Equal(t, tt.wantTable, findings[0].Table)
			assert.Equal(t, 3, findings[0].StmtIndex)
			assert.NotEmpty(t, findings[0].Suggestion)

			if tt.wantMessage != "" {
				assert.Contains(t, findings[0].Message, tt.wantMessage)
			}
		})
	}
}
