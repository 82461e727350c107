package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
)

// InsertRule detects INSERT without an ON CONFLICT clause.
type InsertRule struct{}

// NewInsertRule creates a new InsertRule.
func NewInsertRule() *InsertRule { return &InsertRule{} }

// ID returns the rule identifier.
func (r *InsertRule) ID() string { return "insert-without-on-conflict" }

// Check examines a statement for INSERT without ON CONFLICT. Against a key
// the re-run is a tolerated unique violation; without one it duplicates rows.
func (r *InsertRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_InsertStmt)
	if !ok || node.InsertStmt.OnConflictClause != nil {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      analyzer.TableName(node.InsertStmt.Relation),
		Message:    "INSERT without ON CONFLICT inserts duplicate rows unless a unique key rejects them",
		Suggestion: "Add ON CONFLICT DO NOTHING or ON CONFLICT (...) DO UPDATE",
		StmtIndex:  ctx.StmtIndex,
	}}
}
