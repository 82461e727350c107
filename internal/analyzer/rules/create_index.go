package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
)

// CreateIndexRule detects CREATE INDEX without IF NOT EXISTS.
type CreateIndexRule struct{}

// NewCreateIndexRule creates a new CreateIndexRule.
func NewCreateIndexRule() *CreateIndexRule { return &CreateIndexRule{} }

// ID returns the rule identifier.
func (r *CreateIndexRule) ID() string { return "create-index-not-idempotent" }

// Check examines a statement for CREATE INDEX without IF NOT EXISTS.
// Unnamed indexes get a fresh generated name on every run, so they are
// duplicated rather than rejected.
func (r *CreateIndexRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_IndexStmt)
	if !ok {
		return nil
	}

	idx := node.IndexStmt
	if idx.IfNotExists {
		return nil
	}

	if idx.Idxname == "" {
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Table:      analyzer.TableName(idx.Relation),
			Message:    "unnamed CREATE INDEX builds a duplicate index on every run",
			Suggestion: "Name the index and use CREATE INDEX IF NOT EXISTS",
			StmtIndex:  ctx.StmtIndex,
		}}
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Table:      analyzer.TableName(idx.Relation),
		Message:    "CREATE INDEX " + idx.Idxname + " relies on the duplicate-index error being tolerated",
		Suggestion: "Use CREATE INDEX IF NOT EXISTS",
		StmtIndex:  ctx.StmtIndex,
	}}
}
