package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
)

// CreateTableRule detects CREATE TABLE and CREATE TABLE AS without IF NOT EXISTS.
type CreateTableRule struct{}

// NewCreateTableRule creates a new CreateTableRule.
func NewCreateTableRule() *CreateTableRule { return &CreateTableRule{} }

// ID returns the rule identifier.
func (r *CreateTableRule) ID() string { return "create-table-not-idempotent" }

// Check examines a statement for CREATE TABLE without IF NOT EXISTS.
func (r *CreateTableRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	var table string

	switch node := stmt.Stmt.Node.(type) {
	case *pg_query.Node_CreateStmt:
		if node.CreateStmt.IfNotExists {
			return nil
		}

		table = analyzer.TableName(node.CreateStmt.Relation)
	case *pg_query.Node_CreateTableAsStmt:
		if node.CreateTableAsStmt.IfNotExists || node.CreateTableAsStmt.Into == nil {
			return nil
		}

		table = analyzer.TableName(node.CreateTableAsStmt.Into.Rel)
	default:
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Table:      table,
		Message:    "CREATE TABLE fails with duplicate_table when the file runs again",
		Suggestion: "Use CREATE TABLE IF NOT EXISTS",
		StmtIndex:  ctx.StmtIndex,
	}}
}
