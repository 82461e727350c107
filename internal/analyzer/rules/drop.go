package rules

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
)

// DropRule detects DROP statements and ALTER TABLE DROP COLUMN without IF EXISTS.
type DropRule struct{}

// NewDropRule creates a new DropRule.
func NewDropRule() *DropRule { return &DropRule{} }

// ID returns the rule identifier.
func (r *DropRule) ID() string { return "drop-not-idempotent" }

// Check examines a statement for drops that fail once the object is gone.
func (r *DropRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	switch node := stmt.Stmt.Node.(type) {
	case *pg_query.Node_DropStmt:
		return r.checkDrop(node.DropStmt, ctx)
	case *pg_query.Node_AlterTableStmt:
		return r.checkDropColumn(node.AlterTableStmt, ctx)
	default:
		return nil
	}
}

func (r *DropRule) checkDrop(drop *pg_query.DropStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	if drop == nil || drop.MissingOk {
		return nil
	}

	// A missing index is tolerated as undefined_object; a missing table or
	// view raises undefined_table, which fails the file.
	sev := analyzer.High
	if drop.RemoveType == pg_query.ObjectType_OBJECT_INDEX {
		sev = analyzer.Low
	}

	kind := objectKind(drop.RemoveType)

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   sev,
		Table:      strings.Join(dropObjectNames(drop), ", "),
		Message:    "DROP " + kind + " without IF EXISTS fails when the file runs again",
		Suggestion: "Use DROP " + kind + " IF EXISTS",
		StmtIndex:  ctx.StmtIndex,
	}}
}

func (r *DropRule) checkDropColumn(alt *pg_query.AlterTableStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	var findings []analyzer.Finding

	for _, cmd := range alterCmds(alt, pg_query.AlterTableType_AT_DropColumn) {
		if cmd.MissingOk {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.Low,
			Table:      analyzer.TableName(alt.Relation),
			Message:    "DROP COLUMN " + columnName(cmd) + " relies on the missing-column error being tolerated",
			Suggestion: "Use ALTER TABLE ... DROP COLUMN IF EXISTS",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}

func objectKind(t pg_query.ObjectType) string {
	name := strings.TrimPrefix(t.String(), "OBJECT_")
	return strings.ReplaceAll(name, "_", " ")
}

// dropObjectNames returns the dotted names of the dropped objects.
func dropObjectNames(drop *pg_query.DropStmt) []string {
	var names []string

	for _, obj := range drop.Objects {
		listNode, ok := obj.Node.(*pg_query.Node_List)
		if !ok {
			continue
		}

		var parts []string

		for _, item := range listNode.List.Items {
			if s, ok := item.Node.(*pg_query.Node_String_); ok {
				parts = append(parts, s.String_.Sval)
			}
		}

		if len(parts) > 0 {
			names = append(names, strings.Join(parts, "."))
		}
	}

	return names
}
