package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
)

// AddColumnRule detects ALTER TABLE ADD COLUMN without IF NOT EXISTS.
type AddColumnRule struct{}

// NewAddColumnRule creates a new AddColumnRule.
func NewAddColumnRule() *AddColumnRule { return &AddColumnRule{} }

// ID returns the rule identifier.
func (r *AddColumnRule) ID() string { return "add-column-not-idempotent" }

// Check reports one finding per ADD COLUMN subcommand lacking IF NOT EXISTS.
func (r *AddColumnRule) Check(stmt *pg_query.RawStmt, ctx *analyzer.RuleContext) []analyzer.Finding {
	node, ok := stmt.Stmt.Node.(*pg_query.Node_AlterTableStmt)
	if !ok {
		return nil
	}

	alt := node.AlterTableStmt

	var findings []analyzer.Finding

	for _, cmd := range alterCmds(alt, pg_query.AlterTableType_AT_AddColumn) {
		if cmd.MissingOk {
			continue
		}

		findings = append(findings, analyzer.Finding{
			Rule:       r.ID(),
			Severity:   analyzer.Low,
			Table:      analyzer.TableName(alt.Relation),
			Message:    "ADD COLUMN " + columnName(cmd) + " fails with duplicate_column when the file runs again",
			Suggestion: "Use ALTER TABLE ... ADD COLUMN IF NOT EXISTS",
			StmtIndex:  ctx.StmtIndex,
		})
	}

	return findings
}

// alterCmds returns the subcommands of alt with the given type.
func alterCmds(alt *pg_query.AlterTableStmt, subtype pg_query.AlterTableType) []*pg_query.AlterTableCmd {
	var cmds []*pg_query.AlterTableCmd

	for _, n := range alt.Cmds {
		cmd, ok := n.Node.(*pg_query.Node_AlterTableCmd)
		if !ok || cmd.AlterTableCmd.Subtype != subtype {
			continue
		}

		cmds = append(cmds, cmd.AlterTableCmd)
	}

	return cmds
}

// columnName returns the column an ALTER TABLE subcommand targets. ADD COLUMN
// keeps it in the ColumnDef, DROP COLUMN in Name.
func columnName(cmd *pg_query.AlterTableCmd) string {
	if cmd.Name != "" {
		return cmd.Name
	}

	if cmd.Def != nil {
		if def, ok := cmd.Def.Node.(*pg_query.Node_ColumnDef); ok {
			return def.ColumnDef.Colname
		}
	}

	return "<unknown>"
}
