package analyzer

import (
	"unicode/utf8"

	"github.com/aqasim81/sql-migrate-runner/internal/migration"
)

// Finding is one statement that will not re-run cleanly.
type Finding struct {
	Rule       string   // Rule ID (e.g., "create-table-not-idempotent")
	Severity   Severity // How a re-run is affected
	Table      string   // Affected table or object name
	Statement  string   // The SQL statement text (truncated for display)
	Message    string
	Suggestion string // Idempotent alternative
	StmtIndex  int    // 0-based position among the file's parsed statements
}

// AnalysisResult holds all findings for a single migration file.
type AnalysisResult struct {
	File        *migration.File
	Findings    []Finding
	MaxSeverity Severity
}

// AtLeast reports whether any finding is at or above min.
func (r *AnalysisResult) AtLeast(minSeverity Severity) bool {
	return len(r.Findings) > 0 && r.MaxSeverity >= minSeverity
}

// TruncateSQL truncates a SQL string to maxLen characters for display.
func TruncateSQL(sql string, maxLen int) string {
	if maxLen < 4 || utf8.RuneCountInString(sql) <= maxLen { //nolint:mnd // room for "..."
		return sql
	}

	keep := maxLen - 3
	for i := range sql {
		if keep == 0 {
			return sql[:i] + "..."
		}

		keep--
	}

	return sql
}
