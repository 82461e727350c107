package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-migrate-runner/internal/analyzer"
	"github.com/aqasim81/sql-migrate-runner/internal/analyzer/rules"
	"github.com/aqasim81/sql-migrate-runner/internal/database"
	"github.com/aqasim81/sql-migrate-runner/internal/migration"
)

var lintCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "lint",
	Short: "Check migrations for statements that do not re-run cleanly",
	Long: `Parse every statement of every migration file with the PostgreSQL parser
and report DDL and inserts that fail or duplicate data when the file runs a
second time, with the idempotent form to use instead. No database
connection is needed.`,
	RunE: runLint,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	lintCmd.Flags().Bool("strict", false, "exit with non-zero code if findings reach --min-severity")
	lintCmd.Flags().String("min-severity", "high", "lowest severity that fails under --strict (low, medium, high)")
	rootCmd.AddCommand(lintCmd)
}

// errLintFindings is returned when --strict is set and findings reach the threshold.
var errLintFindings = errors.New("lint findings at or above the severity threshold")

// errInvalidSeverity is returned for an unknown --min-severity value.
var errInvalidSeverity = errors.New("invalid severity")

func runLint(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	out := cmd.OutOrStdout()

	strict, _ := cmd.Flags().GetBool("strict")
	minLabel, _ := cmd.Flags().GetString("min-severity")

	minSeverity, ok := analyzer.ParseSeverity(minLabel)
	if !ok || minSeverity == analyzer.Safe {
		return fmt.Errorf("%w: %q", errInvalidSeverity, minLabel)
	}

	paths, err := collectPaths(cfg, out)
	if err != nil || len(paths) == 0 {
		return err
	}

	files := make([]migration.File, 0, len(paths))

	for _, p := range paths {
		f, err := migration.Load(p)
		if err != nil {
			return fmt.Errorf("loading migrations: %w", err)
		}

		files = append(files, f)
	}

	if driver, err := database.ParseDriver(cfg.Driver); err == nil && driver != database.Postgres {
		fmt.Fprintf(out, "Note: statements are parsed with the PostgreSQL grammar; %s-only syntax is reported as %s.\n",
			driver, analyzer.UnparsableRuleID)
	}

	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))
	results := a.AnalyzeAll(files)

	failing := printAnalysisResults(out, results, minSeverity)

	if strict && failing > 0 {
		return fmt.Errorf("%w (%s): %d file(s)", errLintFindings, minSeverity, failing)
	}

	return nil
}

// printAnalysisResults prints every finding and returns the number of
// files with a finding at or above minSeverity.
func printAnalysisResults(out io.Writer, results []analyzer.AnalysisResult, minSeverity analyzer.Severity) int {
	totalFindings := 0
	failing := 0

	for _, r := range results {
		if len(r.Findings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n=== %s ===\n", r.File.Filename)

		for _, f := range r.Findings {
			fmt.Fprintf(out, "  [%s] %s\n", f.Severity, f.Message)

			if f.Table != "" {
				fmt.Fprintf(out, "    Table: %s\n", f.Table)
			}

			fmt.Fprintf(out, "    Rule:  %s\n", f.Rule)

			if f.Statement != "" {
				fmt.Fprintf(out, "    SQL:   %s\n", f.Statement)
			}

			fmt.Fprintf(out, "    Fix:   %s\n\n", f.Suggestion)
		}

		totalFindings += len(r.Findings)

		if r.AtLeast(minSeverity) {
			failing++
		}
	}

	if totalFindings == 0 {
		fmt.Fprintln(out, "All statements are re-runnable.")
	} else {
		fmt.Fprintf(out, "Found %d finding(s) across %d file(s).\n", totalFindings, countFilesWithFindings(results))
	}

	return failing
}

func countFilesWithFindings(results []analyzer.AnalysisResult) int {
	count := 0

	for _, r := range results {
		if len(r.Findings) > 0 {
			count++
		}
	}

	return count
}
