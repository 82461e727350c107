package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-migrate-runner/internal/migration"
	"github.com/aqasim81/sql-migrate-runner/internal/tracker"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show migration status",
	Long: `List every migration file with its state: applied, changed (recorded
under a different checksum, will be re-applied), or pending. Rows recorded
in schema_migrations without a file on disk are listed as missing.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(statusCmd)
}

// File states shown by the status command.
const (
	stateApplied    = "applied"
	stateChanged    = "changed"
	statePending    = "pending"
	stateMissing    = "missing"
	stateUnreadable = "unreadable"
)

type statusRow struct {
	Filename  string
	State     string
	AppliedAt time.Time
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)

	paths, err := collectPaths(cfg, out)
	if err != nil {
		return err
	}

	h, err := connectDB(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer h.Close()

	t, err := tracker.New(h)
	if err != nil {
		return err
	}

	if err := t.EnsureTable(ctx); err != nil {
		return err
	}

	applied, err := t.GetApplied(ctx)
	if err != nil {
		return err
	}

	printStatus(out, buildStatus(paths, migration.Load, applied))

	return nil
}

// buildStatus compares files on disk with the recorded rows. Files keep
// their collection order; missing rows follow in recorded order.
func buildStatus(
	paths []string,
	load func(string) (migration.File, error),
	applied []tracker.AppliedMigration,
) []statusRow {
	recorded := make(map[string]tracker.AppliedMigration, len(applied))
	for _, a := range applied {
		recorded[a.Filename] = a
	}

	onDisk := make(map[string]bool, len(paths))
	rows := make([]statusRow, 0, len(paths)+len(applied))

	for _, p := range paths {
		row := statusRow{Filename: filepath.Base(p)}
		onDisk[row.Filename] = true

		f, err := load(p)

		rec, ok := recorded[row.Filename]
		if ok {
			row.AppliedAt = rec.AppliedAt
		}

		switch {
		case err != nil:
			row.State = stateUnreadable
		case !ok:
			row.State = statePending
		case rec.Checksum != f.Checksum:
			row.State = stateChanged
		default:
			row.State = stateApplied
		}

		rows = append(rows, row)
	}

	for _, a := range applied {
		if !onDisk[a.Filename] {
			rows = append(rows, statusRow{Filename: a.Filename, State: stateMissing, AppliedAt: a.AppliedAt})
		}
	}

	return rows
}

func printStatus(out io.Writer, rows []statusRow) {
	counts := map[string]int{}

	for _, r := range rows {
		counts[r.State]++

		appliedAt := "-"
		if !r.AppliedAt.IsZero() {
			appliedAt = r.AppliedAt.UTC().Format(time.DateTime)
		}

		fmt.Fprintf(out, "  %-10s  %-19s  %s\n", r.State, appliedAt, r.Filename)
	}

	fmt.Fprintf(out, "\n%d applied, %d changed, %d pending, %d missing.\n",
		counts[stateApplied], counts[stateChanged], counts[statePending], counts[stateMissing])

	if n := counts[stateUnreadable]; n > 0 {
		fmt.Fprintf(out, "%d file(s) could not be read.\n", n)
	}
}
