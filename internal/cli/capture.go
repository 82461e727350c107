package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-migrate-runner/internal/capture"
)

var captureCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "capture <file>",
	Short: "Print the quoted text between two markers of a file",
	Long: `Print, as a Go-quoted string, the text of <file> from the first occurrence
of --start up to the next occurrence of --end. With --escaped the markers
may use escape sequences such as \n, \t and \".`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	captureCmd.Flags().String("start", "", "start marker (included in the output)")
	captureCmd.Flags().String("end", "", "end marker (excluded from the output)")
	captureCmd.Flags().Bool("escaped", false, "interpret Go escape sequences in the markers")
	_ = captureCmd.MarkFlagRequired("start")
	_ = captureCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	if escaped, _ := cmd.Flags().GetBool("escaped"); escaped {
		var err error

		if start, err = unescape(start); err != nil {
			return fmt.Errorf("--start: %w", err)
		}

		if end, err = unescape(end); err != nil {
			return fmt.Errorf("--end: %w", err)
		}
	}

	block, err := capture.File(args[0], start, end)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), strconv.Quote(block))

	return nil
}

// unescape interprets s as the body of a double-quoted Go string literal.
func unescape(s string) (string, error) {
	u, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid escape sequence in %q: %w", s, err)
	}

	return u, nil
}
