/*
root.go - tsctl command tree

PURPOSE:
  Offline access to the timesheet engine. Every command reads a week
  document (the same JSON accepted by POST /api/calculate/week) and prints
  the result as a text table or JSON.

COMMANDS:
  week      Per-entry calculations and weekly totals
  check     Validation and conflict check; exits 1 when not lockable
  layout    Derive simplified entry times from a day start
  calendar  ISO week navigation

SEE ALSO:
  - api/schema.go: Week document validation
  - cmd/tsctl/main.go: Binary
*/
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// NewRootCmd builds the tsctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:   "tsctl",
		Short: "Timesheet calculator",
		Long: `tsctl computes hours, overtime tiers, per diem and utilization for a week
of timesheet entries, and checks whether the week could be locked.
Input files hold {"entries": [...]} as accepted by the API; use - for stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newWeekCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newCalendarCmd(now))
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInput reads the week document named by path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want text or json)", format)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var schemas = api.MustLoadSchemas()
