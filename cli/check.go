package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/timesheet"
)

func newCheckCmd() *cobra.Command {
	var file, format string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a week could be locked",
		Long: `check validates every entry and looks for overlapping entries on the
same day. It exits non-zero when the week has issues or no entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			entries, summaries, err := schemas.DecodeWeek(data)
			if err != nil {
				return err
			}

			laid := timesheet.LayoutWeek(entries, summaries)
			check := timesheet.CheckWeek(laid)
			out := cmd.OutOrStdout()
			if format == formatJSON {
				if err := printJSON(out, api.WeekResult(laid).Check); err != nil {
					return err
				}
			} else {
				printCheck(out, check)
			}

			if _, err := timesheet.LockWeek(laid); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Week document (JSON), - for stdin")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json")
	return cmd
}

func printCheck(w io.Writer, check timesheet.WeekCheck) {
	if check.Lockable() {
		fmt.Fprintf(w, "OK: %d entries, no issues\n", check.Entries)
		return
	}
	if check.Entries == 0 {
		fmt.Fprintln(w, "No entries")
		return
	}
	for _, is := range check.Issues {
		line := fmt.Sprintf("%-12s%-11s%-12s%s", is.EntryID, is.Day, is.Kind, is.Message)
		if len(is.ConflictsWith) > 0 {
			line += " (" + strings.Join(is.ConflictsWith, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}
