package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/timesheet"
)

func newWeekCmd() *cobra.Command {
	var file, format string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Calculate a week of entries",
		Args:  cobra.NoArgs,
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

			result := api.WeekResult(timesheet.LayoutWeek(entries, summaries))
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printWeek(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Week document (JSON), - for stdin")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json")
	return cmd
}

func printWeek(w io.Writer, result api.WeekResultDTO) {
	printEntries(w, result.Entries)

	s := result.Summary
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-20s%8.2f\n", "Net hours", s.TotalNetHours)
	fmt.Fprintf(w, "%-20s%8.2f\n", "Base hours", s.TotalBaseHours)
	fmt.Fprintf(w, "%-20s%8.2f\n", "Overtime 1.5x", s.TotalOvertime15x)
	fmt.Fprintf(w, "%-20s%8.2f\n", "Overtime 2.0x", s.TotalOvertime20x)
	fmt.Fprintf(w, "%-20s%8.2f\n", "Chargeable hours", s.TotalChargeableHours)
	fmt.Fprintf(w, "%-20s%8.2f\n", "Per diem", s.TotalPerDiem)
	fmt.Fprintf(w, "%-20s%7.2f%%\n", "Utilization", s.UtilizationPercent)
}

func printEntries(w io.Writer, results []api.EntryResultDTO) {
	fmt.Fprintf(w, "%-12s%-11s%-15s%-13s%7s%7s%7s%7s%9s\n",
		"ID", "DAY", "ACTIVITY", "TIME", "NET", "BASE", "1.5x", "2.0x", "PER DIEM")
	for _, r := range results {
		c := r.Calculation
		span := "-"
		if r.Entry.StartTime != "" || r.Entry.FinishTime != "" {
			span = r.Entry.StartTime + "-" + r.Entry.FinishTime
		}
		fmt.Fprintf(w, "%-12s%-11s%-15s%-13s%7.2f%7.2f%7.2f%7.2f%9.2f\n",
			r.Entry.ID, r.Entry.Day, r.Entry.Activity, span,
			c.NetHours, c.BaseHours, c.Overtime15x, c.Overtime20x, c.PerDiem)
		if c.HasValidationError {
			fmt.Fprintf(w, "  ! %s\n", c.ValidationMessage)
		}
	}
}
