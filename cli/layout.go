package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/timesheet"
)

func newLayoutCmd() *cobra.Command {
	var file, format, dayStart string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Derive times for simplified entries",
		Long: `layout places simplified (hours-only) entries back to back from the day
start. --day-start applies to every day in the file; without it each day
uses the day_start its entries carry, if any.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if dayStart != "" {
				if _, ok := timesheet.ParseClock(dayStart); !ok {
					return fmt.Errorf("invalid --day-start %q, expected HH:MM", dayStart)
				}
			}
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			entries, summaries, err := schemas.DecodeWeek(data)
			if err != nil {
				return err
			}

			if dayStart != "" {
				for _, e := range entries {
					ds := summaries[e.DayKey()]
					ds.Start = dayStart
					summaries[e.DayKey()] = ds
				}
			}

			results := api.EntryResults(timesheet.LayoutWeek(entries, summaries))
			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), results)
			}
			printEntries(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Week document (JSON), - for stdin")
	cmd.Flags().StringVar(&dayStart, "day-start", "", "Day start for every day (HH:MM)")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json")
	return cmd
}
