package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/api"
	"github.com/warp/timesheet-engine/calendar"
)

func newCalendarCmd(now func() time.Time) *cobra.Command {
	var date, direction, format string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the ISO week of a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			t := now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
				}
				t = parsed
			}
			if direction != "" {
				dir, err := calendar.ParseDirection(direction)
				if err != nil {
					return err
				}
				t = calendar.NavigateWeek(t, dir)
			}

			cal := api.CalendarOf(t)
			out := cmd.OutOrStdout()
			if format == formatJSON {
				return printJSON(out, cal)
			}
			fmt.Fprintf(out, "%s  %s\n", cal.WeekKey, cal.Label)
			fmt.Fprintf(out, "prev %s  next %s\n", cal.PrevWeek, cal.NextWeek)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&direction, "direction", "", "Move one week: prev, next")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json")
	return cmd
}
