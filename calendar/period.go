package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive date range [Start, End].
type Period struct {
	Start time.Time
	End   time.Time
}

// WeekPeriod returns Monday..Sunday of the week containing t.
func WeekPeriod(t time.Time) Period {
	return Period{Start: WeekStart(t), End: WeekEnd(t)}
}

// Contains returns true if t's calendar date is within the period.
func (p Period) Contains(t time.Time) bool {
	day := dateUTC(t)
	return !day.Before(dateUTC(p.Start)) && !day.After(p.End)
}

// Days returns every calendar day in the period, at midnight.
func (p Period) Days() []time.Time {
	var days []time.Time
	current := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, p.Start.Location())
	for !current.After(p.End) {
		days = append(days, current)
		current = current.AddDate(0, 0, 1)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}

// =============================================================================
// WEEK RANGES - Year and quarter
// =============================================================================

// YearWeeks returns every ISO week of the year in order.
func YearWeeks(year int) []Week {
	n := WeeksInYear(year)
	weeks := make([]Week, n)
	for i := range weeks {
		weeks[i] = Week{Year: year, Number: i + 1}
	}
	return weeks
}

// QuarterWeeks returns the ISO weeks reported under a quarter. Quarters are
// 13-week blocks; Q4 absorbs week 53 in long years.
func QuarterWeeks(year, quarter int) ([]Week, error) {
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("quarter out of range: %d", quarter)
	}
	first := (quarter-1)*13 + 1
	last := quarter * 13
	if quarter == 4 {
		last = WeeksInYear(year)
	}
	weeks := make([]Week, 0, last-first+1)
	for n := first; n <= last; n++ {
		weeks = append(weeks, Week{Year: year, Number: n})
	}
	return weeks, nil
}
