/*
Package calendar provides ISO-8601 week arithmetic for the timesheet engine.

PURPOSE:
  Timesheets are grouped by ISO week. Every entry carries a week key such as
  "2026-W01", and summaries are computed per week, quarter, and year. This
  package is the single place where dates are turned into weeks and back.

KEY CONCEPTS:
  - Week: an (ISO year, week number) pair
  - Week key: "YYYY-Www", zero-padded week number
  - Week start: Monday 00:00 of the week; week end: Sunday 23:59:59.999999999
  - ISO week 1 is the week containing January 4th (equivalently the year's
    first Thursday), so the ISO year can differ from the calendar year for
    dates near January 1st

LOCATION HANDLING:
  A date's week is decided by its calendar date in its own location. Week
  boundaries are always returned in UTC, so WeekStart(d) equals
  FirstDayOfISOWeek(ISOWeekYear(d), ISOWeekNumber(d)) for any d.

SEE ALSO:
  - period.go: Period type and quarter ranges
  - timesheet/rollup.go: Uses weeks to build quarter/year summaries
*/
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWeekKey is returned when a week key is not "YYYY-Www" or names a
// week the ISO year does not have.
var ErrInvalidWeekKey = errors.New("invalid week key")

// =============================================================================
// WEEK - ISO year + week number
// =============================================================================

// Week identifies one ISO-8601 week.
type Week struct {
	Year   int
	Number int
}

// WeekOf returns the ISO week containing t.
func WeekOf(t time.Time) Week {
	year, week := t.ISOWeek()
	return Week{Year: year, Number: week}
}

// Key formats the week as "YYYY-Www".
func (w Week) Key() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}

func (w Week) String() string { return w.Key() }

// Start returns the Monday of the week at midnight UTC.
func (w Week) Start() time.Time { return FirstDayOfISOWeek(w.Year, w.Number) }

// Next returns the following ISO week, crossing year boundaries.
func (w Week) Next() Week { return WeekOf(w.Start().AddDate(0, 0, 7)) }

// Prev returns the preceding ISO week, crossing year boundaries.
func (w Week) Prev() Week { return WeekOf(w.Start().AddDate(0, 0, -7)) }

// Before reports whether w is earlier than other.
func (w Week) Before(other Week) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Number < other.Number
}

// ParseWeekKey parses "YYYY-Www". The week must exist in that ISO year.
func ParseWeekKey(key string) (Week, error) {
	yearStr, weekStr, ok := strings.Cut(key, "-W")
	if !ok || len(yearStr) != 4 || len(weekStr) != 2 {
		return Week{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Week{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil || week < 1 || week > WeeksInYear(year) {
		return Week{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	return Week{Year: year, Number: week}, nil
}

// =============================================================================
// DATE -> WEEK
// =============================================================================

// WeekStart returns Monday 00:00 UTC of the week containing t's calendar date.
func WeekStart(t time.Time) time.Time {
	day := dateUTC(t)
	// Go's weekday: Sunday=0 ... Saturday=6; ISO counts Sunday as 7.
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// WeekEnd returns Sunday 23:59:59.999999999 UTC of the week containing t.
func WeekEnd(t time.Time) time.Time {
	sunday := WeekStart(t).AddDate(0, 0, 6)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 999999999, time.UTC)
}

// dateUTC is t's calendar date at midnight UTC.
func dateUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ISOWeekNumber returns the ISO week number (1-53) of t.
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// ISOWeekYear returns the ISO year t belongs to. It differs from t.Year() for
// late-December dates in week 1 and early-January dates in week 52/53.
func ISOWeekYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

// WeekKey returns the "YYYY-Www" key of the week containing t.
func WeekKey(t time.Time) string { return WeekOf(t).Key() }

// =============================================================================
// WEEK -> DATE
// =============================================================================

// FirstDayOfISOWeek returns the Monday (UTC midnight) of the given ISO week.
// Week 1 is the week containing January 4th.
func FirstDayOfISOWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return WeekStart(jan4).AddDate(0, 0, (week-1)*7)
}

// WeeksInYear returns 52 or 53. December 28th always falls in the last ISO
// week of its year.
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// DayDate returns the date of the day at dayIndex (0=Monday ... 6=Sunday)
// within the week identified by weekKey.
func DayDate(weekKey string, dayIndex int) (time.Time, error) {
	w, err := ParseWeekKey(weekKey)
	if err != nil {
		return time.Time{}, err
	}
	if dayIndex < 0 || dayIndex > 6 {
		return time.Time{}, fmt.Errorf("day index out of range: %d", dayIndex)
	}
	return w.Start().AddDate(0, 0, dayIndex), nil
}

// =============================================================================
// NAVIGATION
// =============================================================================

// Direction selects the neighbouring week for NavigateWeek.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// ParseDirection accepts "prev" or "next".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Prev, Next:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q (use prev or next)", s)
}

// NavigateWeek moves t one week forward or back, keeping the time of day.
func NavigateWeek(t time.Time, dir Direction) time.Time {
	if dir == Next {
		return t.AddDate(0, 0, 7)
	}
	return t.AddDate(0, 0, -7)
}

// FormatDateRange renders a week range for display, e.g. "Jan 5 - 11, 2026"
// or "Dec 29 - Jan 4, 2026" when the range crosses a month.
func FormatDateRange(start, end time.Time) string {
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d - %d, %d", start.Format("Jan"), start.Day(), end.Day(), end.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d", start.Format("Jan"), start.Day(), end.Format("Jan"), end.Day(), end.Year())
}
