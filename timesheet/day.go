package timesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY SUMMARY - Shared work window of one day
// =============================================================================

// DayKey identifies one user's day within one ISO week.
type DayKey struct {
	UserID  string
	WeekKey string
	Day     Day
}

func (k DayKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.UserID, k.WeekKey, k.Day)
}

// DaySummary is the work window shared by every simplified entry of a day.
// There is exactly one per DayKey; entries refer to it by key.
type DaySummary struct {
	Key    DayKey
	Start  string // "HH:MM"
	Finish string // "HH:MM"
	Break  decimal.Decimal
}

// Equal compares the window values, ignoring the key.
func (s DaySummary) Equal(other DaySummary) bool {
	return s.Start == other.Start && s.Finish == other.Finish && s.Break.Equal(other.Break)
}

// AvailableHours is the span of the window minus the break, never negative.
// A window that crosses midnight rolls over; a missing or malformed time
// gives 0.
func (s DaySummary) AvailableHours() decimal.Decimal {
	start, okStart := ParseClock(s.Start)
	finish, okFinish := ParseClock(s.Finish)
	if !okStart || !okFinish {
		return decimal.Zero
	}
	return clampHours(MinutesToHours(SpanMinutes(start, finish)).Sub(breakHours(s.Break)))
}

// ConsistentDaySummary reduces replicated day summaries, as sent by clients
// that copy the day window onto every entry, to a single record. All
// replicas must carry the same window.
func ConsistentDaySummary(replicas []DaySummary) (DaySummary, error) {
	if len(replicas) == 0 {
		return DaySummary{}, ErrDaySummaryNotFound
	}
	first := replicas[0]
	for _, r := range replicas[1:] {
		if r.Key != first.Key {
			return DaySummary{}, fmt.Errorf("%w: replicas for %s and %s", ErrInconsistentDaySummary, first.Key, r.Key)
		}
		if !r.Equal(first) {
			return DaySummary{}, fmt.Errorf("%w: %s has %s-%s/%s and %s-%s/%s", ErrInconsistentDaySummary, first.Key,
				first.Start, first.Finish, first.Break, r.Start, r.Finish, r.Break)
		}
	}
	return first, nil
}

// =============================================================================
// CAPACITY - Hours entered against the day window
// =============================================================================

// Capacity compares the simplified hours entered on a day with the window
// the day summary allows.
type Capacity struct {
	Available decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
	Overflow  bool
}

// DayCapacity sums HoursOnly over the day's entries and compares it with the
// summary's available hours. Overflow is only reported when the window is
// configured (available > 0).
func DayCapacity(summary DaySummary, entries []Entry) Capacity {
	available := summary.AvailableHours()
	used := decimal.Zero
	for _, e := range entries {
		if e.HoursOnly.IsPositive() {
			used = used.Add(e.HoursOnly)
		}
	}
	return Capacity{
		Available: available,
		Used:      used,
		Remaining: decimal.Max(available.Sub(used), decimal.Zero),
		Overflow:  available.IsPositive() && used.GreaterThan(available),
	}
}
