/*
layout.go - Simplified-mode start/finish derivation

PURPOSE:
  In simplified mode a worker enters only durations ("2h Travel, then 5h
  Site"). LayoutDay places those entries back to back from the day's start
  time so they get start/finish pairs usable for conflict checks and reports.

LAYOUT RULE:
  entry[i].start  = dayStart + sum(hours[0..i-1])
  entry[i].finish = entry[i].start + hours[i]
  Order is the order of the slice passed in (insertion order in practice).
  Times wrap at midnight.

BATCH RECOMPUTE:
  Each entry's position depends on every entry before it, so changing one
  duration or the day start moves its successors. LayoutDay always takes
  the whole day and returns a new slice; there is no single-entry update.

FALLBACK:
  Without a usable day start, a simplified entry that has its own start time
  gets finish = start + hours. Entries with neither keep their times.
*/
package timesheet

import "github.com/shopspring/decimal"

// SimplifiedEntryTimes returns the derived start and finish of the entry at
// index when durations are laid out from dayStart. ok is false if dayStart is
// malformed or index is out of range.
func SimplifiedEntryTimes(dayStart string, hours []decimal.Decimal, index int) (start, finish string, ok bool) {
	startMinutes, ok := ParseClock(dayStart)
	if !ok || index < 0 || index >= len(hours) {
		return "", "", false
	}
	for _, h := range hours[:index] {
		startMinutes += durationMinutes(h)
	}
	return FormatClock(startMinutes), FormatClock(startMinutes + durationMinutes(hours[index])), true
}

// FinishFromDuration derives a finish time from a start time and a duration.
func FinishFromDuration(start string, hours decimal.Decimal) (string, bool) {
	startMinutes, ok := ParseClock(start)
	if !ok {
		return "", false
	}
	return FormatClock(startMinutes + durationMinutes(hours)), true
}

// LayoutDay returns a copy of the day's entries with start/finish derived for
// every simplified entry. Detailed entries are copied unchanged and do not
// take up space in the sequence.
func LayoutDay(dayStart string, entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	cursor, haveStart := ParseClock(dayStart)
	for i, e := range out {
		if !e.IsSimplified() {
			continue
		}
		if haveStart {
			length := durationMinutes(e.HoursOnly)
			out[i].StartTime = FormatClock(cursor)
			out[i].FinishTime = FormatClock(cursor + length)
			cursor += length
			continue
		}
		if finish, ok := FinishFromDuration(e.StartTime, e.HoursOnly); ok {
			out[i].FinishTime = finish
		}
	}
	return out
}

// LayoutWeek applies LayoutDay to each day that has a summary, keeping the
// input order. Days without a summary use the per-entry fallback.
func LayoutWeek(entries []Entry, summaries map[DayKey]DaySummary) []Entry {
	groups := make(map[DayKey][]int)
	var order []DayKey
	for i, e := range entries {
		k := e.DayKey()
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	out := make([]Entry, len(entries))
	for _, k := range order {
		idx := groups[k]
		day := make([]Entry, len(idx))
		for j, i := range idx {
			day[j] = entries[i]
		}
		laid := LayoutDay(summaries[k].Start, day)
		for j, i := range idx {
			out[i] = laid[j]
		}
	}
	return out
}

// durationMinutes converts a duration in hours to minutes; negative durations
// take no time.
func durationMinutes(h decimal.Decimal) int {
	if !h.IsPositive() {
		return 0
	}
	return HoursToMinutes(h)
}
