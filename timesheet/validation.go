/*
validation.go - Entry diagnostics, time conflicts, and week lock gating

PURPOSE:
  Finds entries that cannot be submitted as they are. Nothing here raises an
  error for bad entry data: problems are returned as messages and issues so
  the caller can highlight them, and a week with any issue cannot be locked.

CHECKS:
  ValidateEntry:   field-level problems of one entry
  HasTimeConflict: overlap of one entry with others on the same day
  CheckWeek:       both checks over a whole week, grouped by day

OVERLAP RULE:
  Entries are half-open minute ranges [start, finish). A finish before the
  start rolls over to the next day. Two ranges overlap when
  startA < finishB && startB < finishA, so 09:00-12:00 and 12:00-13:00 touch
  but do not conflict. Simplified entries must be laid out (LayoutDay) before
  they can be checked; entries without resolvable times never conflict.
*/
package timesheet

import (
	"fmt"
	"strings"
)

// Diagnostic messages returned by ValidateEntry.
const (
	MsgMissingTimes      = "Start and finish times are required"
	MsgInvalidTimeFormat = "Invalid time format"
	MsgNegativeBreak     = "Break duration cannot be negative"
	MsgStartAfterFinish  = "Start time is after finish time"
	MsgZeroSpan          = "Start and finish times are the same"
	MsgBreakExceedsWork  = "Break duration exceeds work hours"
	MsgNegativeHours     = "Hours cannot be negative"
)

// =============================================================================
// ENTRY VALIDATION
// =============================================================================

// ValidateEntry returns a human-readable diagnostic, or "" if the entry is
// valid. The first failing check wins.
func ValidateEntry(e Entry) string {
	if e.BreakDuration.IsNegative() {
		return MsgNegativeBreak
	}

	if e.IsSimplified() {
		if e.HoursOnly.IsNegative() {
			return MsgNegativeHours
		}
		return ""
	}

	if strings.TrimSpace(e.StartTime) == "" || strings.TrimSpace(e.FinishTime) == "" {
		return MsgMissingTimes
	}
	start, okStart := ParseClock(e.StartTime)
	finish, okFinish := ParseClock(e.FinishTime)
	if !okStart || !okFinish {
		return MsgInvalidTimeFormat
	}

	// Crossing midnight needs a reason: a nightshift or an overnight stay.
	if start > finish && !e.IsNightshift && !e.IsOvernight() {
		return MsgStartAfterFinish
	}
	if start == finish {
		return MsgZeroSpan
	}

	span := MinutesToHours(SpanMinutes(start, finish))
	if e.BreakDuration.GreaterThanOrEqual(span) {
		return MsgBreakExceedsWork
	}
	return ""
}

// =============================================================================
// TIME CONFLICTS
// =============================================================================

// Interval returns the entry's [start, end) range in minutes since midnight of
// its day. end exceeds 1440 for spans that cross midnight. ok is false when
// either time is missing or malformed.
func Interval(e Entry) (start, end int, ok bool) {
	s, okStart := ParseClock(e.StartTime)
	f, okFinish := ParseClock(e.FinishTime)
	if !okStart || !okFinish {
		return 0, 0, false
	}
	return s, s + SpanMinutes(s, f), true
}

// HasTimeConflict reports whether e overlaps any of others. The caller passes
// the other entries of the same day, excluding e itself.
func HasTimeConflict(e Entry, others []Entry) bool {
	return len(conflicting(e, others)) > 0
}

// ConflictsWith returns the IDs of the entries in others that overlap e.
func ConflictsWith(e Entry, others []Entry) []string {
	var ids []string
	for _, o := range conflicting(e, others) {
		ids = append(ids, o.ID)
	}
	return ids
}

func conflicting(e Entry, others []Entry) []Entry {
	startA, endA, ok := Interval(e)
	if !ok {
		return nil
	}
	var hits []Entry
	for _, o := range others {
		startB, endB, ok := Interval(o)
		if !ok {
			continue
		}
		if startA < endB && startB < endA {
			hits = append(hits, o)
		}
	}
	return hits
}

// =============================================================================
// WEEK CHECK
// =============================================================================

type IssueKind string

const (
	IssueValidation IssueKind = "validation"
	IssueConflict   IssueKind = "conflict"
)

// Issue is one reason a week cannot be locked.
type Issue struct {
	EntryID       string
	Day           Day
	Kind          IssueKind
	Message       string
	ConflictsWith []string // only for IssueConflict
}

// WeekCheck is the result of CheckWeek.
type WeekCheck struct {
	Entries int
	Issues  []Issue
}

// Lockable reports whether the week has entries and no issues.
func (c WeekCheck) Lockable() bool { return c.Entries > 0 && len(c.Issues) == 0 }

// IssuesFor returns the issues raised against one entry.
func (c WeekCheck) IssuesFor(entryID string) []Issue {
	var out []Issue
	for _, is := range c.Issues {
		if is.EntryID == entryID {
			out = append(out, is)
		}
	}
	return out
}

// CheckWeek validates every entry and checks it for conflicts against the
// other entries of the same day. Issues are reported in input order.
func CheckWeek(entries []Entry) WeekCheck {
	byDay := make(map[DayKey][]int)
	for i, e := range entries {
		byDay[e.DayKey()] = append(byDay[e.DayKey()], i)
	}

	check := WeekCheck{Entries: len(entries)}
	for i, e := range entries {
		if msg := ValidateEntry(e); msg != "" {
			check.Issues = append(check.Issues, Issue{EntryID: e.ID, Day: e.Day, Kind: IssueValidation, Message: msg})
		}

		var others []Entry
		for _, j := range byDay[e.DayKey()] {
			if j != i {
				others = append(others, entries[j])
			}
		}
		if ids := ConflictsWith(e, others); len(ids) > 0 {
			check.Issues = append(check.Issues, Issue{
				EntryID:       e.ID,
				Day:           e.Day,
				Kind:          IssueConflict,
				Message:       fmt.Sprintf("Overlaps with %d other entr%s", len(ids), plural(len(ids), "y", "ies")),
				ConflictsWith: ids,
			})
		}
	}
	return check
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// =============================================================================
// LOCKING
// =============================================================================

// IsLocked reports whether the week has been submitted. One submitted entry
// locks the week.
func IsLocked(entries []Entry) bool {
	for _, e := range entries {
		if e.Status == StatusSubmitted {
			return true
		}
	}
	return false
}

// LockWeek returns copies of entries marked submitted. It refuses empty weeks
// and weeks with any validation error or conflict.
func LockWeek(entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyWeek
	}
	if check := CheckWeek(entries); !check.Lockable() {
		return nil, &WeekLockError{Issues: check.Issues}
	}
	return withStatus(entries, StatusSubmitted), nil
}

// UnlockWeek returns copies of entries marked draft.
func UnlockWeek(entries []Entry) []Entry {
	return withStatus(entries, StatusDraft)
}

func withStatus(entries []Entry, status Status) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Status = status
		out[i] = e
	}
	return out
}
