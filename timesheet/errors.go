/*
errors.go - Error types for the timesheet engine and its collaborators

PURPOSE:
  The calculation functions never return errors: bad entry data becomes a
  diagnostic. Errors exist for the operations around them, such as locking a
  week, reconciling day summaries, and repository lookups.

ERROR CATEGORIES:
  1. Lock gating - A week cannot be locked, or is locked and cannot change
  2. Data consistency - Replicated day summaries disagree
  3. Repository - Missing records

USAGE:
  if _, err := timesheet.LockWeek(entries); err != nil {
      var lockErr *timesheet.WeekLockError
      if errors.As(err, &lockErr) { ... lockErr.Issues ... }
  }
*/
package timesheet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrDaySummaryNotFound is returned when a day has no summary record.
	ErrDaySummaryNotFound = errors.New("day summary not found")

	// ErrWeekLocked is returned when changing an entry of a submitted week.
	ErrWeekLocked = errors.New("week is locked")

	// ErrWeekNotLockable is returned when a week has validation errors or
	// time conflicts.
	ErrWeekNotLockable = errors.New("week has validation errors or time conflicts")

	// ErrEmptyWeek is returned when locking a week without entries.
	ErrEmptyWeek = errors.New("no entries to lock")

	// ErrInconsistentDaySummary is returned when entries of one day carry
	// different day start/finish/break values.
	ErrInconsistentDaySummary = errors.New("inconsistent day summary")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WeekLockError lists the issues that block locking a week.
type WeekLockError struct {
	Issues []Issue
}

func (e *WeekLockError) Error() string {
	return fmt.Sprintf("cannot lock week: %d issue(s)", len(e.Issues))
}

func (e *WeekLockError) Unwrap() error {
	return ErrWeekNotLockable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInconsistentDaySummary) ||
		errors.Is(err, ErrEmptyWeek)
}

// IsConflict returns true if the error reflects the state of the week.
func IsConflict(err error) bool {
	return errors.Is(err, ErrWeekLocked) ||
		errors.Is(err, ErrWeekNotLockable)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrDaySummaryNotFound)
}
