package timesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// VALIDATE ENTRY
// =============================================================================

func TestValidateEntry(t *testing.T) {
	nightshift := detailed("e", timesheet.Monday, "22:00", "06:00", 0)
	nightshift.IsNightshift = true

	tests := []struct {
		name  string
		entry timesheet.Entry
		want  string
	}{
		{"valid", detailed("e", timesheet.Monday, "08:00", "16:30", 0.5), ""},
		{"missing start", detailed("e", timesheet.Monday, "", "16:30", 0), timesheet.MsgMissingTimes},
		{"missing finish", detailed("e", timesheet.Monday, "08:00", " ", 0), timesheet.MsgMissingTimes},
		{"bad format", detailed("e", timesheet.Monday, "8.00", "16:30", 0), timesheet.MsgInvalidTimeFormat},
		{"start after finish", detailed("e", timesheet.Monday, "17:00", "08:00", 0), timesheet.MsgStartAfterFinish},
		{"nightshift rollover", nightshift, ""},
		{"same times", detailed("e", timesheet.Monday, "08:00", "08:00", 0), timesheet.MsgZeroSpan},
		{"break equals span", detailed("e", timesheet.Monday, "08:00", "09:00", 1), timesheet.MsgBreakExceedsWork},
		{"negative break", detailed("e", timesheet.Monday, "08:00", "09:00", -0.5), timesheet.MsgNegativeBreak},
		{"simplified without times", simplified("e", timesheet.Monday, 4), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timesheet.ValidateEntry(tc.entry))
		})
	}
}

// =============================================================================
// TIME CONFLICTS
// =============================================================================

func TestHasTimeConflict_Overlap(t *testing.T) {
	// GIVEN: 09:00-12:00 and 11:00-13:00 on the same day
	// WHEN: Checking both ways
	// THEN: Each conflicts with the other

	a := detailed("a", timesheet.Monday, "09:00", "12:00", 0)
	b := detailed("b", timesheet.Monday, "11:00", "13:00", 0)

	assert.True(t, timesheet.HasTimeConflict(a, []timesheet.Entry{b}))
	assert.True(t, timesheet.HasTimeConflict(b, []timesheet.Entry{a}))
}

func TestHasTimeConflict_TouchingIsNotConflict(t *testing.T) {
	a := detailed("a", timesheet.Monday, "09:00", "12:00", 0)
	b := detailed("b", timesheet.Monday, "12:00", "13:00", 0)

	assert.False(t, timesheet.HasTimeConflict(a, []timesheet.Entry{b}))
	assert.False(t, timesheet.HasTimeConflict(b, []timesheet.Entry{a}))
}

func TestHasTimeConflict_Symmetric(t *testing.T) {
	windows := [][2]string{
		{"08:00", "10:00"}, {"09:30", "11:00"}, {"10:00", "10:30"},
		{"22:00", "02:00"}, {"01:00", "03:00"}, {"23:00", "23:30"},
	}
	for i, wa := range windows {
		for j, wb := range windows {
			if i == j {
				continue
			}
			a := detailed("a", timesheet.Monday, wa[0], wa[1], 0)
			b := detailed("b", timesheet.Monday, wb[0], wb[1], 0)
			assert.Equal(t,
				timesheet.HasTimeConflict(a, []timesheet.Entry{b}),
				timesheet.HasTimeConflict(b, []timesheet.Entry{a}),
				"%v vs %v", wa, wb)
		}
	}
}

func TestHasTimeConflict_MidnightCrossing(t *testing.T) {
	night := detailed("a", timesheet.Monday, "22:00", "02:00", 0)
	late := detailed("b", timesheet.Monday, "23:00", "23:30", 0)

	assert.True(t, timesheet.HasTimeConflict(night, []timesheet.Entry{late}))
}

func TestHasTimeConflict_UnresolvableTimesNeverConflict(t *testing.T) {
	a := detailed("a", timesheet.Monday, "", "", 0)
	b := detailed("b", timesheet.Monday, "09:00", "12:00", 0)

	assert.False(t, timesheet.HasTimeConflict(a, []timesheet.Entry{b}))
	assert.False(t, timesheet.HasTimeConflict(b, []timesheet.Entry{a}))
}

func TestConflictsWith_ReturnsIDs(t *testing.T) {
	a := detailed("a", timesheet.Monday, "09:00", "17:00", 0)
	others := []timesheet.Entry{
		detailed("b", timesheet.Monday, "08:00", "10:00", 0),
		detailed("c", timesheet.Monday, "17:00", "18:00", 0),
		detailed("d", timesheet.Monday, "12:00", "13:00", 0),
	}

	assert.Equal(t, []string{"b", "d"}, timesheet.ConflictsWith(a, others))
}

// =============================================================================
// WEEK CHECK AND LOCKING
// =============================================================================

func TestCheckWeek_GroupsByDay(t *testing.T) {
	// GIVEN: Same hours on Monday and Tuesday
	// WHEN: Checking the week
	// THEN: Different days never conflict

	entries := []timesheet.Entry{
		detailed("mon", timesheet.Monday, "09:00", "12:00", 0),
		detailed("tue", timesheet.Tuesday, "09:00", "12:00", 0),
	}

	check := timesheet.CheckWeek(entries)

	assert.Equal(t, 2, check.Entries)
	assert.Empty(t, check.Issues)
	assert.True(t, check.Lockable())
}

func TestCheckWeek_ReportsConflictsAndValidation(t *testing.T) {
	entries := []timesheet.Entry{
		detailed("a", timesheet.Monday, "09:00", "12:00", 0),
		detailed("b", timesheet.Monday, "11:00", "13:00", 0),
		detailed("c", timesheet.Wednesday, "", "", 0),
	}

	check := timesheet.CheckWeek(entries)

	require.Len(t, check.Issues, 3)
	assert.False(t, check.Lockable())

	aIssues := check.IssuesFor("a")
	require.Len(t, aIssues, 1)
	assert.Equal(t, timesheet.IssueConflict, aIssues[0].Kind)
	assert.Equal(t, []string{"b"}, aIssues[0].ConflictsWith)
	assert.Equal(t, "Overlaps with 1 other entry", aIssues[0].Message)

	cIssues := check.IssuesFor("c")
	require.Len(t, cIssues, 1)
	assert.Equal(t, timesheet.IssueValidation, cIssues[0].Kind)
	assert.Equal(t, timesheet.MsgMissingTimes, cIssues[0].Message)
}

func TestLockWeek_RefusesIssues(t *testing.T) {
	// GIVEN: A week with an overlap
	// WHEN: Locking
	// THEN: A WeekLockError carries the issues

	entries := []timesheet.Entry{
		detailed("a", timesheet.Monday, "09:00", "12:00", 0),
		detailed("b", timesheet.Monday, "11:00", "13:00", 0),
	}

	locked, err := timesheet.LockWeek(entries)

	require.Error(t, err)
	assert.Nil(t, locked)
	assert.ErrorIs(t, err, timesheet.ErrWeekNotLockable)
	assert.True(t, timesheet.IsConflict(err))

	var lockErr *timesheet.WeekLockError
	require.ErrorAs(t, err, &lockErr)
	assert.Len(t, lockErr.Issues, 2)
}

func TestLockWeek_RefusesEmptyWeek(t *testing.T) {
	_, err := timesheet.LockWeek(nil)

	assert.ErrorIs(t, err, timesheet.ErrEmptyWeek)
	assert.True(t, timesheet.IsClientError(err))
}

func TestLockWeek_MarksSubmittedWithoutMutatingInput(t *testing.T) {
	entries := []timesheet.Entry{
		detailed("a", timesheet.Monday, "09:00", "12:00", 0),
		detailed("b", timesheet.Monday, "12:00", "13:00", 0),
	}

	locked, err := timesheet.LockWeek(entries)

	require.NoError(t, err)
	assert.True(t, timesheet.IsLocked(locked))
	assert.False(t, timesheet.IsLocked(entries))
	for _, e := range locked {
		assert.Equal(t, timesheet.StatusSubmitted, e.Status)
	}

	unlocked := timesheet.UnlockWeek(locked)
	assert.False(t, timesheet.IsLocked(unlocked))
}
