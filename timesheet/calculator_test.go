package timesheet_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func assertDecimal(t *testing.T, want float64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !d(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %v, got %s", want, got), msgAndArgs...)
	}
}

func detailed(id string, day timesheet.Day, start, finish string, brk float64) timesheet.Entry {
	return timesheet.Entry{
		ID:            id,
		UserID:        "user-1",
		WeekKey:       "2026-W02",
		Day:           day,
		StartTime:     start,
		FinishTime:    finish,
		BreakDuration: d(brk),
		Activity:      timesheet.ActivitySite,
		PerDiem:       timesheet.PerDiemNone,
		Status:        timesheet.StatusDraft,
		Mode:          timesheet.ModeDetailed,
	}
}

func simplified(id string, day timesheet.Day, hours float64) timesheet.Entry {
	e := detailed(id, day, "", "", 0)
	e.Mode = timesheet.ModeSimplified
	e.HoursOnly = d(hours)
	return e
}

// =============================================================================
// NET HOURS
// =============================================================================

func TestCalculate_StandardDayWithOvertime(t *testing.T) {
	// GIVEN: 08:00-18:00 with a half hour break
	// WHEN: Calculating
	// THEN: 9.5 net hours split as 7.5 base and 2.0 at 1.5x

	c := timesheet.Calculate(detailed("e1", timesheet.Monday, "08:00", "18:00", 0.5))

	assertDecimal(t, 9.5, c.NetHours)
	assertDecimal(t, 7.5, c.BaseHours)
	assertDecimal(t, 2.0, c.Overtime15x)
	assertDecimal(t, 0, c.Overtime20x)
	assert.False(t, c.HasValidationError)
	assert.Empty(t, c.ValidationMessage)
}

func TestCalculate_LongDayReachesDoubleTime(t *testing.T) {
	c := timesheet.Calculate(detailed("e1", timesheet.Monday, "06:00", "17:00", 0))

	assertDecimal(t, 11, c.NetHours)
	assertDecimal(t, 7.5, c.BaseHours)
	assertDecimal(t, 2.0, c.Overtime15x)
	assertDecimal(t, 1.5, c.Overtime20x)
}

func TestCalculate_OvernightRollover(t *testing.T) {
	// GIVEN: A nightshift from 22:00 to 06:00
	// WHEN: Calculating
	// THEN: The finish rolls over to the next day, 8 hours

	e := detailed("e1", timesheet.Friday, "22:00", "06:00", 0)
	e.IsNightshift = true

	c := timesheet.Calculate(e)

	assertDecimal(t, 8, c.NetHours)
	assertDecimal(t, 7.5, c.BaseHours)
	assertDecimal(t, 0.5, c.Overtime15x)
	assert.False(t, c.HasValidationError)
}

func TestCalculate_RolloverWithoutNightshiftIsFlagged(t *testing.T) {
	// GIVEN: 22:00-06:00 with no nightshift and no overnight stay
	// WHEN: Calculating
	// THEN: Hours are still computed but the entry carries a diagnostic

	c := timesheet.Calculate(detailed("e1", timesheet.Friday, "22:00", "06:00", 0))

	assertDecimal(t, 8, c.NetHours)
	assert.True(t, c.HasValidationError)
	assert.Equal(t, timesheet.MsgStartAfterFinish, c.ValidationMessage)
}

func TestCalculate_MalformedTimesGiveZero(t *testing.T) {
	for _, tc := range []struct{ start, finish string }{
		{"", "17:00"},
		{"08:00", ""},
		{"8am", "17:00"},
		{"08:00", "25:00"},
		{"08:60", "17:00"},
	} {
		c := timesheet.Calculate(detailed("e1", timesheet.Monday, tc.start, tc.finish, 0))
		assertDecimal(t, 0, c.NetHours, "%s-%s", tc.start, tc.finish)
		assertDecimal(t, 0, c.BaseHours)
		assert.True(t, c.HasValidationError, "%s-%s", tc.start, tc.finish)
	}
}

func TestCalculate_BreakLongerThanSpanClampsToZero(t *testing.T) {
	c := timesheet.Calculate(detailed("e1", timesheet.Monday, "09:00", "10:00", 2))

	assertDecimal(t, 0, c.NetHours)
	assertDecimal(t, 0, c.Overtime20x)
	assert.Equal(t, timesheet.MsgBreakExceedsWork, c.ValidationMessage)
}

func TestCalculate_NegativeBreakIgnoredInHours(t *testing.T) {
	c := timesheet.Calculate(detailed("e1", timesheet.Monday, "09:00", "17:00", -1))

	assertDecimal(t, 8, c.NetHours)
	assert.Equal(t, timesheet.MsgNegativeBreak, c.ValidationMessage)
}

func TestCalculate_SimplifiedUsesHoursOnly(t *testing.T) {
	// GIVEN: A simplified entry with stale start/finish times
	// WHEN: Calculating
	// THEN: Only HoursOnly counts

	e := simplified("e1", timesheet.Monday, 5)
	e.StartTime = "08:00"
	e.FinishTime = "20:00"

	c := timesheet.Calculate(e)

	assertDecimal(t, 5, c.NetHours)
	assertDecimal(t, 5, c.BaseHours)
	assert.False(t, c.HasValidationError)
}

func TestCalculate_SimplifiedNegativeHours(t *testing.T) {
	c := timesheet.Calculate(simplified("e1", timesheet.Monday, -2))

	assertDecimal(t, 0, c.NetHours)
	assert.Equal(t, timesheet.MsgNegativeHours, c.ValidationMessage)
}

func TestCalculate_RoundsToTwoPlaces(t *testing.T) {
	// 08:00-08:20 = 0.3333... hours
	c := timesheet.Calculate(detailed("e1", timesheet.Monday, "08:00", "08:20", 0))

	assertDecimal(t, 0.33, c.NetHours)
	assertDecimal(t, 0.33, c.BaseHours)
}

// =============================================================================
// OVERTIME SPLIT
// =============================================================================

func TestSplitOvertime_TiersSumToNet(t *testing.T) {
	for _, net := range []float64{0.25, 3, 7.5, 7.51, 9.5, 9.75, 12, 24} {
		split := timesheet.SplitOvertime(d(net))

		assertDecimal(t, net, split.Total(), "net %v", net)
		assert.True(t, split.BaseHours.LessThanOrEqual(timesheet.BaseHoursThreshold), "net %v", net)
		assert.True(t, split.Overtime15x.LessThanOrEqual(timesheet.Overtime15xAllowance), "net %v", net)
		assert.False(t, split.Overtime20x.IsNegative(), "net %v", net)
	}
}

func TestSplitOvertime_NonPositiveIsZero(t *testing.T) {
	for _, net := range []float64{0, -3} {
		split := timesheet.SplitOvertime(d(net))
		assertDecimal(t, 0, split.BaseHours)
		assertDecimal(t, 0, split.Overtime15x)
		assertDecimal(t, 0, split.Overtime20x)
	}
}

// =============================================================================
// PER DIEM AND CHARGEABILITY
// =============================================================================

func TestCalculate_PerDiem(t *testing.T) {
	tests := []struct {
		perDiem timesheet.PerDiem
		want    float64
	}{
		{timesheet.PerDiemFull, 85},
		{timesheet.PerDiemHalf, 42.5},
		{timesheet.PerDiemNone, 0},
		{timesheet.PerDiem("bogus"), 0},
	}
	for _, tc := range tests {
		e := detailed("e1", timesheet.Monday, "08:00", "16:00", 0.5)
		e.PerDiem = tc.perDiem
		assertDecimal(t, tc.want, timesheet.Calculate(e).PerDiem, string(tc.perDiem))
	}
}

func TestResolvePerDiem_LegacyFields(t *testing.T) {
	// Explicit type wins over the overnight flag
	assert.Equal(t, timesheet.PerDiemHalf, timesheet.ResolvePerDiem("half", true))
	assert.Equal(t, timesheet.PerDiemNone, timesheet.ResolvePerDiem("none", true))
	assert.Equal(t, timesheet.PerDiemFull, timesheet.ResolvePerDiem("full", false))

	// No type: overnight earns the full allowance
	assert.Equal(t, timesheet.PerDiemFull, timesheet.ResolvePerDiem("", true))
	assert.Equal(t, timesheet.PerDiemNone, timesheet.ResolvePerDiem("", false))
}

func TestCalculate_FullPerDiemAllowsRollover(t *testing.T) {
	e := detailed("e1", timesheet.Monday, "20:00", "02:00", 0)
	e.PerDiem = timesheet.PerDiemFull

	c := timesheet.Calculate(e)

	assert.True(t, e.IsOvernight())
	assert.False(t, c.HasValidationError)
	assertDecimal(t, 6, c.NetHours)
}

func TestActivity_Chargeability(t *testing.T) {
	chargeable := []timesheet.Activity{timesheet.ActivitySite, timesheet.ActivityTravel, timesheet.ActivitySales}
	for _, a := range chargeable {
		assert.True(t, a.IsChargeable(), string(a))
	}
	for _, a := range timesheet.Activities {
		if a == timesheet.ActivitySite || a == timesheet.ActivityTravel || a == timesheet.ActivitySales {
			continue
		}
		assert.False(t, a.IsChargeable(), string(a))
	}
}

func TestActivity_DefaultBreak(t *testing.T) {
	assertDecimal(t, 0, timesheet.ActivitySite.DefaultBreak())
	assertDecimal(t, 0.5, timesheet.ActivityOffice.DefaultBreak())
}

// =============================================================================
// CLOCK
// =============================================================================

func TestParseClock(t *testing.T) {
	m, ok := timesheet.ParseClock("08:30")
	assert.True(t, ok)
	assert.Equal(t, 510, m)

	m, ok = timesheet.ParseClock("7:05")
	assert.True(t, ok)
	assert.Equal(t, 425, m)

	for _, bad := range []string{"", "24:00", "12:60", "1230", "12:3", "ab:cd", "123:00"} {
		_, ok := timesheet.ParseClock(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseClock_RejectsSigns(t *testing.T) {
	// Signed numbers are not clock digits
	for _, bad := range []string{"-0:00", "+8:00", "08:+5", "8:-5", " 8:00x"} {
		_, ok := timesheet.ParseClock(bad)
		assert.False(t, ok, bad)
	}

	// An entry with a signed time gets no hours
	e := detailed("e1", timesheet.Monday, "+8:00", "16:00", 0)
	assertDecimal(t, 0, timesheet.Calculate(e).NetHours)
	assert.True(t, timesheet.Calculate(e).HasValidationError)
}

func TestFormatClock_Wraps(t *testing.T) {
	assert.Equal(t, "00:00", timesheet.FormatClock(0))
	assert.Equal(t, "13:45", timesheet.FormatClock(825))
	assert.Equal(t, "01:00", timesheet.FormatClock(1500))
	assert.Equal(t, "23:00", timesheet.FormatClock(-60))
}
