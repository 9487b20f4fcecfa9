/*
Package timesheet provides the timesheet calculation and validation engine.

PURPOSE:
  Turns raw daily work entries into pay-relevant figures: net hours, overtime
  tiers, per-diem allowances, chargeable hours and utilization. It also detects
  invalid or overlapping entries and lays out "hours only" entries on the
  clock.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: One activity block for one user on one day
  - DaySummary: The shared work window of a day (simplified mode)
  - Calculation: Derived per-entry values, never stored
  - WeeklySummary: Fold of calculations over a set of entries

DESIGN PRINCIPLES:
  1. Purity: Every engine function depends only on its arguments. Nothing is
     cached, nothing is mutated, concurrent calls are safe.
  2. Totality: Malformed input degrades to zero values plus a diagnostic.
     The engine never panics and never returns an error for entry data.
  3. Precision: Hours and money use decimal.Decimal so tier splits sum back
     to net hours exactly.
  4. One source of truth: PerDiem is the only per-diem/overnight field; the
     overnight flag is derived from it.

USAGE:
  calc := timesheet.Calculate(entry)
  summary := timesheet.SummarizeWeek(entries)
  check := timesheet.CheckWeek(entries)
  if !check.Lockable() { ... }

SEE ALSO:
  - calculator.go: Per-entry calculation
  - validation.go: Diagnostics, conflicts, lock gating
  - layout.go: Simplified-mode start/finish derivation
  - summary.go, rollup.go: Aggregation
*/
package timesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY - Weekday names used by entries
// =============================================================================

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists the days of an ISO week in order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns 0 for Monday through 6 for Sunday, or -1 for an unknown day.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

func (d Day) IsWeekend() bool { return d == Saturday || d == Sunday }

// ParseDay validates a day name.
func ParseDay(s string) (Day, error) {
	d := Day(s)
	if d.Index() < 0 {
		return "", fmt.Errorf("unknown day %q", s)
	}
	return d, nil
}

// =============================================================================
// ACTIVITY
// =============================================================================

type Activity string

const (
	ActivitySite          Activity = "Site"
	ActivityTravel        Activity = "Travel"
	ActivityWorkshop      Activity = "Workshop"
	ActivityOffice        Activity = "Office"
	ActivityTraining      Activity = "Training"
	ActivitySiteInduction Activity = "Site Induction"
	ActivitySales         Activity = "Sales"
	ActivityRecoveryTime  Activity = "Recovery Time"
	ActivityReporting     Activity = "Reporting"
	ActivityAnnualLeave   Activity = "Annual Leave"
	ActivityPublicHoliday Activity = "Public Holiday"
	ActivitySickLeave     Activity = "Sick Leave"
	ActivityNA            Activity = "N/A"
)

// Activities lists every activity in display order.
var Activities = []Activity{
	ActivitySite,
	ActivityTravel,
	ActivityWorkshop,
	ActivityOffice,
	ActivityTraining,
	ActivitySiteInduction,
	ActivitySales,
	ActivityRecoveryTime,
	ActivityReporting,
	ActivityAnnualLeave,
	ActivityPublicHoliday,
	ActivitySickLeave,
	ActivityNA,
}

// nonChargeable activities never count toward utilization.
var nonChargeable = map[Activity]bool{
	ActivityWorkshop:      true,
	ActivityOffice:        true,
	ActivityTraining:      true,
	ActivitySiteInduction: true,
	ActivityReporting:     true,
	ActivityAnnualLeave:   true,
	ActivityPublicHoliday: true,
	ActivitySickLeave:     true,
	ActivityRecoveryTime:  true,
	ActivityNA:            true,
}

// IsChargeable reports whether hours on this activity are billable.
// Site, Travel and Sales are chargeable; so is any activity outside the
// fixed non-chargeable set.
func (a Activity) IsChargeable() bool { return !nonChargeable[a] }

// IsKnown reports whether a is one of Activities.
func (a Activity) IsKnown() bool {
	for _, known := range Activities {
		if known == a {
			return true
		}
	}
	return false
}

// DefaultBreak is the break pre-filled for a new entry of this activity:
// none on Site, half an hour elsewhere.
func (a Activity) DefaultBreak() decimal.Decimal {
	if a == ActivitySite {
		return decimal.Zero
	}
	return decimal.NewFromFloat(0.5)
}

// =============================================================================
// PER DIEM - Single source of truth for allowance and overnight status
// =============================================================================

type PerDiem string

const (
	PerDiemNone PerDiem = "none"
	PerDiemHalf PerDiem = "half"
	PerDiemFull PerDiem = "full"
)

var (
	PerDiemFullAmount = decimal.NewFromFloat(85.00)
	PerDiemHalfAmount = decimal.NewFromFloat(42.50)
)

// Amount returns the allowance in dollars. Unknown values pay nothing.
func (p PerDiem) Amount() decimal.Decimal {
	switch p {
	case PerDiemFull:
		return PerDiemFullAmount
	case PerDiemHalf:
		return PerDiemHalfAmount
	default:
		return decimal.Zero
	}
}

// IsOvernight is derived: a full per-diem means an overnight stay.
func (p PerDiem) IsOvernight() bool { return p == PerDiemFull }

// ResolvePerDiem maps the legacy (perDiemType, isOvernight) pair onto PerDiem.
// An explicit type always wins, including an explicit "none". With no type,
// an overnight stay earns the full allowance.
func ResolvePerDiem(perDiemType string, isOvernight bool) PerDiem {
	switch PerDiem(perDiemType) {
	case PerDiemFull, PerDiemHalf, PerDiemNone:
		return PerDiem(perDiemType)
	}
	if isOvernight {
		return PerDiemFull
	}
	return PerDiemNone
}

// =============================================================================
// ENTRY
// =============================================================================

type EntryMode string

const (
	ModeDetailed   EntryMode = "detailed"
	ModeSimplified EntryMode = "simplified"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// Entry is one activity block for one user on one day.
//
// In detailed mode StartTime and FinishTime are entered and HoursOnly is
// ignored. In simplified mode HoursOnly is the only hour input and the times
// are derived by LayoutDay.
type Entry struct {
	ID            string
	UserID        string
	WeekKey       string // "YYYY-Www"
	Day           Day
	StartTime     string // "HH:MM", may be empty
	FinishTime    string // "HH:MM", may be empty
	BreakDuration decimal.Decimal
	Activity      Activity
	JobNo         string
	IsNightshift  bool
	PerDiem       PerDiem
	Notes         string
	Status        Status
	Mode          EntryMode
	HoursOnly     decimal.Decimal
}

// IsSimplified reports whether hours come from HoursOnly.
func (e Entry) IsSimplified() bool { return e.Mode == ModeSimplified }

// IsOvernight is derived from PerDiem.
func (e Entry) IsOvernight() bool { return e.PerDiem.IsOvernight() }

// DayKey identifies the day this entry belongs to.
func (e Entry) DayKey() DayKey {
	return DayKey{UserID: e.UserID, WeekKey: e.WeekKey, Day: e.Day}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Calculation holds the derived values of one entry. It is recomputed on
// every read and never persisted.
type Calculation struct {
	NetHours           decimal.Decimal
	BaseHours          decimal.Decimal
	Overtime15x        decimal.Decimal
	Overtime20x        decimal.Decimal
	PerDiem            decimal.Decimal
	IsChargeable       bool
	HasValidationError bool
	ValidationMessage  string
}

// WeeklySummary totals calculations across a set of entries.
type WeeklySummary struct {
	TotalNetHours        decimal.Decimal
	TotalBaseHours       decimal.Decimal
	TotalOvertime15x     decimal.Decimal
	TotalOvertime20x     decimal.Decimal
	TotalPerDiem         decimal.Decimal
	TotalChargeableHours decimal.Decimal
	UtilizationPercent   decimal.Decimal // uncapped
}

var hundred = decimal.NewFromInt(100)

// CappedUtilization clamps utilization to 100% for display.
func (s WeeklySummary) CappedUtilization() decimal.Decimal {
	return decimal.Min(s.UtilizationPercent, hundred)
}
