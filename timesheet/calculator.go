/*
calculator.go - Per-entry calculation

PURPOSE:
  Computes every derived value of a single entry: net hours, overtime tiers,
  per-diem, chargeability and the validation diagnostic. This is the function
  callers run on every edit.

NET HOURS:
  Detailed mode:   span(start, finish) - break, where a finish before the
                   start rolls over to the next day (22:00 -> 06:00 = 8h)
  Simplified mode: HoursOnly as entered; start/finish are derived from it
                   elsewhere and are not read here
  Malformed or missing times give 0 net hours. Net hours are clamped at zero
  and rounded to 2 decimal places before tiering.

OVERTIME TIERS (per entry):
  First 7.5h      -> base (1.0x)
  Next 2.0h       -> 1.5x
  Everything else -> 2.0x

  Tiers are applied to each entry on its own. Three 3h entries on one day
  produce no overtime, one 9h entry produces 1.5h at 1.5x. Weekly totals are
  plain sums of per-entry tiers.

PER DIEM:
  full -> $85.00, half -> $42.50, none -> $0

SEE ALSO:
  - validation.go: ValidateEntry supplies the diagnostic
  - summary.go: Folds Calculate over a week
*/
package timesheet

import "github.com/shopspring/decimal"

// =============================================================================
// CONSTANTS
// =============================================================================

var (
	// BaseHoursThreshold is the per-entry allowance paid at the base rate.
	BaseHoursThreshold = decimal.NewFromFloat(7.5)

	// Overtime15xAllowance is the number of hours after the base paid at 1.5x.
	Overtime15xAllowance = decimal.NewFromFloat(2.0)

	// StandardWeeklyHours is the utilization target.
	StandardWeeklyHours = decimal.NewFromFloat(37.5)
)

// =============================================================================
// CALCULATE
// =============================================================================

// Calculate derives all values for one entry. It never fails.
func Calculate(e Entry) Calculation {
	message := ValidateEntry(e)
	net := NetHours(e)
	split := SplitOvertime(net)

	return Calculation{
		NetHours:           net,
		BaseHours:          split.BaseHours,
		Overtime15x:        split.Overtime15x,
		Overtime20x:        split.Overtime20x,
		PerDiem:            e.PerDiem.Amount(),
		IsChargeable:       e.Activity.IsChargeable(),
		HasValidationError: message != "",
		ValidationMessage:  message,
	}
}

// NetHours returns worked hours for an entry, never negative, rounded to
// 2 decimal places.
func NetHours(e Entry) decimal.Decimal {
	if e.IsSimplified() {
		return clampHours(e.HoursOnly)
	}

	start, okStart := ParseClock(e.StartTime)
	finish, okFinish := ParseClock(e.FinishTime)
	if !okStart || !okFinish {
		return decimal.Zero
	}

	gross := MinutesToHours(SpanMinutes(start, finish))
	return clampHours(gross.Sub(breakHours(e.BreakDuration)))
}

// breakHours is the break applied to a span. A negative break is reported by
// ValidateEntry and treated as no break here.
func breakHours(b decimal.Decimal) decimal.Decimal {
	return decimal.Max(b, decimal.Zero)
}

func clampHours(h decimal.Decimal) decimal.Decimal {
	if !h.IsPositive() {
		return decimal.Zero
	}
	return h.Round(2)
}

// =============================================================================
// OVERTIME SPLIT
// =============================================================================

// OvertimeSplit divides net hours into pay tiers.
type OvertimeSplit struct {
	BaseHours   decimal.Decimal
	Overtime15x decimal.Decimal
	Overtime20x decimal.Decimal
}

// Total returns the sum of all tiers.
func (s OvertimeSplit) Total() decimal.Decimal {
	return s.BaseHours.Add(s.Overtime15x).Add(s.Overtime20x)
}

// SplitOvertime applies the 7.5h base / 2h at 1.5x / remainder at 2.0x policy.
// Non-positive hours yield an all-zero split.
func SplitOvertime(net decimal.Decimal) OvertimeSplit {
	if !net.IsPositive() {
		return OvertimeSplit{BaseHours: decimal.Zero, Overtime15x: decimal.Zero, Overtime20x: decimal.Zero}
	}

	base := decimal.Min(net, BaseHoursThreshold)
	afterBase := decimal.Max(net.Sub(BaseHoursThreshold), decimal.Zero)
	ot15 := decimal.Min(afterBase, Overtime15xAllowance)
	ot20 := decimal.Max(afterBase.Sub(Overtime15xAllowance), decimal.Zero)

	return OvertimeSplit{BaseHours: base, Overtime15x: ot15, Overtime20x: ot20}
}
