package timesheet

import "github.com/shopspring/decimal"

// =============================================================================
// WEEKLY SUMMARY - Fold of Calculate over entries
// =============================================================================

// SummarizeWeek totals the calculations of all entries. Overtime totals are
// sums of per-entry tiers. Utilization is chargeable hours over the 37.5h
// standard week, uncapped; callers that display it may clamp with
// CappedUtilization.
func SummarizeWeek(entries []Entry) WeeklySummary {
	s := WeeklySummary{
		TotalNetHours:        decimal.Zero,
		TotalBaseHours:       decimal.Zero,
		TotalOvertime15x:     decimal.Zero,
		TotalOvertime20x:     decimal.Zero,
		TotalPerDiem:         decimal.Zero,
		TotalChargeableHours: decimal.Zero,
	}
	for _, e := range entries {
		c := Calculate(e)
		s.TotalNetHours = s.TotalNetHours.Add(c.NetHours)
		s.TotalBaseHours = s.TotalBaseHours.Add(c.BaseHours)
		s.TotalOvertime15x = s.TotalOvertime15x.Add(c.Overtime15x)
		s.TotalOvertime20x = s.TotalOvertime20x.Add(c.Overtime20x)
		s.TotalPerDiem = s.TotalPerDiem.Add(c.PerDiem)
		if c.IsChargeable {
			s.TotalChargeableHours = s.TotalChargeableHours.Add(c.NetHours)
		}
	}
	s.UtilizationPercent = Utilization(s.TotalChargeableHours, 1)
	return s
}

// SummarizeDay totals one day's entries. It is the weekly fold applied to a
// single day.
func SummarizeDay(entries []Entry) WeeklySummary {
	return SummarizeWeek(entries)
}

// Utilization returns chargeable hours as a percentage of weeks x 37.5h,
// rounded to 2 decimal places. Zero weeks give 0.
func Utilization(chargeable decimal.Decimal, weeks int) decimal.Decimal {
	if weeks <= 0 {
		return decimal.Zero
	}
	target := StandardWeeklyHours.Mul(decimal.NewFromInt(int64(weeks)))
	return chargeable.Div(target).Mul(hundred).Round(2)
}

// GroupByDay splits entries by day name, keeping input order within a day.
// Callers pass the entries of a single user and week.
func GroupByDay(entries []Entry) map[Day][]Entry {
	out := make(map[Day][]Entry, len(Days))
	for _, e := range entries {
		out[e.Day] = append(out[e.Day], e)
	}
	return out
}
