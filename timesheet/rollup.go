/*
rollup.go - Quarter and year aggregation

PURPOSE:
  Builds longer-range totals out of weekly summaries. Every week of the range
  is reported (so charts have a point per week), and only weeks that have
  entries count toward totals and utilization.

UTILIZATION OVER A RANGE:
  utilization = sum(chargeable hours) / (weeks with data x 37.5) x 100

  Percentages are never averaged. A 10h week and a 40h week give
  50/75 = 66.67%, not the mean of 26.67% and 106.67%.

QUARTERS:
  Quarters are 13-week blocks of ISO weeks; Q4 takes week 53 when the year
  has one (calendar.QuarterWeeks).
*/
package timesheet

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/calendar"
)

// WeekResult is one week's summary within a longer range.
type WeekResult struct {
	Week      calendar.Week
	WeekStart time.Time
	Summary   WeeklySummary
	HasData   bool
}

// PeriodSummary totals the weeks of a range that have data.
type PeriodSummary struct {
	TotalNetHours        decimal.Decimal
	TotalBaseHours       decimal.Decimal
	TotalOvertime15x     decimal.Decimal
	TotalOvertime20x     decimal.Decimal
	TotalPerDiem         decimal.Decimal
	TotalChargeableHours decimal.Decimal
	UtilizationPercent   decimal.Decimal
	WeeksWorked          int
	Weeks                []WeekResult
}

// Rollup sums the weeks that have data and re-derives utilization from the
// summed chargeable hours.
func Rollup(weeks []WeekResult) PeriodSummary {
	p := PeriodSummary{
		TotalNetHours:        decimal.Zero,
		TotalBaseHours:       decimal.Zero,
		TotalOvertime15x:     decimal.Zero,
		TotalOvertime20x:     decimal.Zero,
		TotalPerDiem:         decimal.Zero,
		TotalChargeableHours: decimal.Zero,
		Weeks:                weeks,
	}
	for _, w := range weeks {
		if !w.HasData {
			continue
		}
		p.WeeksWorked++
		p.TotalNetHours = p.TotalNetHours.Add(w.Summary.TotalNetHours)
		p.TotalBaseHours = p.TotalBaseHours.Add(w.Summary.TotalBaseHours)
		p.TotalOvertime15x = p.TotalOvertime15x.Add(w.Summary.TotalOvertime15x)
		p.TotalOvertime20x = p.TotalOvertime20x.Add(w.Summary.TotalOvertime20x)
		p.TotalPerDiem = p.TotalPerDiem.Add(w.Summary.TotalPerDiem)
		p.TotalChargeableHours = p.TotalChargeableHours.Add(w.Summary.TotalChargeableHours)
	}
	p.UtilizationPercent = Utilization(p.TotalChargeableHours, p.WeeksWorked)
	return p
}

// SummarizeWeeks summarizes entries for each of the given weeks. Entries
// whose week key is not among them are ignored.
func SummarizeWeeks(weeks []calendar.Week, entries []Entry) PeriodSummary {
	byWeek := make(map[string][]Entry)
	for _, e := range entries {
		byWeek[e.WeekKey] = append(byWeek[e.WeekKey], e)
	}

	results := make([]WeekResult, len(weeks))
	for i, w := range weeks {
		weekEntries := byWeek[w.Key()]
		results[i] = WeekResult{
			Week:      w,
			WeekStart: w.Start(),
			Summary:   SummarizeWeek(weekEntries),
			HasData:   len(weekEntries) > 0,
		}
	}
	return Rollup(results)
}

// SummarizeYear reports every ISO week of year.
func SummarizeYear(year int, entries []Entry) PeriodSummary {
	return SummarizeWeeks(calendar.YearWeeks(year), entries)
}

// SummarizeQuarter reports the ISO weeks of one quarter (1-4).
func SummarizeQuarter(year, quarter int, entries []Entry) (PeriodSummary, error) {
	weeks, err := calendar.QuarterWeeks(year, quarter)
	if err != nil {
		return PeriodSummary{}, err
	}
	return SummarizeWeeks(weeks, entries), nil
}

// AvailableYears returns the ISO years that have entries, plus the year of
// now, newest first. Entries with malformed week keys are skipped.
func AvailableYears(entries []Entry, now time.Time) []int {
	seen := map[int]bool{calendar.ISOWeekYear(now): true}
	for _, e := range entries {
		if w, err := calendar.ParseWeekKey(e.WeekKey); err == nil {
			seen[w.Year] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
