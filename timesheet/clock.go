package timesheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK ARITHMETIC - "HH:MM" <-> minutes since midnight
// =============================================================================

const MinutesPerDay = 24 * 60

var sixty = decimal.NewFromInt(60)

// ParseClock converts "HH:MM" (24-hour, single-digit hour allowed) to minutes
// since midnight. ok is false for empty or malformed input, and callers must
// not use the minutes in that case.
func ParseClock(s string) (minutes int, ok bool) {
	hStr, mStr, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(hStr) == 0 || len(hStr) > 2 || len(mStr) != 2 {
		return 0, false
	}
	if !isDigits(hStr) || !isDigits(mStr) {
		return 0, false
	}
	h, err := strconv.Atoi(hStr)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mStr)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes as "HH:MM" on a 24-hour clock. Values outside
// one day wrap, so 1500 formats as "01:00" and -60 as "23:00".
func FormatClock(minutes int) string {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// SpanMinutes is the length of [start, finish). A finish before the start is
// taken to be on the next day; there are no multi-day spans.
func SpanMinutes(start, finish int) int {
	span := finish - start
	if span < 0 {
		span += MinutesPerDay
	}
	return span
}

// MinutesToHours converts whole minutes to decimal hours.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}

// HoursToMinutes converts decimal hours to whole minutes, rounding half away
// from zero.
func HoursToMinutes(hours decimal.Decimal) int {
	return int(hours.Mul(sixty).Round(0).IntPart())
}
