/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Hours and money are
  float64 on the wire and decimal.Decimal inside the engine; conversion
  happens only here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

LEGACY FIELDS:
  Older clients send per_diem_type + is_overnight instead of per_diem, and
  copy the day window (day_start, day_finish, day_break) onto every entry.
  EntryRequest still accepts both; toEntry folds them into the single
  PerDiem value and day summaries are reduced with ConsistentDaySummary.

SEE ALSO:
  - handlers.go: Uses these types
  - schema.go: JSON Schema for request bodies
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/calendar"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// EntryRequest is an entry as sent by clients.
type EntryRequest struct {
	ID            string   `json:"id,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
	WeekKey       string   `json:"week_key,omitempty"`
	Day           string   `json:"day"`
	StartTime     string   `json:"start_time,omitempty"`
	FinishTime    string   `json:"finish_time,omitempty"`
	BreakDuration *float64 `json:"break_duration,omitempty"` // nil: activity default
	Activity      string   `json:"activity"`
	JobNo         string   `json:"job_no,omitempty"`
	IsNightshift  bool     `json:"is_nightshift,omitempty"`
	PerDiem       string   `json:"per_diem,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	HoursOnly     float64  `json:"hours_only,omitempty"`

	// Legacy
	PerDiemType string   `json:"per_diem_type,omitempty"`
	IsOvernight bool     `json:"is_overnight,omitempty"`
	DayStart    string   `json:"day_start,omitempty"`
	DayFinish   string   `json:"day_finish,omitempty"`
	DayBreak    *float64 `json:"day_break,omitempty"`
}

// WeekRequest is the body of POST /api/calculate/week.
type WeekRequest struct {
	Entries []EntryRequest `json:"entries"`
}

// LayoutRequest is the body of POST /api/layout.
type LayoutRequest struct {
	DayStart string         `json:"day_start"`
	Entries  []EntryRequest `json:"entries"`
}

// DaySummaryRequest is the body of PUT .../days/{day}.
type DaySummaryRequest struct {
	Start  string  `json:"start"`
	Finish string  `json:"finish"`
	Break  float64 `json:"break"`
}

// toEntry converts a request into an engine entry. Missing mode means
// detailed; a missing break takes the activity's default.
func (r EntryRequest) toEntry() (timesheet.Entry, error) {
	day, err := timesheet.ParseDay(r.Day)
	if err != nil {
		return timesheet.Entry{}, err
	}

	activity := timesheet.Activity(r.Activity)
	brk := activity.DefaultBreak()
	if r.BreakDuration != nil {
		brk = decimalFromFloat(*r.BreakDuration)
	}

	mode := timesheet.EntryMode(r.Mode)
	if mode == "" {
		mode = timesheet.ModeDetailed
	}

	perDiemType := r.PerDiem
	if perDiemType == "" {
		perDiemType = r.PerDiemType
	}

	return timesheet.Entry{
		ID:            r.ID,
		UserID:        r.UserID,
		WeekKey:       r.WeekKey,
		Day:           day,
		StartTime:     r.StartTime,
		FinishTime:    r.FinishTime,
		BreakDuration: brk,
		Activity:      activity,
		JobNo:         r.JobNo,
		IsNightshift:  r.IsNightshift,
		PerDiem:       timesheet.ResolvePerDiem(perDiemType, r.IsOvernight),
		Notes:         r.Notes,
		Status:        timesheet.StatusDraft,
		Mode:          mode,
		HoursOnly:     decimalFromFloat(r.HoursOnly),
	}, nil
}

// daySummary returns the replicated day window carried by the request, if any.
func (r EntryRequest) daySummary(key timesheet.DayKey) (timesheet.DaySummary, bool) {
	if r.DayStart == "" && r.DayFinish == "" && r.DayBreak == nil {
		return timesheet.DaySummary{}, false
	}
	brk := decimal.Zero
	if r.DayBreak != nil {
		brk = decimalFromFloat(*r.DayBreak)
	}
	return timesheet.DaySummary{Key: key, Start: r.DayStart, Finish: r.DayFinish, Break: brk}, true
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EntryDTO represents a stored or laid-out entry.
type EntryDTO struct {
	ID            string  `json:"id,omitempty"`
	UserID        string  `json:"user_id,omitempty"`
	WeekKey       string  `json:"week_key,omitempty"`
	Day           string  `json:"day"`
	StartTime     string  `json:"start_time"`
	FinishTime    string  `json:"finish_time"`
	BreakDuration float64 `json:"break_duration"`
	Activity      string  `json:"activity"`
	JobNo         string  `json:"job_no,omitempty"`
	IsNightshift  bool    `json:"is_nightshift"`
	PerDiem       string  `json:"per_diem"`
	IsOvernight   bool    `json:"is_overnight"`
	Notes         string  `json:"notes,omitempty"`
	Status        string  `json:"status"`
	Mode          string  `json:"mode"`
	HoursOnly     float64 `json:"hours_only"`
}

// CalculationDTO holds the derived values of one entry.
type CalculationDTO struct {
	NetHours           float64 `json:"net_hours"`
	BaseHours          float64 `json:"base_hours"`
	Overtime15x        float64 `json:"overtime_15x"`
	Overtime20x        float64 `json:"overtime_20x"`
	PerDiem            float64 `json:"per_diem"`
	IsChargeable       bool    `json:"is_chargeable"`
	HasValidationError bool    `json:"has_validation_error"`
	ValidationMessage  string  `json:"validation_message,omitempty"`
}

// EntryResultDTO pairs an entry with its calculation.
type EntryResultDTO struct {
	Entry       EntryDTO       `json:"entry"`
	Calculation CalculationDTO `json:"calculation"`
}

// SummaryDTO represents a WeeklySummary.
type SummaryDTO struct {
	TotalNetHours        float64 `json:"total_net_hours"`
	TotalBaseHours       float64 `json:"total_base_hours"`
	TotalOvertime15x     float64 `json:"total_overtime_15x"`
	TotalOvertime20x     float64 `json:"total_overtime_20x"`
	TotalPerDiem         float64 `json:"total_per_diem"`
	TotalChargeableHours float64 `json:"total_chargeable_hours"`
	UtilizationPercent   float64 `json:"utilization_percent"`
	CappedUtilization    float64 `json:"capped_utilization"`
}

// IssueDTO is one reason a week cannot be locked.
type IssueDTO struct {
	EntryID       string   `json:"entry_id"`
	Day           string   `json:"day"`
	Kind          string   `json:"kind"`
	Message       string   `json:"message"`
	ConflictsWith []string `json:"conflicts_with,omitempty"`
}

// CheckDTO represents a WeekCheck.
type CheckDTO struct {
	Lockable bool       `json:"lockable"`
	Issues   []IssueDTO `json:"issues"`
}

// WeekResultDTO is the response of POST /api/calculate/week.
type WeekResultDTO struct {
	Entries []EntryResultDTO `json:"entries"`
	Summary SummaryDTO       `json:"summary"`
	Check   CheckDTO         `json:"check"`
}

// DaySummaryDTO is a day's work window.
type DaySummaryDTO struct {
	Start  string  `json:"start"`
	Finish string  `json:"finish"`
	Break  float64 `json:"break"`
}

// CapacityDTO compares entered hours with the day window.
type CapacityDTO struct {
	Available float64 `json:"available"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
	Overflow  bool    `json:"overflow"`
}

// DayDTO is one day of a stored week.
type DayDTO struct {
	Day      string         `json:"day"`
	Date     string         `json:"date"`
	Window   *DaySummaryDTO `json:"window,omitempty"`
	Totals   SummaryDTO     `json:"totals"`
	Capacity *CapacityDTO   `json:"capacity,omitempty"`
}

// WeekViewDTO is a stored week with everything derived from it.
type WeekViewDTO struct {
	UserID  string           `json:"user_id"`
	WeekKey string           `json:"week_key"`
	Label   string           `json:"label"`
	Locked  bool             `json:"locked"`
	Entries []EntryResultDTO `json:"entries"`
	Days    []DayDTO         `json:"days"`
	Summary SummaryDTO       `json:"summary"`
	Check   CheckDTO         `json:"check"`
}

// CalendarDTO describes the ISO week containing a date.
type CalendarDTO struct {
	Date       string `json:"date"`
	WeekKey    string `json:"week_key"`
	Year       int    `json:"year"`
	WeekNumber int    `json:"week_number"`
	WeekStart  string `json:"week_start"`
	WeekEnd    string `json:"week_end"`
	PrevWeek   string `json:"prev_week"`
	NextWeek   string `json:"next_week"`
	Label      string `json:"label"`
}

// PeriodWeekDTO is one week of a quarter or year.
type PeriodWeekDTO struct {
	WeekKey   string     `json:"week_key"`
	WeekStart string     `json:"week_start"`
	HasData   bool       `json:"has_data"`
	Summary   SummaryDTO `json:"summary"`
}

// PeriodDTO is the response of the year and quarter endpoints.
type PeriodDTO struct {
	UserID               string          `json:"user_id"`
	Year                 int             `json:"year"`
	Quarter              int             `json:"quarter,omitempty"`
	TotalNetHours        float64         `json:"total_net_hours"`
	TotalBaseHours       float64         `json:"total_base_hours"`
	TotalOvertime15x     float64         `json:"total_overtime_15x"`
	TotalOvertime20x     float64         `json:"total_overtime_20x"`
	TotalPerDiem         float64         `json:"total_per_diem"`
	TotalChargeableHours float64         `json:"total_chargeable_hours"`
	UtilizationPercent   float64         `json:"utilization_percent"`
	WeeksWorked          int             `json:"weeks_worked"`
	Weeks                []PeriodWeekDTO `json:"weeks"`
}

// YearsDTO lists the years a user can browse.
type YearsDTO struct {
	UserID string `json:"user_id"`
	Years  []int  `json:"years"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toEntryDTO(e timesheet.Entry) EntryDTO {
	return EntryDTO{
		ID:            e.ID,
		UserID:        e.UserID,
		WeekKey:       e.WeekKey,
		Day:           string(e.Day),
		StartTime:     e.StartTime,
		FinishTime:    e.FinishTime,
		BreakDuration: toFloat(e.BreakDuration),
		Activity:      string(e.Activity),
		JobNo:         e.JobNo,
		IsNightshift:  e.IsNightshift,
		PerDiem:       string(e.PerDiem),
		IsOvernight:   e.IsOvernight(),
		Notes:         e.Notes,
		Status:        string(e.Status),
		Mode:          string(e.Mode),
		HoursOnly:     toFloat(e.HoursOnly),
	}
}

func toCalculationDTO(c timesheet.Calculation) CalculationDTO {
	return CalculationDTO{
		NetHours:           toFloat(c.NetHours),
		BaseHours:          toFloat(c.BaseHours),
		Overtime15x:        toFloat(c.Overtime15x),
		Overtime20x:        toFloat(c.Overtime20x),
		PerDiem:            toFloat(c.PerDiem),
		IsChargeable:       c.IsChargeable,
		HasValidationError: c.HasValidationError,
		ValidationMessage:  c.ValidationMessage,
	}
}

// EntryResults pairs each entry with its calculation.
func EntryResults(entries []timesheet.Entry) []EntryResultDTO {
	results := make([]EntryResultDTO, len(entries))
	for i, e := range entries {
		results[i] = EntryResultDTO{Entry: toEntryDTO(e), Calculation: toCalculationDTO(timesheet.Calculate(e))}
	}
	return results
}

// WeekResult calculates, totals and checks a set of laid-out entries.
func WeekResult(entries []timesheet.Entry) WeekResultDTO {
	return WeekResultDTO{
		Entries: EntryResults(entries),
		Summary: toSummaryDTO(timesheet.SummarizeWeek(entries)),
		Check:   toCheckDTO(timesheet.CheckWeek(entries)),
	}
}

func toSummaryDTO(s timesheet.WeeklySummary) SummaryDTO {
	return SummaryDTO{
		TotalNetHours:        toFloat(s.TotalNetHours),
		TotalBaseHours:       toFloat(s.TotalBaseHours),
		TotalOvertime15x:     toFloat(s.TotalOvertime15x),
		TotalOvertime20x:     toFloat(s.TotalOvertime20x),
		TotalPerDiem:         toFloat(s.TotalPerDiem),
		TotalChargeableHours: toFloat(s.TotalChargeableHours),
		UtilizationPercent:   toFloat(s.UtilizationPercent),
		CappedUtilization:    toFloat(s.CappedUtilization()),
	}
}

func toIssueDTOs(issues []timesheet.Issue) []IssueDTO {
	dtos := make([]IssueDTO, len(issues))
	for i, is := range issues {
		dtos[i] = IssueDTO{
			EntryID:       is.EntryID,
			Day:           string(is.Day),
			Kind:          string(is.Kind),
			Message:       is.Message,
			ConflictsWith: is.ConflictsWith,
		}
	}
	return dtos
}

func toCheckDTO(c timesheet.WeekCheck) CheckDTO {
	return CheckDTO{Lockable: c.Lockable(), Issues: toIssueDTOs(c.Issues)}
}

func toDaySummaryDTO(s timesheet.DaySummary) *DaySummaryDTO {
	return &DaySummaryDTO{Start: s.Start, Finish: s.Finish, Break: toFloat(s.Break)}
}

func toCapacityDTO(c timesheet.Capacity) *CapacityDTO {
	return &CapacityDTO{
		Available: toFloat(c.Available),
		Used:      toFloat(c.Used),
		Remaining: toFloat(c.Remaining),
		Overflow:  c.Overflow,
	}
}

// CalendarOf describes the ISO week containing date.
func CalendarOf(date time.Time) CalendarDTO {
	week := calendar.WeekOf(date)
	start := calendar.WeekStart(date)
	end := calendar.WeekEnd(date)
	return CalendarDTO{
		Date:       date.Format("2006-01-02"),
		WeekKey:    week.Key(),
		Year:       week.Year,
		WeekNumber: week.Number,
		WeekStart:  start.Format("2006-01-02"),
		WeekEnd:    end.Format("2006-01-02"),
		PrevWeek:   week.Prev().Key(),
		NextWeek:   week.Next().Key(),
		Label:      calendar.FormatDateRange(start, end),
	}
}

func toPeriodDTO(userID string, year, quarter int, p timesheet.PeriodSummary) PeriodDTO {
	weeks := make([]PeriodWeekDTO, len(p.Weeks))
	for i, w := range p.Weeks {
		weeks[i] = PeriodWeekDTO{
			WeekKey:   w.Week.Key(),
			WeekStart: w.WeekStart.Format("2006-01-02"),
			HasData:   w.HasData,
			Summary:   toSummaryDTO(w.Summary),
		}
	}
	return PeriodDTO{
		UserID:               userID,
		Year:                 year,
		Quarter:              quarter,
		TotalNetHours:        toFloat(p.TotalNetHours),
		TotalBaseHours:       toFloat(p.TotalBaseHours),
		TotalOvertime15x:     toFloat(p.TotalOvertime15x),
		TotalOvertime20x:     toFloat(p.TotalOvertime20x),
		TotalPerDiem:         toFloat(p.TotalPerDiem),
		TotalChargeableHours: toFloat(p.TotalChargeableHours),
		UtilizationPercent:   toFloat(p.UtilizationPercent),
		WeeksWorked:          p.WeeksWorked,
		Weeks:                weeks,
	}
}
