/*
scenarios.go - Demo week loaders for testing and demonstrations

PURPOSE:

	Provides pre-built weeks that populate a user's timesheet with realistic
	entries for demos. Each scenario shows one part of the engine.

AVAILABLE SCENARIOS:

	standard-week:    Five 7.5h Site days, 100% utilization
	overtime-week:    Long days reaching both overtime tiers, a nightshift
	                  with full per diem
	simplified-week:  Hours-only entries laid out from day windows
	conflicting-week: Overlaps and a malformed entry; the week cannot be locked

HOW SCENARIOS WORK:
 1. Refuse if the target week is locked
 2. Delete the week's existing entries
 3. Store the scenario's day windows
 4. Store the entries as laid out

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overtime-week", "user_id": "demo", "week_key": "2026-W10"}

	user_id defaults to "demo", week_key to the current week.

	POST /api/reset clears every week and day window.

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a builder to 'scenarioBuilders'

NOTE:

	Day windows of days the scenario does not set are left in place.

SEE ALSO:
  - handlers.go: Week view returned after loading
*/
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/calendar"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a loadable demo week.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ScenarioRequest is the body of POST /api/scenarios/load.
type ScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
	UserID     string `json:"user_id,omitempty"`
	WeekKey    string `json:"week_key,omitempty"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-week",
		Name:        "Standard Week",
		Description: "Five 7.5h Site days: no overtime, 100% utilization",
	},
	{
		ID:          "overtime-week",
		Name:        "Overtime Week",
		Description: "Long days reaching 1.5x and 2.0x, a nightshift with full per diem",
	},
	{
		ID:          "simplified-week",
		Name:        "Simplified Week",
		Description: "Hours-only entries placed back to back from each day's start",
	},
	{
		ID:          "conflicting-week",
		Name:        "Conflicting Week",
		Description: "Overlapping entries and a missing finish time; locking is refused",
	},
}

// scenarioWeek is what a builder produces: entries without ids or owner,
// plus the day windows to store.
type scenarioWeek struct {
	entries []timesheet.Entry
	windows []timesheet.DaySummary
}

var scenarioBuilders = map[string]func() scenarioWeek{
	"standard-week":    standardWeek,
	"overtime-week":    overtimeWeek,
	"simplified-week":  simplifiedWeek,
	"conflicting-week": conflictingWeek,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario replaces a user's week with a predefined scenario and
// returns the resulting week view.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if err := decodeBody(w, r, h.Schemas.Scenario, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	build, ok := scenarioBuilders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}
	if req.UserID == "" {
		req.UserID = "demo"
	}
	week := calendar.WeekOf(h.Now())
	if req.WeekKey != "" {
		var err error
		if week, err = calendar.ParseWeekKey(req.WeekKey); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week", err)
			return
		}
	}

	ctx := r.Context()
	if err := h.loadScenario(ctx, req.UserID, week.Key(), build()); err != nil {
		h.handleError(w, fmt.Errorf("failed to load scenario %s: %w", req.ScenarioID, err))
		return
	}
	log.Printf("[API] Loaded scenario %s into %s/%s", req.ScenarioID, req.UserID, week.Key())

	view, err := h.weekView(ctx, req.UserID, week)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Resetter is implemented by repositories that can be wiped for demos.
type Resetter interface {
	Reset(ctx context.Context) error
}

// ResetDatabase clears all entries and day windows (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.Repo.(Resetter)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Repository cannot be reset", nil)
		return
	}
	if err := rs.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	log.Printf("[API] Database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) loadScenario(ctx context.Context, userID, weekKey string, sw scenarioWeek) error {
	if err := h.ensureUnlocked(ctx, userID, weekKey); err != nil {
		return err
	}

	existing, err := h.Repo.ListWeek(ctx, userID, weekKey)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if err := h.Repo.DeleteEntry(ctx, e.ID); err != nil {
			return err
		}
	}

	summaries := make(map[timesheet.DayKey]timesheet.DaySummary, len(sw.windows))
	for _, ds := range sw.windows {
		ds.Key.UserID = userID
		ds.Key.WeekKey = weekKey
		if err := h.Repo.SaveDaySummary(ctx, ds); err != nil {
			return err
		}
		summaries[ds.Key] = ds
	}

	entries := make([]timesheet.Entry, len(sw.entries))
	for i, e := range sw.entries {
		e.ID = h.NewID()
		e.UserID = userID
		e.WeekKey = weekKey
		e.Status = timesheet.StatusDraft
		entries[i] = e
	}
	return h.Repo.SaveEntries(ctx, timesheet.LayoutWeek(entries, summaries))
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

func hours(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func detailedEntry(day timesheet.Day, start, finish string, brk float64, activity timesheet.Activity) timesheet.Entry {
	return timesheet.Entry{
		Day:           day,
		StartTime:     start,
		FinishTime:    finish,
		BreakDuration: hours(brk),
		Activity:      activity,
		PerDiem:       timesheet.PerDiemNone,
		Mode:          timesheet.ModeDetailed,
	}
}

func hoursEntry(day timesheet.Day, h float64, activity timesheet.Activity) timesheet.Entry {
	return timesheet.Entry{
		Day:       day,
		Activity:  activity,
		PerDiem:   timesheet.PerDiemNone,
		Mode:      timesheet.ModeSimplified,
		HoursOnly: hours(h),
	}
}

func standardWeek() scenarioWeek {
	var sw scenarioWeek
	for _, day := range timesheet.Days[:5] {
		sw.entries = append(sw.entries, detailedEntry(day, "08:00", "16:00", 0.5, timesheet.ActivitySite))
	}
	return sw
}

func overtimeWeek() scenarioWeek {
	night := detailedEntry(timesheet.Thursday, "22:00", "06:30", 0.5, timesheet.ActivitySite)
	night.IsNightshift = true
	night.PerDiem = timesheet.PerDiemFull
	night.JobNo = "J-1042"

	travel := detailedEntry(timesheet.Friday, "06:00", "12:00", 0, timesheet.ActivityTravel)
	travel.PerDiem = timesheet.PerDiemHalf

	return scenarioWeek{entries: []timesheet.Entry{
		detailedEntry(timesheet.Monday, "07:00", "17:00", 0.5, timesheet.ActivitySite),  // 9.5h
		detailedEntry(timesheet.Tuesday, "06:00", "18:00", 1, timesheet.ActivitySite),   // 11h
		detailedEntry(timesheet.Wednesday, "08:00", "12:00", 0, timesheet.ActivityOffice),
		night,
		travel,
	}}
}

func simplifiedWeek() scenarioWeek {
	window := func(day timesheet.Day, start, finish string) timesheet.DaySummary {
		return timesheet.DaySummary{
			Key:    timesheet.DayKey{Day: day},
			Start:  start,
			Finish: finish,
			Break:  hours(0.5),
		}
	}
	return scenarioWeek{
		entries: []timesheet.Entry{
			hoursEntry(timesheet.Monday, 2, timesheet.ActivityTravel),
			hoursEntry(timesheet.Monday, 5, timesheet.ActivitySite),
			hoursEntry(timesheet.Tuesday, 3.5, timesheet.ActivityWorkshop),
			hoursEntry(timesheet.Tuesday, 4, timesheet.ActivitySales),
		},
		windows: []timesheet.DaySummary{
			window(timesheet.Monday, "07:00", "15:30"),
			window(timesheet.Tuesday, "08:00", "16:00"),
		},
	}
}

func conflictingWeek() scenarioWeek {
	missingFinish := detailedEntry(timesheet.Wednesday, "09:00", "", 0, timesheet.ActivityReporting)

	return scenarioWeek{entries: []timesheet.Entry{
		detailedEntry(timesheet.Monday, "08:00", "12:00", 0, timesheet.ActivitySite),
		detailedEntry(timesheet.Monday, "11:30", "15:00", 0.5, timesheet.ActivityTravel),
		detailedEntry(timesheet.Tuesday, "08:00", "16:30", 0.5, timesheet.ActivitySite),
		missingFinish,
	}}
}
