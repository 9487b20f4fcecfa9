/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the calculation engine and stored timesheets via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the timesheet
  package. Derived values are computed on every response and never stored.

ENDPOINTS:
  Stateless:
    POST   /api/calculate/entry          One entry -> calculation
    POST   /api/calculate/week           Entries -> calculations, summary, check
    POST   /api/layout                   Day start + entries -> laid-out entries
    GET    /api/calendar                 ISO week of ?date= (optionally ?direction=)

  Stored weeks:
    GET    /api/users/{userID}/weeks/{weekKey}              Week view
    POST   /api/users/{userID}/weeks/{weekKey}/entries      Create entry
    PUT    /api/users/{userID}/weeks/{weekKey}/days/{day}   Set day window
    POST   /api/users/{userID}/weeks/{weekKey}/lock         Submit week
    POST   /api/users/{userID}/weeks/{weekKey}/unlock       Reopen week
    PUT    /api/entries/{id}                                Update entry
    DELETE /api/entries/{id}                                Delete entry

  Reports:
    GET    /api/users/{userID}/years                        Years with data
    GET    /api/users/{userID}/years/{year}                 Year rollup
    GET    /api/users/{userID}/years/{year}/quarters/{q}    Quarter rollup

  Demo:
    GET    /api/scenarios                                   List demo weeks
    POST   /api/scenarios/load                              Replace a week with one
    POST   /api/reset                                       Clear all data

REQUEST FLOW:
  1. Validate the body against its JSON Schema
  2. Convert DTOs to engine types
  3. Call the engine and the repository
  4. Re-run the simplified layout of every touched day
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Schema violations, bad path parameters, inconsistent day windows
  - 404: Entry not found
  - 409: Week locked, or week not lockable (details list the issues)
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The user id in the path is trusted.

SEE ALSO:
  - dto.go: Request/response data structures
  - schema.go: Payload validation
  - scenarios.go: Demo weeks
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/timesheet-engine/calendar"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo    timesheet.Repository
	Schemas *Schemas

	// Overridable in tests
	Now   func() time.Time
	NewID func() string
}

// NewHandler creates a new handler with the given repository.
func NewHandler(repo timesheet.Repository) *Handler {
	return &Handler{
		Repo:    repo,
		Schemas: MustLoadSchemas(),
		Now:     time.Now,
		NewID:   func() string { return uuid.New().String() },
	}
}

// =============================================================================
// STATELESS CALCULATION
// =============================================================================

// CalculateEntry returns the derived values of one entry.
func (h *Handler) CalculateEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := decodeBody(w, r, h.Schemas.Entry, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	e, err := req.toEntry()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	if ds, ok := req.daySummary(e.DayKey()); ok {
		e = timesheet.LayoutDay(ds.Start, []timesheet.Entry{e})[0]
	}

	writeJSON(w, http.StatusOK, EntryResults([]timesheet.Entry{e})[0])
}

// CalculateWeek returns per-entry calculations, totals and the lock check
// for an ad hoc set of entries.
func (h *Handler) CalculateWeek(w http.ResponseWriter, r *http.Request) {
	var req WeekRequest
	if err := decodeBody(w, r, h.Schemas.Week, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	entries, summaries, err := entriesFromRequests(req.Entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entries", err)
		return
	}
	writeJSON(w, http.StatusOK, WeekResult(timesheet.LayoutWeek(entries, summaries)))
}

// Layout places simplified entries back to back from a day start.
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeBody(w, r, h.Schemas.Layout, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	entries, _, err := entriesFromRequests(req.Entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entries", err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResults(timesheet.LayoutDay(req.DayStart, entries)))
}

// entriesFromRequests converts request entries and reduces the day windows
// they carry to one summary per day. Entries without an id get a positional
// one so issues can refer to them.
func entriesFromRequests(reqs []EntryRequest) ([]timesheet.Entry, map[timesheet.DayKey]timesheet.DaySummary, error) {
	entries := make([]timesheet.Entry, 0, len(reqs))
	replicas := make(map[timesheet.DayKey][]timesheet.DaySummary)
	for i, req := range reqs {
		e, err := req.toEntry()
		if err != nil {
			return nil, nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("entry-%d", i+1)
		}
		if ds, ok := req.daySummary(e.DayKey()); ok {
			replicas[e.DayKey()] = append(replicas[e.DayKey()], ds)
		}
		entries = append(entries, e)
	}

	summaries := make(map[timesheet.DayKey]timesheet.DaySummary, len(replicas))
	for key, rs := range replicas {
		ds, err := timesheet.ConsistentDaySummary(rs)
		if err != nil {
			return nil, nil, err
		}
		summaries[key] = ds
	}
	return entries, summaries, nil
}

// GetCalendar describes the ISO week of ?date= (default today), moved one
// week by ?direction=prev|next.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	date := h.Now()
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
			return
		}
		date = parsed
	}
	if s := r.URL.Query().Get("direction"); s != "" {
		dir, err := calendar.ParseDirection(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid direction", err)
			return
		}
		date = calendar.NavigateWeek(date, dir)
	}

	writeJSON(w, http.StatusOK, CalendarOf(date))
}

// =============================================================================
// STORED WEEKS
// =============================================================================

// GetWeek returns a stored week with everything derived from it.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	userID, week, err := weekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return
	}

	view, err := h.weekView(r.Context(), userID, week)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateEntry stores a new draft entry in an unlocked week.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, week, err := weekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return
	}

	var req EntryRequest
	if err := decodeBody(w, r, h.Schemas.Entry, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	e, err := req.toEntry()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	e.ID = h.NewID()
	e.UserID = userID
	e.WeekKey = week.Key()

	ctx := r.Context()
	saved, err := h.saveEntry(ctx, e, req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	log.Printf("[API] Created entry %s on %s", saved.ID, saved.DayKey())
	writeJSON(w, http.StatusCreated, EntryResults([]timesheet.Entry{saved})[0])
}

// UpdateEntry replaces the fields of an entry in an unlocked week. The
// entry keeps its id, owner, week and position in the day.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, err := h.Repo.GetEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	var req EntryRequest
	if err := decodeBody(w, r, h.Schemas.Entry, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	e, err := req.toEntry()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	e.ID = existing.ID
	e.UserID = existing.UserID
	e.WeekKey = existing.WeekKey
	e.Status = existing.Status

	saved, err := h.saveEntry(ctx, e, req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if existing.Day != saved.Day {
		if err := h.relayoutDay(ctx, existing.DayKey()); err != nil {
			h.handleError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, EntryResults([]timesheet.Entry{saved})[0])
}

// DeleteEntry removes an entry from an unlocked week.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, err := h.Repo.GetEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	if err := h.ensureUnlocked(ctx, existing.UserID, existing.WeekKey); err != nil {
		h.handleError(w, err)
		return
	}

	if err := h.Repo.DeleteEntry(ctx, existing.ID); err != nil {
		h.handleError(w, err)
		return
	}
	if err := h.relayoutDay(ctx, existing.DayKey()); err != nil {
		h.handleError(w, err)
		return
	}

	log.Printf("[API] Deleted entry %s on %s", existing.ID, existing.DayKey())
	w.WriteHeader(http.StatusNoContent)
}

// PutDaySummary sets the work window of a day and re-lays its entries.
func (h *Handler) PutDaySummary(w http.ResponseWriter, r *http.Request) {
	userID, week, err := weekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return
	}
	day, err := timesheet.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day", err)
		return
	}

	var req DaySummaryRequest
	if err := decodeBody(w, r, h.Schemas.DaySummary, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	ctx := r.Context()
	if err := h.ensureUnlocked(ctx, userID, week.Key()); err != nil {
		h.handleError(w, err)
		return
	}

	key := timesheet.DayKey{UserID: userID, WeekKey: week.Key(), Day: day}
	summary := timesheet.DaySummary{Key: key, Start: req.Start, Finish: req.Finish, Break: decimalFromFloat(req.Break)}
	if err := h.Repo.SaveDaySummary(ctx, summary); err != nil {
		h.handleError(w, err)
		return
	}
	if err := h.relayoutDay(ctx, key); err != nil {
		h.handleError(w, err)
		return
	}

	view, err := h.weekView(ctx, userID, week)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// LockWeek submits a week. Weeks with validation errors or conflicts are
// refused with 409 and the list of issues.
func (h *Handler) LockWeek(w http.ResponseWriter, r *http.Request) {
	userID, week, err := weekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return
	}

	ctx := r.Context()
	entries, err := h.Repo.ListWeek(ctx, userID, week.Key())
	if err != nil {
		h.handleError(w, err)
		return
	}
	locked, err := timesheet.LockWeek(entries)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if err := h.Repo.SaveEntries(ctx, locked); err != nil {
		h.handleError(w, err)
		return
	}

	log.Printf("[API] Locked %s/%s (%d entries)", userID, week.Key(), len(locked))
	view, err := h.weekView(ctx, userID, week)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UnlockWeek reopens a submitted week for editing.
func (h *Handler) UnlockWeek(w http.ResponseWriter, r *http.Request) {
	userID, week, err := weekParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week", err)
		return
	}

	ctx := r.Context()
	entries, err := h.Repo.ListWeek(ctx, userID, week.Key())
	if err != nil {
		h.handleError(w, err)
		return
	}
	if err := h.Repo.SaveEntries(ctx, timesheet.UnlockWeek(entries)); err != nil {
		h.handleError(w, err)
		return
	}

	log.Printf("[API] Unlocked %s/%s", userID, week.Key())
	view, err := h.weekView(ctx, userID, week)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// =============================================================================
// REPORTS
// =============================================================================

// ListYears returns the years a user has entries in, plus the current year.
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	entries, err := h.Repo.ListUser(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, YearsDTO{UserID: userID, Years: timesheet.AvailableYears(entries, h.Now())})
}

// GetYear returns the weekly data points and totals of one ISO year.
func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	entries, err := h.Repo.ListUser(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(userID, year, 0, timesheet.SummarizeYear(year, entries)))
}

// GetQuarter returns the weekly data points and totals of one quarter.
func (h *Handler) GetQuarter(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	quarter, err := strconv.Atoi(chi.URLParam(r, "quarter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quarter", err)
		return
	}

	entries, err := h.Repo.ListUser(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	summary, err := timesheet.SummarizeQuarter(year, quarter, entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quarter", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(userID, year, quarter, summary))
}

// =============================================================================
// HELPERS
// =============================================================================

// saveEntry checks the week is open, stores the entry together with any day
// window it carries, and returns it as laid out.
func (h *Handler) saveEntry(ctx context.Context, e timesheet.Entry, req EntryRequest) (timesheet.Entry, error) {
	if err := h.ensureUnlocked(ctx, e.UserID, e.WeekKey); err != nil {
		return timesheet.Entry{}, err
	}
	if ds, ok := req.daySummary(e.DayKey()); ok {
		if err := h.Repo.SaveDaySummary(ctx, ds); err != nil {
			return timesheet.Entry{}, err
		}
	}
	if err := h.Repo.SaveEntry(ctx, e); err != nil {
		return timesheet.Entry{}, err
	}
	if err := h.relayoutDay(ctx, e.DayKey()); err != nil {
		return timesheet.Entry{}, err
	}
	return h.Repo.GetEntry(ctx, e.ID)
}

func (h *Handler) ensureUnlocked(ctx context.Context, userID, weekKey string) error {
	entries, err := h.Repo.ListWeek(ctx, userID, weekKey)
	if err != nil {
		return err
	}
	if timesheet.IsLocked(entries) {
		return fmt.Errorf("%s/%s: %w", userID, weekKey, timesheet.ErrWeekLocked)
	}
	return nil
}

// relayoutDay recomputes the simplified layout of one day and stores the
// entries whose times moved.
func (h *Handler) relayoutDay(ctx context.Context, key timesheet.DayKey) error {
	week, err := h.Repo.ListWeek(ctx, key.UserID, key.WeekKey)
	if err != nil {
		return err
	}
	day := timesheet.GroupByDay(week)[key.Day]
	if len(day) == 0 {
		return nil
	}

	summary, err := h.Repo.GetDaySummary(ctx, key)
	if err != nil && !errors.Is(err, timesheet.ErrDaySummaryNotFound) {
		return err
	}

	var moved []timesheet.Entry
	for i, e := range timesheet.LayoutDay(summary.Start, day) {
		if e.StartTime != day[i].StartTime || e.FinishTime != day[i].FinishTime {
			moved = append(moved, e)
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return h.Repo.SaveEntries(ctx, moved)
}

func (h *Handler) weekView(ctx context.Context, userID string, week calendar.Week) (WeekViewDTO, error) {
	entries, err := h.Repo.ListWeek(ctx, userID, week.Key())
	if err != nil {
		return WeekViewDTO{}, err
	}
	summaries, err := h.Repo.ListDaySummaries(ctx, userID, week.Key())
	if err != nil {
		return WeekViewDTO{}, err
	}
	windows := make(map[timesheet.Day]timesheet.DaySummary, len(summaries))
	for _, s := range summaries {
		windows[s.Key.Day] = s
	}

	groups := timesheet.GroupByDay(entries)
	days := make([]DayDTO, len(timesheet.Days))
	for i, day := range timesheet.Days {
		days[i] = DayDTO{
			Day:    string(day),
			Date:   week.Start().AddDate(0, 0, i).Format("2006-01-02"),
			Totals: toSummaryDTO(timesheet.SummarizeDay(groups[day])),
		}
		if s, ok := windows[day]; ok {
			days[i].Window = toDaySummaryDTO(s)
			days[i].Capacity = toCapacityDTO(timesheet.DayCapacity(s, groups[day]))
		}
	}

	start := week.Start()
	return WeekViewDTO{
		UserID:  userID,
		WeekKey: week.Key(),
		Label:   calendar.FormatDateRange(start, start.AddDate(0, 0, 6)),
		Locked:  timesheet.IsLocked(entries),
		Entries: EntryResults(entries),
		Days:    days,
		Summary: toSummaryDTO(timesheet.SummarizeWeek(entries)),
		Check:   toCheckDTO(timesheet.CheckWeek(entries)),
	}, nil
}

func weekParams(r *http.Request) (string, calendar.Week, error) {
	week, err := calendar.ParseWeekKey(chi.URLParam(r, "weekKey"))
	if err != nil {
		return "", calendar.Week{}, err
	}
	return chi.URLParam(r, "userID"), week, nil
}

func yearParam(r *http.Request) (int, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, err
	}
	if year < 1 || year > 9999 {
		return 0, fmt.Errorf("year out of range: %d", year)
	}
	return year, nil
}

// handleError maps engine and repository errors to HTTP responses.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var lockErr *timesheet.WeekLockError
	switch {
	case errors.As(err, &lockErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "Week cannot be locked",
			Code:    "week_not_lockable",
			Details: toIssueDTOs(lockErr.Issues),
		})
	case timesheet.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case timesheet.IsConflict(err):
		writeError(w, http.StatusConflict, "Week is locked", err)
	case timesheet.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		log.Printf("[API] Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	var payloadErr *PayloadError
	if errors.As(err, &payloadErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "invalid_payload",
			Details: payloadErr.Problems,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
