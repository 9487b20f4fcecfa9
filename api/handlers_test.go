/*
handlers_test.go - Tests for API handlers

Tests for:
- Stateless calculation and layout endpoints
- Payload schema validation
- Entry lifecycle in a stored week (create, relayout, update, delete)
- Week locking and the 409 responses it produces
- Year and quarter reports
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/timesheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testServer struct {
	t      *testing.T
	router http.Handler
	repo   *store.Memory
}

func newTestServer(t *testing.T) *testServer {
	repo := store.NewMemory()
	h := NewHandler(repo)
	h.Now = func() time.Time { return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC) }
	seq := 0
	h.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return &testServer{t: t, router: NewRouter(h, nil), repo: repo}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detailedBody(day, start, finish string) map[string]any {
	return map[string]any{
		"day":            day,
		"start_time":     start,
		"finish_time":    finish,
		"break_duration": 0.5,
		"activity":       "Site",
	}
}

func simplifiedBody(day string, hours float64) map[string]any {
	return map[string]any{
		"day":        day,
		"activity":   "Site",
		"mode":       "simplified",
		"hours_only": hours,
	}
}

const weekPath = "/api/users/u1/weeks/2026-W10"

// =============================================================================
// STATELESS ENDPOINTS
// =============================================================================

func TestCalculateEntry_Overtime(t *testing.T) {
	// GIVEN: 08:00-18:00 with a half hour break
	// WHEN: Posting to /api/calculate/entry
	// THEN: 9.5h split as 7.5 base and 2.0 at 1.5x

	s := newTestServer(t)

	rec := s.do("POST", "/api/calculate/entry", detailedBody("Monday", "08:00", "18:00"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[EntryResultDTO](t, rec)
	assert.Equal(t, 9.5, res.Calculation.NetHours)
	assert.Equal(t, 7.5, res.Calculation.BaseHours)
	assert.Equal(t, 2.0, res.Calculation.Overtime15x)
	assert.Equal(t, 0.0, res.Calculation.Overtime20x)
	assert.True(t, res.Calculation.IsChargeable)
}

func TestCalculateEntry_LegacyPerDiemFields(t *testing.T) {
	s := newTestServer(t)
	body := detailedBody("Friday", "20:00", "02:00")
	body["is_overnight"] = true

	rec := s.do("POST", "/api/calculate/entry", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[EntryResultDTO](t, rec)
	assert.Equal(t, "full", res.Entry.PerDiem)
	assert.True(t, res.Entry.IsOvernight)
	assert.Equal(t, 85.0, res.Calculation.PerDiem)
	assert.False(t, res.Calculation.HasValidationError)
}

func TestCalculateEntry_DefaultBreakByActivity(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"day": "Monday", "start_time": "09:00", "finish_time": "17:00", "activity": "Office"}

	rec := s.do("POST", "/api/calculate/entry", body)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[EntryResultDTO](t, rec)
	assert.Equal(t, 0.5, res.Entry.BreakDuration)
	assert.Equal(t, 7.5, res.Calculation.NetHours)
	assert.False(t, res.Calculation.IsChargeable)
}

func TestCalculateEntry_DiagnosticIsNotAnError(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/calculate/entry", detailedBody("Monday", "17:00", "08:00"))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[EntryResultDTO](t, rec)
	assert.True(t, res.Calculation.HasValidationError)
	assert.Equal(t, "Start time is after finish time", res.Calculation.ValidationMessage)
}

func TestCalculateEntry_SchemaViolation(t *testing.T) {
	s := newTestServer(t)
	body := detailedBody("Funday", "08:00", "18:00")
	body["activity"] = "Golf"

	rec := s.do("POST", "/api/calculate/entry", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "invalid_payload", resp.Code)
	assert.NotEmpty(t, resp.Details)
}

func TestCalculateEntry_MalformedJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/calculate/entry", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateWeek_LegacyDayWindow(t *testing.T) {
	// GIVEN: Two simplified entries carrying the same replicated day window
	// WHEN: Posting the week
	// THEN: Entries are laid out from the window and totals are summed

	s := newTestServer(t)
	travel := simplifiedBody("Monday", 2)
	travel["activity"] = "Travel"
	travel["day_start"] = "08:00"
	travel["day_finish"] = "16:00"
	site := simplifiedBody("Monday", 5)
	site["day_start"] = "08:00"
	site["day_finish"] = "16:00"

	rec := s.do("POST", "/api/calculate/week", weekBody(travel, site))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[WeekResultDTO](t, rec)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "08:00", res.Entries[0].Entry.StartTime)
	assert.Equal(t, "10:00", res.Entries[0].Entry.FinishTime)
	assert.Equal(t, "10:00", res.Entries[1].Entry.StartTime)
	assert.Equal(t, "15:00", res.Entries[1].Entry.FinishTime)
	assert.Equal(t, 7.0, res.Summary.TotalNetHours)
	assert.True(t, res.Check.Lockable)
}

func TestCalculateWeek_InconsistentDayWindow(t *testing.T) {
	s := newTestServer(t)
	a := simplifiedBody("Monday", 2)
	a["day_start"] = "08:00"
	b := simplifiedBody("Monday", 2)
	b["day_start"] = "09:00"

	rec := s.do("POST", "/api/calculate/week", weekBody(a, b))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateWeek_ReportsConflicts(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/calculate/week", weekBody(
		detailedBody("Monday", "09:00", "12:00"),
		detailedBody("Monday", "11:00", "13:00"),
	))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[WeekResultDTO](t, rec)
	assert.False(t, res.Check.Lockable)
	require.Len(t, res.Check.Issues, 2)
	assert.Equal(t, "conflict", res.Check.Issues[0].Kind)
	assert.Equal(t, []string{"entry-2"}, res.Check.Issues[0].ConflictsWith)
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/layout", map[string]any{
		"day_start": "07:30",
		"entries":   []any{simplifiedBody("Tuesday", 1.5), simplifiedBody("Tuesday", 4)},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[[]EntryResultDTO](t, rec)
	require.Len(t, res, 2)
	assert.Equal(t, "09:00", res[0].Entry.FinishTime)
	assert.Equal(t, "09:00", res[1].Entry.StartTime)
	assert.Equal(t, "13:00", res[1].Entry.FinishTime)
}

func TestGetCalendar(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("GET", "/api/calendar?date=2026-01-01", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cal := decode[CalendarDTO](t, rec)
	assert.Equal(t, "2026-W01", cal.WeekKey)
	assert.Equal(t, "2025-12-29", cal.WeekStart)
	assert.Equal(t, "2026-01-04", cal.WeekEnd)
	assert.Equal(t, "2025-W52", cal.PrevWeek)
	assert.Equal(t, "2026-W02", cal.NextWeek)
	assert.Equal(t, "Dec 29 - Jan 4, 2026", cal.Label)

	rec = s.do("GET", "/api/calendar?date=2026-01-01&direction=prev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-W52", decode[CalendarDTO](t, rec).WeekKey)

	rec = s.do("GET", "/api/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-W10", decode[CalendarDTO](t, rec).WeekKey)

	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/calendar?date=01/01/2026", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/calendar?direction=up", nil).Code)
}

func weekBody(entries ...map[string]any) map[string]any {
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = e
	}
	return map[string]any{"entries": list}
}

// =============================================================================
// STORED WEEKS
// =============================================================================

func TestCreateEntry_RelayoutsDay(t *testing.T) {
	// GIVEN: A day window starting 08:00
	// WHEN: Two simplified entries are created, then the first is shortened
	// THEN: The second moves up

	s := newTestServer(t)

	rec := s.do("PUT", weekPath+"/days/Monday", map[string]any{"start": "08:00", "finish": "16:30", "break": 0.5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do("POST", weekPath+"/entries", simplifiedBody("Monday", 2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[EntryResultDTO](t, rec)
	assert.Equal(t, "id-1", first.Entry.ID)
	assert.Equal(t, "u1", first.Entry.UserID)
	assert.Equal(t, "2026-W10", first.Entry.WeekKey)
	assert.Equal(t, "08:00", first.Entry.StartTime)
	assert.Equal(t, "10:00", first.Entry.FinishTime)

	rec = s.do("POST", weekPath+"/entries", simplifiedBody("Monday", 5))
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[EntryResultDTO](t, rec)
	assert.Equal(t, "10:00", second.Entry.StartTime)
	assert.Equal(t, "15:00", second.Entry.FinishTime)

	rec = s.do("PUT", "/api/entries/id-1", simplifiedBody("Monday", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do("GET", weekPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[WeekViewDTO](t, rec)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "09:00", view.Entries[1].Entry.StartTime)
	assert.Equal(t, "14:00", view.Entries[1].Entry.FinishTime)

	monday := view.Days[0]
	assert.Equal(t, "2026-03-02", monday.Date)
	require.NotNil(t, monday.Capacity)
	assert.Equal(t, 8.0, monday.Capacity.Available)
	assert.Equal(t, 6.0, monday.Capacity.Used)
	assert.False(t, monday.Capacity.Overflow)
	assert.Equal(t, 6.0, monday.Totals.TotalNetHours)
	assert.Equal(t, "Mar 2 - 8, 2026", view.Label)
}

func TestCreateEntry_InvalidWeekKey(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", "/api/users/u1/weeks/2026-10/entries", simplifiedBody("Monday", 2))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWeek_Empty(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("GET", weekPath, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[WeekViewDTO](t, rec)
	assert.Empty(t, view.Entries)
	assert.Len(t, view.Days, 7)
	assert.False(t, view.Locked)
	assert.False(t, view.Check.Lockable)
	assert.Equal(t, 0.0, view.Summary.UtilizationPercent)
}

func TestLockWeek_BlocksEdits(t *testing.T) {
	// GIVEN: A valid week that gets locked
	// WHEN: Editing or deleting an entry
	// THEN: 409 until the week is unlocked

	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do("POST", weekPath+"/entries", detailedBody("Monday", "08:00", "16:00")).Code)

	rec := s.do("POST", weekPath+"/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[WeekViewDTO](t, rec)
	assert.True(t, view.Locked)
	assert.Equal(t, "submitted", view.Entries[0].Entry.Status)

	assert.Equal(t, http.StatusConflict, s.do("PUT", "/api/entries/id-1", detailedBody("Monday", "08:00", "17:00")).Code)
	assert.Equal(t, http.StatusConflict, s.do("DELETE", "/api/entries/id-1", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do("POST", weekPath+"/entries", detailedBody("Tuesday", "08:00", "16:00")).Code)
	assert.Equal(t, http.StatusConflict, s.do("PUT", weekPath+"/days/Monday", map[string]any{"start": "08:00", "finish": "16:00"}).Code)

	rec = s.do("POST", weekPath+"/unlock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[WeekViewDTO](t, rec).Locked)

	rec = s.do("PUT", "/api/entries/id-1", detailedBody("Monday", "08:00", "17:00"))
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[EntryResultDTO](t, rec)
	assert.Equal(t, "draft", res.Entry.Status)
	assert.Equal(t, 8.5, res.Calculation.NetHours)
}

func TestLockWeek_RefusedWithIssues(t *testing.T) {
	s := newTestServer(t)
	s.do("POST", weekPath+"/entries", detailedBody("Monday", "09:00", "12:00"))
	s.do("POST", weekPath+"/entries", detailedBody("Monday", "11:00", "13:00"))

	rec := s.do("POST", weekPath+"/lock", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Error   string     `json:"error"`
		Code    string     `json:"code"`
		Details []IssueDTO `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "week_not_lockable", resp.Code)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, []string{"id-2"}, resp.Details[0].ConflictsWith)

	// Nothing was submitted
	view := decode[WeekViewDTO](t, s.do("GET", weekPath, nil))
	assert.False(t, view.Locked)
}

func TestLockWeek_EmptyWeek(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("POST", weekPath+"/lock", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer(t)
	s.do("POST", weekPath+"/entries", detailedBody("Monday", "09:00", "12:00"))

	assert.Equal(t, http.StatusNoContent, s.do("DELETE", "/api/entries/id-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("DELETE", "/api/entries/id-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do("PUT", "/api/entries/id-1", detailedBody("Monday", "09:00", "12:00")).Code)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestReports(t *testing.T) {
	// GIVEN: 10h and 40h of site work in two Q1 weeks
	// WHEN: Reading the quarter and year
	// THEN: Utilization is 50 / 75

	s := newTestServer(t)
	s.do("POST", "/api/users/u1/weeks/2026-W02/entries", simplifiedBody("Monday", 10))
	s.do("POST", "/api/users/u1/weeks/2026-W05/entries", simplifiedBody("Monday", 40))
	s.do("POST", "/api/users/u1/weeks/2024-W30/entries", simplifiedBody("Monday", 8))

	rec := s.do("GET", "/api/users/u1/years/2026/quarters/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decode[PeriodDTO](t, rec)
	assert.Len(t, q.Weeks, 13)
	assert.Equal(t, 2, q.WeeksWorked)
	assert.Equal(t, 50.0, q.TotalNetHours)
	assert.Equal(t, 66.67, q.UtilizationPercent)

	rec = s.do("GET", "/api/users/u1/years/2026", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	y := decode[PeriodDTO](t, rec)
	assert.Len(t, y.Weeks, 53)
	assert.Equal(t, "2025-12-29", y.Weeks[0].WeekStart)

	rec = s.do("GET", "/api/users/u1/years", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2026, 2024}, decode[YearsDTO](t, rec).Years)

	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/users/u1/years/2026/quarters/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do("GET", "/api/users/u1/years/abc", nil).Code)
}
