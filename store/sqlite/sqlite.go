/*
Package sqlite provides a SQLite-backed implementation of timesheet.Repository.

PURPOSE:
  Persists timesheet entries and day summaries. Only raw input is stored;
  net hours, overtime and per-diem are recomputed by the engine on every
  read and never written here.

KEY TABLES:
  entries:       One row per timesheet entry
  day_summaries: At most one work window per (user, week, day)

ORDERING:
  entries.seq is an autoincrement column assigned on first insert. Upserts
  keep it, so an edited entry keeps its place in the day and simplified
  layout stays stable. All list queries order by seq.

DECIMALS:
  Break and hours-only values are stored as TEXT (decimal.String) so they
  round-trip exactly.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  handler := api.NewHandler(store)

SEE ALSO:
  - timesheet/store.go: Interface definition
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/timesheet"
)

// Store implements timesheet.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ timesheet.Repository = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Timesheet entries (raw input only)
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		week_key TEXT NOT NULL,
		day TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		finish_time TEXT NOT NULL DEFAULT '',
		break_duration TEXT NOT NULL DEFAULT '0',
		activity TEXT NOT NULL,
		job_no TEXT,
		is_nightshift BOOLEAN DEFAULT FALSE,
		per_diem TEXT NOT NULL DEFAULT 'none',
		notes TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		mode TEXT NOT NULL DEFAULT 'detailed',
		hours_only TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Week view (hot path)
	CREATE INDEX IF NOT EXISTS idx_entries_user_week
		ON entries(user_id, week_key, seq);

	-- Day work windows
	CREATE TABLE IF NOT EXISTS day_summaries (
		user_id TEXT NOT NULL,
		week_key TEXT NOT NULL,
		day TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		finish_time TEXT NOT NULL DEFAULT '',
		break_duration TEXT NOT NULL DEFAULT '0',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, week_key, day)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// ENTRIES
// =============================================================================

// SaveEntry inserts or replaces an entry, keeping its seq on replace.
func (s *Store) SaveEntry(ctx context.Context, e timesheet.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveEntry(ctx, s.db, e)
}

// SaveEntries writes all entries in one transaction.
func (s *Store) SaveEntries(ctx context.Context, entries []timesheet.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, e := range entries {
		if err := s.saveEntry(ctx, sqlTx, e); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

func (s *Store) saveEntry(ctx context.Context, db execer, e timesheet.Entry) error {
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO entries
		(id, user_id, week_key, day, start_time, finish_time, break_duration, activity,
		 job_no, is_nightshift, per_diem, notes, status, mode, hours_only, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			week_key = excluded.week_key,
			day = excluded.day,
			start_time = excluded.start_time,
			finish_time = excluded.finish_time,
			break_duration = excluded.break_duration,
			activity = excluded.activity,
			job_no = excluded.job_no,
			is_nightshift = excluded.is_nightshift,
			per_diem = excluded.per_diem,
			notes = excluded.notes,
			status = excluded.status,
			mode = excluded.mode,
			hours_only = excluded.hours_only,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.WeekKey,
		e.Day,
		e.StartTime,
		e.FinishTime,
		e.BreakDuration.String(),
		e.Activity,
		nullString(e.JobNo),
		e.IsNightshift,
		e.PerDiem,
		nullString(e.Notes),
		e.Status,
		e.Mode,
		e.HoursOnly.String(),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save entry %s: %w", e.ID, err)
	}
	return nil
}

// GetEntry retrieves an entry by ID.
func (s *Store) GetEntry(ctx context.Context, id string) (timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectEntries+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.Entry{}, timesheet.ErrEntryNotFound
	}
	return e, err
}

// DeleteEntry removes an entry.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timesheet.ErrEntryNotFound
	}
	return nil
}

// ListWeek returns a user's entries for one week in insertion order.
func (s *Store) ListWeek(ctx context.Context, userID, weekKey string) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, selectEntries+" WHERE user_id = ? AND week_key = ? ORDER BY seq", userID, weekKey)
}

// ListUser returns all of a user's entries.
func (s *Store) ListUser(ctx context.Context, userID string) ([]timesheet.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEntries(ctx, selectEntries+" WHERE user_id = ? ORDER BY week_key, seq", userID)
}

const selectEntries = `
	SELECT id, user_id, week_key, day, start_time, finish_time, break_duration, activity,
	       job_no, is_nightshift, per_diem, notes, status, mode, hours_only
	FROM entries`

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]timesheet.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (timesheet.Entry, error) {
	var (
		e             timesheet.Entry
		breakDuration string
		hoursOnly     string
		jobNo         sql.NullString
		notes         sql.NullString
	)

	err := row.Scan(
		&e.ID, &e.UserID, &e.WeekKey, &e.Day, &e.StartTime, &e.FinishTime,
		&breakDuration, &e.Activity, &jobNo, &e.IsNightshift, &e.PerDiem,
		&notes, &e.Status, &e.Mode, &hoursOnly,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.BreakDuration = parseDecimal(breakDuration)
	e.HoursOnly = parseDecimal(hoursOnly)
	e.JobNo = jobNo.String
	e.Notes = notes.String
	return e, nil
}

// =============================================================================
// DAY SUMMARIES
// =============================================================================

// SaveDaySummary inserts or replaces the window of one day.
func (s *Store) SaveDaySummary(ctx context.Context, ds timesheet.DaySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO day_summaries
		(user_id, week_key, day, start_time, finish_time, break_duration, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ds.Key.UserID, ds.Key.WeekKey, ds.Key.Day,
		ds.Start, ds.Finish, ds.Break.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save day summary %s: %w", ds.Key, err)
	}
	return nil
}

// GetDaySummary retrieves the window of one day.
func (s *Store) GetDaySummary(ctx context.Context, key timesheet.DayKey) (timesheet.DaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := timesheet.DaySummary{Key: key}
	var brk string
	err := s.db.QueryRowContext(ctx,
		"SELECT start_time, finish_time, break_duration FROM day_summaries WHERE user_id = ? AND week_key = ? AND day = ?",
		key.UserID, key.WeekKey, key.Day,
	).Scan(&ds.Start, &ds.Finish, &brk)

	if err == sql.ErrNoRows {
		return timesheet.DaySummary{}, timesheet.ErrDaySummaryNotFound
	}
	if err != nil {
		return timesheet.DaySummary{}, err
	}

	ds.Break = parseDecimal(brk)
	return ds, nil
}

// ListDaySummaries returns the windows of a user's week, Monday first.
func (s *Store) ListDaySummaries(ctx context.Context, userID, weekKey string) ([]timesheet.DaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT day, start_time, finish_time, break_duration FROM day_summaries WHERE user_id = ? AND week_key = ?",
		userID, weekKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[timesheet.Day]timesheet.DaySummary)
	for rows.Next() {
		ds := timesheet.DaySummary{Key: timesheet.DayKey{UserID: userID, WeekKey: weekKey}}
		var brk string
		if err := rows.Scan(&ds.Key.Day, &ds.Start, &ds.Finish, &brk); err != nil {
			return nil, err
		}
		ds.Break = parseDecimal(brk)
		byDay[ds.Key.Day] = ds
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var summaries []timesheet.DaySummary
	for _, day := range timesheet.Days {
		if ds, ok := byDay[day]; ok {
			summaries = append(summaries, ds)
		}
	}
	return summaries, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"entries", "day_summaries"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// parseDecimal reads a stored decimal; unreadable values load as zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
