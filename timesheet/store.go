/*
store.go - Persistence interface used by the engine's callers

PURPOSE:
  The engine itself never reads or writes storage. This interface is the
  contract between the HTTP API / CLI and whatever holds the entries, so the
  same handlers run against SQLite in production and memory in tests.

KEY RULES:
  - Entries of a day are returned in insertion order. Simplified-mode layout
    depends on that order.
  - There is at most one DaySummary per DayKey. SaveDaySummary replaces it.
  - Records are passed by value. Callers never share mutable state with a
    Repository.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - timesheet/store/memory.go: In-memory for testing

SEE ALSO:
  - api/handlers.go: Uses Repository
*/
package timesheet

import "context"

// Repository stores entries and day summaries.
type Repository interface {
	// SaveEntry inserts or replaces an entry. A replaced entry keeps its
	// position in the day.
	SaveEntry(ctx context.Context, e Entry) error

	// SaveEntries writes several entries atomically.
	SaveEntries(ctx context.Context, entries []Entry) error

	// GetEntry returns ErrEntryNotFound if the id is unknown.
	GetEntry(ctx context.Context, id string) (Entry, error)

	// DeleteEntry returns ErrEntryNotFound if the id is unknown.
	DeleteEntry(ctx context.Context, id string) error

	// ListWeek returns a user's entries for one week, in insertion order.
	ListWeek(ctx context.Context, userID, weekKey string) ([]Entry, error)

	// ListUser returns all of a user's entries.
	ListUser(ctx context.Context, userID string) ([]Entry, error)

	// SaveDaySummary inserts or replaces the summary for its key.
	SaveDaySummary(ctx context.Context, s DaySummary) error

	// GetDaySummary returns ErrDaySummaryNotFound if the day has none.
	GetDaySummary(ctx context.Context, key DayKey) (DaySummary, error)

	// ListDaySummaries returns the summaries of a user's week.
	ListDaySummaries(ctx context.Context, userID, weekKey string) ([]DaySummary, error)
}
