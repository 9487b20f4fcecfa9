// Package store provides Repository implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	entries   map[string]timesheet.Entry
	order     []string // insertion order of entry ids
	summaries map[timesheet.DayKey]timesheet.DaySummary
}

var _ timesheet.Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries:   make(map[string]timesheet.Entry),
		summaries: make(map[timesheet.DayKey]timesheet.DaySummary),
	}
}

// SaveEntry inserts or replaces an entry. Replacing keeps the position.
func (m *Memory) SaveEntry(_ context.Context, e timesheet.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveLocked(e)
	return nil
}

// SaveEntries writes all entries under one lock.
func (m *Memory) SaveEntries(_ context.Context, entries []timesheet.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.saveLocked(e)
	}
	return nil
}

func (m *Memory) saveLocked(e timesheet.Entry) {
	if _, exists := m.entries[e.ID]; !exists {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
}

func (m *Memory) GetEntry(_ context.Context, id string) (timesheet.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return timesheet.Entry{}, timesheet.ErrEntryNotFound
	}
	return e, nil
}

func (m *Memory) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return timesheet.ErrEntryNotFound
	}
	delete(m.entries, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListWeek(_ context.Context, userID, weekKey string) ([]timesheet.Entry, error) {
	return m.filter(func(e timesheet.Entry) bool {
		return e.UserID == userID && e.WeekKey == weekKey
	}), nil
}

func (m *Memory) ListUser(_ context.Context, userID string) ([]timesheet.Entry, error) {
	return m.filter(func(e timesheet.Entry) bool { return e.UserID == userID }), nil
}

func (m *Memory) filter(keep func(timesheet.Entry) bool) []timesheet.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.Entry
	for _, id := range m.order {
		if e := m.entries[id]; keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// =============================================================================
// DAY SUMMARIES
// =============================================================================

func (m *Memory) SaveDaySummary(_ context.Context, s timesheet.DaySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[s.Key] = s
	return nil
}

func (m *Memory) GetDaySummary(_ context.Context, key timesheet.DayKey) (timesheet.DaySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.summaries[key]
	if !ok {
		return timesheet.DaySummary{}, timesheet.ErrDaySummaryNotFound
	}
	return s, nil
}

// ListDaySummaries returns a week's summaries in Monday..Sunday order.
func (m *Memory) ListDaySummaries(_ context.Context, userID, weekKey string) ([]timesheet.DaySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.DaySummary
	for _, day := range timesheet.Days {
		if s, ok := m.summaries[timesheet.DayKey{UserID: userID, WeekKey: weekKey, Day: day}]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]timesheet.Entry)
	m.order = nil
	m.summaries = make(map[timesheet.DayKey]timesheet.DaySummary)
	return nil
}
