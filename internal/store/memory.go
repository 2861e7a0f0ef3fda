package store

import (
	"context"
	"sync"

	"github.com/faizmokh/gaji/internal/ledger"
)

// Memory is an in-process Store. Weeks keep their first-insertion position
// across upserts, matching the remote store.
type Memory struct {
	mu       sync.RWMutex
	weeks    []ledger.WeekRecord
	bonus    int
	hasBonus bool
}

// NewMemory returns a Memory seeded with weeks, in order.
func NewMemory(weeks ...ledger.WeekRecord) *Memory {
	m := &Memory{}
	for _, w := range weeks {
		m.upsert(w)
	}
	return m
}

// Fetch implements Store.
func (m *Memory) Fetch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	weeks := make([]ledger.WeekRecord, len(m.weeks))
	copy(weeks, m.weeks)
	return Snapshot{Weeks: weeks, Bonus: m.bonus, HasBonus: m.hasBonus}, nil
}

// SaveWeek implements Store.
func (m *Memory) SaveWeek(ctx context.Context, week ledger.WeekRecord) (ledger.WeekRecord, error) {
	if err := ctx.Err(); err != nil {
		return ledger.WeekRecord{}, err
	}
	if week.WeekID == ledger.BonusRecordID {
		return ledger.WeekRecord{}, ErrReservedWeekID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upsert(week)
	return week, nil
}

// SaveBonus implements Store.
func (m *Memory) SaveBonus(ctx context.Context, value int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bonus = value
	m.hasBonus = true
	return value, nil
}

// DeleteWeek implements Store.
func (m *Memory) DeleteWeek(ctx context.Context, weekID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.weeks {
		if w.WeekID == weekID {
			m.weeks = append(m.weeks[:i], m.weeks[i+1:]...)
			return nil
		}
	}
	return ledger.ErrWeekNotFound
}

func (m *Memory) upsert(week ledger.WeekRecord) {
	for i, w := range m.weeks {
		if w.WeekID == week.WeekID {
			m.weeks[i] = week
			return
		}
	}
	m.weeks = append(m.weeks, week)
}
