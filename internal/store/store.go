// Package store persists weeks and the running attendance bonus.
//
// The canonical backend is a remote record store reached over HTTP
// (GET /data, POST /save, POST /delete); Memory and the sqlite subpackage
// implement the same Store contract for local use and tests.
package store

import (
	"context"
	"errors"

	"github.com/faizmokh/gaji/internal/ledger"
)

// Store is the persistence contract used by the tracker. Mutating calls
// return the authoritative stored value.
type Store interface {
	Fetch(ctx context.Context) (Snapshot, error)
	SaveWeek(ctx context.Context, week ledger.WeekRecord) (ledger.WeekRecord, error)
	SaveBonus(ctx context.Context, value int) (int, error)
	DeleteWeek(ctx context.Context, weekID string) error
}

// Snapshot is the full content of a store.
type Snapshot struct {
	Weeks    []ledger.WeekRecord
	Bonus    int
	HasBonus bool
}

// CurrentBonus returns the persisted bonus, falling back to the base value.
func (s Snapshot) CurrentBonus() int {
	if !s.HasBonus {
		return ledger.BaseBonus
	}
	return ledger.ClampBonus(s.Bonus)
}

// ErrUnexpectedStatus is wrapped when the remote store answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status from record store")

// ErrReservedWeekID is returned when a week tries to use the bonus record key.
var ErrReservedWeekID = errors.New("week id is reserved")
