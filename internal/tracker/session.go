// Package tracker holds the application state behind the form: the ledger,
// the selected week, its draft distances and the persisted running bonus.
// State changes only through the action methods on Session.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/store"
)

// ErrDateRequired is returned when adding a week without choosing a date.
var ErrDateRequired = errors.New("choose a date for the new week")

// ErrNoSelection is returned by actions that need a selected week.
var ErrNoSelection = errors.New("select a week first")

// Session is the single owner of UI state. It is not safe for concurrent use;
// callers serialize actions the way UI events are serialized.
type Session struct {
	store  store.Store
	logger *slog.Logger

	ledger   *ledger.Ledger
	selected string
	draft    ledger.WeekRecord
	bonus    int
}

// SaveResult reports what Save persisted.
type SaveResult struct {
	Changed      bool
	Week         ledger.WeekRecord
	BonusChanged bool
	Bonus        int
}

// NewSession returns an empty session backed by st. Call Load to populate it.
func NewSession(st store.Store, logger *slog.Logger) *Session {
	return &Session{
		store:  st,
		logger: logging.Component(logger, logging.ComponentTracker),
		ledger: ledger.New(nil),
		bonus:  ledger.BaseBonus,
	}
}

// Load replaces local state with the store's content. The selection survives
// if the week still exists, and its stored distances replace the draft.
func (s *Session) Load(ctx context.Context) error {
	snap, err := s.store.Fetch(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "load failed", logging.FieldError, err)
		return fmt.Errorf("load weeks: %w", err)
	}

	s.ledger = ledger.New(snap.Weeks)
	s.bonus = snap.CurrentBonus()

	if s.selected != "" {
		if week, ok := s.ledger.Get(s.selected); ok {
			s.draft = week
		} else {
			s.clearSelection()
		}
	}
	s.logger.DebugContext(ctx, "loaded", "weeks", s.ledger.Len(), logging.FieldBonus, s.bonus)
	return nil
}

// Select makes weekID the current week and loads its stored distances into
// the draft. An empty id clears the selection.
func (s *Session) Select(weekID string) error {
	if weekID == "" {
		s.clearSelection()
		return nil
	}
	week, ok := s.ledger.Get(weekID)
	if !ok {
		return fmt.Errorf("%w: %s", ledger.ErrWeekNotFound, weekID)
	}
	s.selected = weekID
	s.draft = week
	return nil
}

// SetDistance edits one day of the draft. Nothing is persisted until Save.
func (s *Session) SetDistance(day ledger.Day, value float64) {
	s.draft = s.draft.WithDistance(day, value)
}

// AddWeek creates an empty week for the week containing date, saves it, and
// selects it.
func (s *Session) AddWeek(ctx context.Context, date time.Time) (ledger.WeekRecord, error) {
	if date.IsZero() {
		return ledger.WeekRecord{}, ErrDateRequired
	}
	key := ledger.WeekKey(date)
	if s.ledger.Has(key) {
		return ledger.WeekRecord{}, fmt.Errorf("%w: %s", ledger.ErrDuplicateWeek, ledger.RangeLabel(key))
	}

	saved, err := s.store.SaveWeek(ctx, ledger.NewWeek(key))
	if err != nil {
		s.logger.ErrorContext(ctx, "add week failed", logging.FieldWeekID, key, logging.FieldError, err)
		return ledger.WeekRecord{}, fmt.Errorf("add week: %w", err)
	}

	if err := s.ledger.Append(saved); err != nil {
		return ledger.WeekRecord{}, err
	}
	s.selected = saved.WeekID
	s.draft = saved
	s.logger.InfoContext(ctx, "week added", logging.FieldWeekID, saved.WeekID)
	return saved, nil
}

// DeleteSelected removes the selected week.
func (s *Session) DeleteSelected(ctx context.Context) error {
	if s.selected == "" {
		return ErrNoSelection
	}
	return s.DeleteWeek(ctx, s.selected)
}

// DeleteWeek removes weekID from the store and the ledger. Deleting the
// selected week moves the selection to the first remaining week, or clears
// it; deleting any other week leaves the selection alone.
func (s *Session) DeleteWeek(ctx context.Context, weekID string) error {
	if weekID == "" {
		return ErrNoSelection
	}
	if !s.ledger.Has(weekID) {
		return fmt.Errorf("%w: %s", ledger.ErrWeekNotFound, weekID)
	}

	if err := s.store.DeleteWeek(ctx, weekID); err != nil {
		s.logger.ErrorContext(ctx, "delete failed", logging.FieldWeekID, weekID, logging.FieldError, err)
		return fmt.Errorf("delete week: %w", err)
	}
	if _, err := s.ledger.Remove(weekID); err != nil {
		return err
	}

	if s.selected == weekID {
		if first, ok := s.ledger.First(); ok {
			s.selected = first.WeekID
			s.draft = first
		} else {
			s.clearSelection()
		}
	}
	s.logger.InfoContext(ctx, "week deleted", logging.FieldWeekID, weekID)
	return nil
}

// Save persists the draft of the selected week when it differs from the
// stored record. If the week's qualifying status flipped, the running bonus
// moves by one step and is persisted too.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	if s.selected == "" {
		return SaveResult{}, ErrNoSelection
	}
	stored, ok := s.ledger.Get(s.selected)
	if !ok {
		return SaveResult{}, fmt.Errorf("%w: %s", ledger.ErrWeekNotFound, s.selected)
	}

	draft := s.draft
	draft.WeekID = s.selected
	if draft.SameDistances(stored) {
		return SaveResult{Week: stored, Bonus: s.bonus}, nil
	}

	saved, err := s.store.SaveWeek(ctx, draft)
	if err != nil {
		s.logger.ErrorContext(ctx, "save failed", logging.FieldWeekID, draft.WeekID, logging.FieldError, err)
		return SaveResult{}, fmt.Errorf("save week: %w", err)
	}
	if err := s.ledger.Replace(saved); err != nil {
		return SaveResult{}, err
	}
	s.draft = saved
	result := SaveResult{Changed: true, Week: saved, Bonus: s.bonus}

	next, flipped := ledger.NextBonus(s.bonus, stored.Qualifies(), saved.Qualifies())
	if !flipped {
		return result, nil
	}
	value, err := s.store.SaveBonus(ctx, next)
	if err != nil {
		s.logger.ErrorContext(ctx, "bonus save failed", logging.FieldBonus, next, logging.FieldError, err)
		return result, fmt.Errorf("save bonus: %w", err)
	}
	s.bonus = ledger.ClampBonus(value)
	result.BonusChanged = true
	result.Bonus = s.bonus
	s.logger.InfoContext(ctx, "bonus moved", logging.FieldWeekID, saved.WeekID, logging.FieldBonus, s.bonus)
	return result, nil
}

// Weeks returns the ledger in order.
func (s *Session) Weeks() []ledger.WeekRecord {
	return s.ledger.Weeks()
}

// Selected returns the selected week key, or "".
func (s *Session) Selected() string {
	return s.selected
}

// Draft returns the distances being edited.
func (s *Session) Draft() ledger.WeekRecord {
	return s.draft
}

// Dirty reports whether the draft differs from the stored selected week.
func (s *Session) Dirty() bool {
	stored, ok := s.ledger.Get(s.selected)
	if !ok {
		return false
	}
	return !stored.SameDistances(s.draft)
}

// Bonus returns the persisted running bonus.
func (s *Session) Bonus() int {
	return s.bonus
}

// Summary derives the result table for the current draft.
func (s *Session) Summary() ledger.Summary {
	return ledger.Summarize(s.ledger.Weeks(), s.ledger.Index(s.selected), s.draft, s.bonus)
}

// History derives the bonus history for every stored week.
func (s *Session) History() []ledger.HistoryRow {
	return ledger.History(s.ledger.Weeks())
}

func (s *Session) clearSelection() {
	s.selected = ""
	s.draft = ledger.WeekRecord{}
}
