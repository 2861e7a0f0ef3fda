package ledger

// Ledger is the insertion-ordered list of weeks. Order is significant: the
// bonus recurrence folds over positions, not calendar dates.
type Ledger struct {
	weeks []WeekRecord
}

// New builds a ledger from records in the order given. Later duplicates of a
// key are dropped.
func New(weeks []WeekRecord) *Ledger {
	l := &Ledger{weeks: make([]WeekRecord, 0, len(weeks))}
	for _, w := range weeks {
		if l.Index(w.WeekID) >= 0 {
			continue
		}
		l.weeks = append(l.weeks, w)
	}
	return l
}

// Weeks returns a copy of the records in ledger order.
func (l *Ledger) Weeks() []WeekRecord {
	if l == nil {
		return nil
	}
	out := make([]WeekRecord, len(l.weeks))
	copy(out, l.weeks)
	return out
}

// Len reports the number of weeks.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.weeks)
}

// Index returns the position of weekID, or -1.
func (l *Ledger) Index(weekID string) int {
	if l == nil {
		return -1
	}
	for i, w := range l.weeks {
		if w.WeekID == weekID {
			return i
		}
	}
	return -1
}

// Has reports whether weekID is present.
func (l *Ledger) Has(weekID string) bool {
	return l.Index(weekID) >= 0
}

// Get returns the stored record for weekID.
func (l *Ledger) Get(weekID string) (WeekRecord, bool) {
	idx := l.Index(weekID)
	if idx < 0 {
		return WeekRecord{}, false
	}
	return l.weeks[idx], true
}

// Append adds a week at the end of the ledger.
func (l *Ledger) Append(w WeekRecord) error {
	if l.Has(w.WeekID) {
		return ErrDuplicateWeek
	}
	l.weeks = append(l.weeks, w)
	return nil
}

// Replace overwrites an existing week in place, keeping its position.
func (l *Ledger) Replace(w WeekRecord) error {
	idx := l.Index(w.WeekID)
	if idx < 0 {
		return ErrWeekNotFound
	}
	l.weeks[idx] = w
	return nil
}

// Remove deletes weekID and returns the position it occupied.
func (l *Ledger) Remove(weekID string) (int, error) {
	idx := l.Index(weekID)
	if idx < 0 {
		return -1, ErrWeekNotFound
	}
	l.weeks = append(l.weeks[:idx], l.weeks[idx+1:]...)
	return idx, nil
}

// First returns the first week, if any.
func (l *Ledger) First() (WeekRecord, bool) {
	if l.Len() == 0 {
		return WeekRecord{}, false
	}
	return l.weeks[0], true
}
