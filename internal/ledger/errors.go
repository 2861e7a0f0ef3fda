package ledger

import "errors"

// ErrDuplicateWeek is returned when a week with the same key is already in the ledger.
var ErrDuplicateWeek = errors.New("week already exists")

// ErrWeekNotFound indicates the referenced week key is not in the ledger.
var ErrWeekNotFound = errors.New("week not found")

// ErrInvalidWeekKey is returned when a key does not follow the week-YYYY-MM-DD form.
var ErrInvalidWeekKey = errors.New("invalid week key")
