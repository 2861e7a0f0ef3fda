package ledger

import (
	"fmt"
	"strings"
	"time"
)

const (
	weekKeyPrefix = "week-"
	dateLayout    = "2006-01-02"
)

// WeekStart returns midnight on the Monday of date's week. Sundays belong to
// the week that started six days earlier.
func WeekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}

// WeekKey formats the key of the week containing date, e.g. "week-2025-11-10".
func WeekKey(date time.Time) string {
	return weekKeyPrefix + WeekStart(date).Format(dateLayout)
}

// ParseWeekKey returns the Monday encoded in key.
func ParseWeekKey(key string) (time.Time, error) {
	if !strings.HasPrefix(key, weekKeyPrefix) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	start, err := time.ParseInLocation(dateLayout, strings.TrimPrefix(key, weekKeyPrefix), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	return start, nil
}

// WeekRange returns the Monday and Sunday covered by key.
func WeekRange(key string) (start, end time.Time, err error) {
	start, err = ParseWeekKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 6), nil
}

// RangeLabel renders "2025-11-10 - 2025-11-16", or the raw key when it cannot be parsed.
func RangeLabel(key string) string {
	start, end, err := WeekRange(key)
	if err != nil {
		return key
	}
	return start.Format(dateLayout) + " - " + end.Format(dateLayout)
}
