package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWageForTwentyOneUnits(t *testing.T) {
	w := NewWeek("week-2025-11-10").
		WithDistance(Monday, 10).
		WithDistance(Saturday, 6).
		WithDistance(Sunday, 5)

	assert.Equal(t, 21.0, w.Total())
	assert.True(t, Wage(w).Equal(decimal.RequireFromString("139.86")), "wage = %s", Wage(w))
	assert.Equal(t, "139.86", FormatMoney(Wage(w)))
}

func TestSummarize(t *testing.T) {
	weeks := []WeekRecord{weekend("w1", 5, 5), weekend("w2", 0, 0)}
	draft := weekend("w2", 5, 5).WithDistance(Monday, 10)

	s := Summarize(weeks, 1, draft, 24)
	assert.Equal(t, 20.0, s.Total)
	assert.Equal(t, 22, s.Bonus)
	assert.Equal(t, 24, s.NextBonus)
	assert.Equal(t, "133.20", FormatMoney(s.Wage))
	assert.Equal(t, "155.20", FormatMoney(s.Income))
}

func TestTargetNote(t *testing.T) {
	assert.Empty(t, TargetNote(Monday, 50))
	assert.Equal(t, "target met", TargetNote(Saturday, 5))
	assert.Equal(t, "target missed", TargetNote(Sunday, 4.5))
}

func TestWithDistanceRejectsNegative(t *testing.T) {
	w := NewWeek("x").WithDistance(Tuesday, -3)
	assert.Zero(t, w.Distance(Tuesday))
}

func TestLedgerAppendRejectsDuplicate(t *testing.T) {
	l := New([]WeekRecord{NewWeek("week-2025-11-03")})

	err := l.Append(NewWeek("week-2025-11-03"))
	require.ErrorIs(t, err, ErrDuplicateWeek)
	assert.Equal(t, 1, l.Len())

	require.NoError(t, l.Append(NewWeek("week-2025-11-10")))
	assert.Equal(t, 1, l.Index("week-2025-11-10"))
}

func TestLedgerKeepsInsertionOrder(t *testing.T) {
	l := New([]WeekRecord{NewWeek("week-2025-11-17"), NewWeek("week-2025-11-03"), NewWeek("week-2025-11-17")})
	require.Equal(t, 2, l.Len())

	require.NoError(t, l.Replace(weekend("week-2025-11-03", 5, 5)))
	weeks := l.Weeks()
	assert.Equal(t, "week-2025-11-17", weeks[0].WeekID)
	assert.Equal(t, "week-2025-11-03", weeks[1].WeekID)
	assert.True(t, weeks[1].Qualifies())
}

func TestLedgerRemove(t *testing.T) {
	l := New([]WeekRecord{NewWeek("a"), NewWeek("b"), NewWeek("c")})

	idx, err := l.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.False(t, l.Has("b"))

	_, err = l.Remove("b")
	assert.ErrorIs(t, err, ErrWeekNotFound)
}

func TestWeekKey(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"wednesday backs up two days", time.Date(2025, time.November, 12, 15, 30, 0, 0, time.Local), "week-2025-11-10"},
		{"sunday backs up six days", time.Date(2025, time.November, 16, 0, 0, 0, 0, time.Local), "week-2025-11-10"},
		{"monday is its own start", time.Date(2025, time.November, 10, 0, 0, 0, 0, time.Local), "week-2025-11-10"},
		{"crosses a month boundary", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local), "week-2025-02-24"},
		{"crosses a year boundary", time.Date(2027, time.January, 3, 0, 0, 0, 0, time.Local), "week-2026-12-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekKey(tt.date))
		})
	}
}

func TestWeekRange(t *testing.T) {
	start, end, err := WeekRange("week-2025-11-10")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Sunday, end.Weekday())
	assert.Equal(t, "2025-11-10 - 2025-11-16", RangeLabel("week-2025-11-10"))

	_, _, err = WeekRange("2025-11-10")
	assert.ErrorIs(t, err, ErrInvalidWeekKey)
	assert.Equal(t, "attendanceBonus", RangeLabel("attendanceBonus"))
}

func TestWeekRecordJSONIsFlat(t *testing.T) {
	w := NewWeek("week-2025-11-10").WithDistance(Monday, 10).WithDistance(Sunday, 5.5)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"weekId":"week-2025-11-10","mon":10,"tue":0,"wed":0,"thu":0,"fri":0,"sat":0,"sun":5.5}`, string(data))

	var decoded WeekRecord
	require.NoError(t, json.Unmarshal([]byte(`{"weekId":"week-2025-11-10","mon":3,"sun":null,"_id":"abc"}`), &decoded))
	assert.Equal(t, "week-2025-11-10", decoded.WeekID)
	assert.Equal(t, 3.0, decoded.Distance(Monday))
	assert.Zero(t, decoded.Distance(Sunday))
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("sat")
	require.True(t, ok)
	assert.Equal(t, Saturday, d)
	assert.Equal(t, "Saturday", d.Label())

	_, ok = ParseDay("funday")
	assert.False(t, ok)
}
