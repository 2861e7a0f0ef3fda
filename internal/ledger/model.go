package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Day indexes the seven weekday slots of a WeekRecord, Monday first.
type Day uint8

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the number of distance slots a WeekRecord carries.
const DaysInWeek = 7

// DayInfo pairs a day's wire key with its display labels.
type DayInfo struct {
	Key   string
	Label string
	Short string
}

// Days is the fixed ordered day table, indexed by Day.
var Days = [DaysInWeek]DayInfo{
	{Key: "mon", Label: "Monday", Short: "Mon"},
	{Key: "tue", Label: "Tuesday", Short: "Tue"},
	{Key: "wed", Label: "Wednesday", Short: "Wed"},
	{Key: "thu", Label: "Thursday", Short: "Thu"},
	{Key: "fri", Label: "Friday", Short: "Fri"},
	{Key: "sat", Label: "Saturday", Short: "Sat"},
	{Key: "sun", Label: "Sunday", Short: "Sun"},
}

// Key returns the wire key ("mon".."sun").
func (d Day) Key() string {
	if int(d) >= DaysInWeek {
		return ""
	}
	return Days[d].Key
}

// Label returns the full display name.
func (d Day) Label() string {
	if int(d) >= DaysInWeek {
		return ""
	}
	return Days[d].Label
}

// Weekend reports whether the day counts towards attendance.
func (d Day) Weekend() bool {
	return d == Saturday || d == Sunday
}

// ParseDay maps a wire key back to its Day.
func ParseDay(key string) (Day, bool) {
	for i, info := range Days {
		if info.Key == key {
			return Day(i), true
		}
	}
	return 0, false
}

// WeekRecord holds one week's daily distances keyed by the week's Monday.
type WeekRecord struct {
	WeekID    string
	Distances [DaysInWeek]float64
}

// NewWeek returns an empty record for the given key.
func NewWeek(weekID string) WeekRecord {
	return WeekRecord{WeekID: weekID}
}

// Distance returns the distance logged for day.
func (w WeekRecord) Distance(day Day) float64 {
	if int(day) >= DaysInWeek {
		return 0
	}
	return w.Distances[day]
}

// WithDistance returns a copy of w with day set to value. Negative values are stored as zero.
func (w WeekRecord) WithDistance(day Day, value float64) WeekRecord {
	if int(day) >= DaysInWeek {
		return w
	}
	if value < 0 {
		value = 0
	}
	w.Distances[day] = value
	return w
}

// Total sums the seven daily distances.
func (w WeekRecord) Total() float64 {
	var sum float64
	for _, d := range w.Distances {
		sum += d
	}
	return sum
}

// Qualifies reports whether both weekend days reached the attendance target.
func (w WeekRecord) Qualifies() bool {
	return MeetsTarget(w.Distances[Saturday]) && MeetsTarget(w.Distances[Sunday])
}

// MeetsTarget reports whether a single day's distance reaches the weekend target.
func MeetsTarget(distance float64) bool {
	return distance >= QualifyingDistance
}

// SameDistances reports whether two records carry identical distances.
func (w WeekRecord) SameDistances(other WeekRecord) bool {
	return w.Distances == other.Distances
}

// MarshalJSON renders the record as a flat object: weekId plus one key per day.
func (w WeekRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"weekId":`)
	id, err := json.Marshal(w.WeekID)
	if err != nil {
		return nil, err
	}
	buf.Write(id)
	for i, info := range Days {
		v, err := json.Marshal(w.Distances[i])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `,%q:`, info.Key)
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the flat object form. Missing or null days read as zero.
func (w *WeekRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var rec WeekRecord
	if id, ok := raw["weekId"]; ok {
		if err := json.Unmarshal(id, &rec.WeekID); err != nil {
			return fmt.Errorf("decode weekId: %w", err)
		}
	}
	for i, info := range Days {
		value, ok := raw[info.Key]
		if !ok || string(value) == "null" {
			continue
		}
		var d float64
		if err := json.Unmarshal(value, &d); err != nil {
			return fmt.Errorf("decode %s: %w", info.Key, err)
		}
		rec.Distances[i] = d
	}

	*w = rec
	return nil
}
