package store

import (
	"encoding/json"
	"fmt"

	"github.com/faizmokh/gaji/internal/ledger"
)

// BonusRecord is the wire form of the persisted bonus.
type BonusRecord struct {
	WeekID string `json:"weekId"`
	Value  int    `json:"value"`
}

// NewBonusRecord wraps value under the reserved key.
func NewBonusRecord(value int) BonusRecord {
	return BonusRecord{WeekID: ledger.BonusRecordID, Value: value}
}

// DeleteRequest is the body of POST /delete.
type DeleteRequest struct {
	WeekID string `json:"weekId"`
}

type recordHeader struct {
	WeekID string `json:"weekId"`
}

// Record is one decoded flat record: either a week or the bonus.
type Record struct {
	Week    ledger.WeekRecord
	Bonus   int
	IsBonus bool
}

// DecodeRecord decodes a single flat record, dispatching on weekId.
func DecodeRecord(data []byte) (Record, error) {
	var header recordHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if header.WeekID == "" {
		return Record{}, fmt.Errorf("decode record: missing weekId")
	}

	if header.WeekID == ledger.BonusRecordID {
		var bonus BonusRecord
		if err := json.Unmarshal(data, &bonus); err != nil {
			return Record{}, fmt.Errorf("decode bonus record: %w", err)
		}
		return Record{Bonus: bonus.Value, IsBonus: true}, nil
	}

	var week ledger.WeekRecord
	if err := json.Unmarshal(data, &week); err != nil {
		return Record{}, fmt.Errorf("decode week %s: %w", header.WeekID, err)
	}
	return Record{Week: week}, nil
}

// DecodeSnapshot decodes the GET /data array, splitting weeks from the bonus record.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("decode records: %w", err)
	}

	snap := Snapshot{Weeks: make([]ledger.WeekRecord, 0, len(raw))}
	for _, item := range raw {
		rec, err := DecodeRecord(item)
		if err != nil {
			return Snapshot{}, err
		}
		if rec.IsBonus {
			snap.Bonus = rec.Bonus
			snap.HasBonus = true
			continue
		}
		snap.Weeks = append(snap.Weeks, rec.Week)
	}
	return snap, nil
}

// EncodeSnapshot renders a snapshot in the GET /data array form, weeks first.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	items := make([]any, 0, len(snap.Weeks)+1)
	for _, w := range snap.Weeks {
		items = append(items, w)
	}
	if snap.HasBonus {
		items = append(items, NewBonusRecord(snap.Bonus))
	}
	return json.Marshal(items)
}
