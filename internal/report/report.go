// Package report renders week summaries and bonus history for the terminal
// and for machine-readable output.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/faizmokh/gaji/internal/ledger"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output %q (expected table|json|csv|yaml)", value)
	}
}

var (
	metColor    = color.New(color.FgGreen)
	missedColor = color.New(color.FgYellow)
	bonusColor  = color.New(color.FgCyan, color.Bold)
)

// SetColor forces colour on or off for table output.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// HistoryEntry is the serialisable form of one history row.
type HistoryEntry struct {
	Week   int     `json:"week" yaml:"week"`
	WeekID string  `json:"weekId" yaml:"weekId"`
	Range  string  `json:"range" yaml:"range"`
	Sat    float64 `json:"sat" yaml:"sat"`
	Sun    float64 `json:"sun" yaml:"sun"`
	Bonus  int     `json:"bonus" yaml:"bonus"`
}

// SummaryDay is one day line of a summary.
type SummaryDay struct {
	Day      string  `json:"day" yaml:"day"`
	Distance float64 `json:"distance" yaml:"distance"`
	Note     string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// SummaryDoc is the serialisable form of ledger.Summary.
type SummaryDoc struct {
	WeekID    string       `json:"weekId" yaml:"weekId"`
	Range     string       `json:"range" yaml:"range"`
	Days      []SummaryDay `json:"days" yaml:"days"`
	Total     float64      `json:"total" yaml:"total"`
	Wage      string       `json:"wage" yaml:"wage"`
	Bonus     int          `json:"bonus" yaml:"bonus"`
	NextBonus int          `json:"nextBonus" yaml:"nextBonus"`
	Income    string       `json:"income" yaml:"income"`
}

func historyEntries(rows []ledger.HistoryRow) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, HistoryEntry{
			Week:   r.Position,
			WeekID: r.Week.WeekID,
			Range:  ledger.RangeLabel(r.Week.WeekID),
			Sat:    r.Week.Distance(ledger.Saturday),
			Sun:    r.Week.Distance(ledger.Sunday),
			Bonus:  r.Bonus,
		})
	}
	return out
}

func summaryDoc(s ledger.Summary) SummaryDoc {
	days := make([]SummaryDay, 0, ledger.DaysInWeek)
	for i, info := range ledger.Days {
		d := ledger.Day(i)
		days = append(days, SummaryDay{
			Day:      info.Label,
			Distance: s.Week.Distance(d),
			Note:     ledger.TargetNote(d, s.Week.Distance(d)),
		})
	}
	return SummaryDoc{
		WeekID:    s.Week.WeekID,
		Range:     ledger.RangeLabel(s.Week.WeekID),
		Days:      days,
		Total:     s.Total,
		Wage:      ledger.FormatMoney(s.Wage),
		Bonus:     s.Bonus,
		NextBonus: s.NextBonus,
		Income:    ledger.FormatMoney(s.Income),
	}
}

// FormatDistance renders a distance without trailing zeros.
func FormatDistance(v float64) string {
	return fmt.Sprintf("%g", v)
}

func colorNote(note string) string {
	switch note {
	case "target met":
		return metColor.Sprint(note)
	case "target missed":
		return missedColor.Sprint(note)
	default:
		return note
	}
}
