package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/faizmokh/gaji/internal/ledger"
)

// WriteHistory renders the bonus history in the requested format.
func WriteHistory(w io.Writer, rows []ledger.HistoryRow, format Format) error {
	entries := historyEntries(rows)
	switch format {
	case FormatJSON:
		return writeJSON(w, entries)
	case FormatYAML:
		return writeYAML(w, entries)
	case FormatCSV:
		return writeHistoryCSV(w, entries)
	default:
		return writeHistoryTable(w, entries)
	}
}

// WriteSummary renders one week's result table in the requested format.
func WriteSummary(w io.Writer, s ledger.Summary, format Format) error {
	doc := summaryDoc(s)
	switch format {
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatYAML:
		return writeYAML(w, doc)
	case FormatCSV:
		return writeSummaryCSV(w, doc)
	default:
		return writeSummaryTable(w, doc)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func writeHistoryCSV(w io.Writer, entries []HistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"week", "week_id", "range", "sat", "sun", "bonus"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Week),
			e.WeekID,
			e.Range,
			FormatDistance(e.Sat),
			FormatDistance(e.Sun),
			strconv.Itoa(e.Bonus),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSummaryCSV(w io.Writer, doc SummaryDoc) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"item", "value", "note"}}
	for _, d := range doc.Days {
		records = append(records, []string{d.Day, FormatDistance(d.Distance), d.Note})
	}
	records = append(records,
		[]string{"total", FormatDistance(doc.Total), ""},
		[]string{"wage", doc.Wage, ""},
		[]string{"bonus", strconv.Itoa(doc.Bonus), ""},
		[]string{"next_bonus", strconv.Itoa(doc.NextBonus), ""},
		[]string{"income", doc.Income, ""},
	)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func writeHistoryTable(w io.Writer, entries []HistoryEntry) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Week", "Dates", "Sat", "Sun", "Bonus"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range entries {
		bonus := strconv.Itoa(e.Bonus)
		if e.Bonus > 0 {
			bonus = bonusColor.Sprint(bonus)
		}
		data = append(data, []string{
			"#" + strconv.Itoa(e.Week),
			e.Range,
			FormatDistance(e.Sat),
			FormatDistance(e.Sun),
			bonus,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeSummaryTable(w io.Writer, doc SummaryDoc) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Day", "Distance", "Note"})

	var data [][]string
	for _, d := range doc.Days {
		data = append(data, []string{d.Day, FormatDistance(d.Distance), colorNote(d.Note)})
	}
	data = append(data,
		[]string{"Week total", FormatDistance(doc.Total), ""},
		[]string{"Wage", doc.Wage, ""},
		[]string{"Attendance bonus", strconv.Itoa(doc.Bonus), ""},
		[]string{"Next week's bonus", strconv.Itoa(doc.NextBonus), ""},
		[]string{"Total income", doc.Income, ""},
	)

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
