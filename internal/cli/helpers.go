package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/report"
)

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().In(time.Local)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateFlag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return parsed, nil
}

// resolveWeek accepts a week key or any YYYY-MM-DD date and returns the key of
// the week it names.
func resolveWeek(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "week-") {
		start, err := ledger.ParseWeekKey(arg)
		if err != nil {
			return "", err
		}
		return ledger.WeekKey(start), nil
	}
	date, err := resolveDate(arg)
	if err != nil {
		return "", err
	}
	return ledger.WeekKey(date), nil
}

func describeWeek(weekID string) string {
	return fmt.Sprintf("%s (%s)", weekID, ledger.RangeLabel(weekID))
}

func printWeeks(out io.Writer, weeks []ledger.WeekRecord, bonus int) {
	if len(weeks) == 0 {
		fmt.Fprintln(out, "(no weeks)")
	}
	for i, w := range weeks {
		fmt.Fprintf(out, "%d. %s  total %s  wage %s\n",
			i+1,
			describeWeek(w.WeekID),
			report.FormatDistance(w.Total()),
			ledger.FormatMoney(ledger.Wage(w)),
		)
	}
	fmt.Fprintf(out, "Next week's bonus: %d\n", bonus)
}
