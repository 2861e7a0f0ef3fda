package ledger

import "github.com/shopspring/decimal"

// WageRate is the pay per distance unit.
var WageRate = decimal.RequireFromString("6.66")

// Wage multiplies a week's total distance by WageRate.
func Wage(w WeekRecord) decimal.Decimal {
	return decimal.NewFromFloat(w.Total()).Mul(WageRate)
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Summary is everything the result table shows for one week.
type Summary struct {
	Week      WeekRecord
	Total     float64
	Wage      decimal.Decimal
	Bonus     int
	NextBonus int
	Income    decimal.Decimal
}

// Summarize derives the result table for draft, which sits at index in weeks
// (or -1 when it is not in the ledger). nextBonus is the persisted running bonus.
func Summarize(weeks []WeekRecord, index int, draft WeekRecord, nextBonus int) Summary {
	wage := Wage(draft)
	bonus := BonusFor(weeks, index, draft)
	return Summary{
		Week:      draft,
		Total:     draft.Total(),
		Wage:      wage,
		Bonus:     bonus,
		NextBonus: nextBonus,
		Income:    wage.Add(decimal.NewFromInt(int64(bonus))),
	}
}

// TargetNote describes whether a weekend day met the attendance target.
// Weekdays have no note.
func TargetNote(day Day, distance float64) string {
	if !day.Weekend() {
		return ""
	}
	if MeetsTarget(distance) {
		return "target met"
	}
	return "target missed"
}
