package ledger

const (
	// QualifyingDistance is the minimum Saturday and Sunday distance for a qualifying week.
	QualifyingDistance = 5.0
	// BaseBonus is the attendance bonus floor and starting value.
	BaseBonus = 20
	// BonusStep is how far the bonus moves per week.
	BonusStep = 2
	// BonusRecordID is the reserved record key holding the persisted bonus.
	BonusRecordID = "attendanceBonus"
)

// AccruedBonus folds weeks[0:upTo] starting from BaseBonus: a qualifying week
// adds BonusStep, any other week subtracts it, and the running value never
// drops below BaseBonus.
func AccruedBonus(weeks []WeekRecord, upTo int) int {
	bonus := BaseBonus
	for i := 0; i < upTo && i < len(weeks); i++ {
		if weeks[i].Qualifies() {
			bonus += BonusStep
		} else {
			bonus -= BonusStep
		}
		bonus = ClampBonus(bonus)
	}
	return bonus
}

// BonusFor is the bonus displayed for the week at index, judged on week's own
// weekend distances. Non-qualifying weeks and weeks outside the ledger earn 0.
func BonusFor(weeks []WeekRecord, index int, week WeekRecord) int {
	if index < 0 || !week.Qualifies() {
		return 0
	}
	return AccruedBonus(weeks, index)
}

// NextBonus moves the persisted running bonus when a week's qualifying status
// flips. It returns the new value and whether anything changed.
func NextBonus(current int, wasQualifying, nowQualifying bool) (int, bool) {
	if wasQualifying == nowQualifying {
		return current, false
	}
	if nowQualifying {
		return current + BonusStep, true
	}
	return ClampBonus(current - BonusStep), true
}

// ClampBonus applies the BaseBonus floor.
func ClampBonus(bonus int) int {
	if bonus < BaseBonus {
		return BaseBonus
	}
	return bonus
}

// HistoryRow is one line of the bonus history table.
type HistoryRow struct {
	Position int
	Week     WeekRecord
	Bonus    int
}

// History evaluates BonusFor for every week in ledger order.
func History(weeks []WeekRecord) []HistoryRow {
	rows := make([]HistoryRow, 0, len(weeks))
	for i, w := range weeks {
		rows = append(rows, HistoryRow{
			Position: i + 1,
			Week:     w,
			Bonus:    BonusFor(weeks, i, w),
		})
	}
	return rows
}
