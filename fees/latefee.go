package fees

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// LateFeeDays counts whole calendar days (UTC) the record is past due.
// Zero when the due date is today or in the future.
func LateFeeDays(dueDate, now time.Time) int {
	days := int(dateOnly(now).Sub(dateOnly(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AccruedLateFee is the penalty owed on an unpaid record: days past due
// times the class's per-day late fee, rounded half-up to two decimals.
func AccruedLateFee(dueDate, now time.Time, perDay float64) float64 {
	if math.IsNaN(perDay) || math.IsInf(perDay, 0) || perDay < 0 {
		perDay = 0
	}
	days := LateFeeDays(dueDate, now)
	if days == 0 || perDay == 0 {
		return 0
	}
	result, _ := decimal.NewFromFloat(perDay).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2).
		Float64()
	return result
}
