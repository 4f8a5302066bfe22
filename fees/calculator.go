// Package fees holds the fee reconciliation logic behind the fee screens:
// deriving per-cycle amounts from class settings, deriving a record's status
// from its payment evidence, and selecting the record to surface for the
// current billing cycle. Everything here is pure; persistence stays in the
// handlers and jobs.
package fees

import (
	"math"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

var cycleDivisors = map[string]int{
	"monthly":   12,
	"quarterly": 4,
	"annually":  1,
}

// MonthlyFee derives the per-month amount from a class's base fee, rounded
// half-up to two decimal places. Billing divides by 12 regardless of the
// configured fee frequency; see CycleFee for the frequency-aware amount.
func MonthlyFee(baseFee float64) float64 {
	return divide(baseFee, int64(monthsPerYear))
}

// CycleDivisor returns the number of billing cycles per year implied by a
// fee frequency. Unknown or empty frequencies count as monthly.
func CycleDivisor(frequency string) int {
	if d, ok := cycleDivisors[frequency]; ok {
		return d
	}
	return monthsPerYear
}

// CycleFee is the per-cycle amount the configured frequency implies. It is
// informational only: record generation always bills via MonthlyFee.
func CycleFee(baseFee float64, frequency string) float64 {
	return divide(baseFee, int64(CycleDivisor(frequency)))
}

func divide(amount float64, divisor int64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}
	result, _ := decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(divisor)).
		Round(2).
		Float64()
	return result
}
