package fees

import (
	"math"
	"testing"
	"time"
)

func TestMonthlyFee(t *testing.T) {
	tests := []struct {
		name    string
		baseFee float64
		want    float64
	}{
		{"zero base fee", 0, 0},
		{"divides evenly", 1200, 100.00},
		{"rounds repeating decimal", 1000, 83.33},
		{"rounds half up", 50, 4.17},
		{"negative clamps to zero", -300, 0},
		{"NaN clamps to zero", math.NaN(), 0},
		{"large base fee", 960000, 80000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlyFee(tt.baseFee); got != tt.want {
				t.Errorf("MonthlyFee(%v) = %v, want %v", tt.baseFee, got, tt.want)
			}
		})
	}
}

func TestCycleDivisor(t *testing.T) {
	tests := []struct {
		frequency string
		want      int
	}{
		{"monthly", 12},
		{"quarterly", 4},
		{"annually", 1},
		{"", 12},
		{"weekly", 12},
	}

	for _, tt := range tests {
		if got := CycleDivisor(tt.frequency); got != tt.want {
			t.Errorf("CycleDivisor(%q) = %d, want %d", tt.frequency, got, tt.want)
		}
	}
}

func TestCycleFee(t *testing.T) {
	if got := CycleFee(1200, "quarterly"); got != 300 {
		t.Errorf("CycleFee(1200, quarterly) = %v, want 300", got)
	}
	if got := CycleFee(1200, "annually"); got != 1200 {
		t.Errorf("CycleFee(1200, annually) = %v, want 1200", got)
	}
	if got := CycleFee(1200, "monthly"); got != 100 {
		t.Errorf("CycleFee(1200, monthly) = %v, want 100", got)
	}
}

func TestAccruedLateFee(t *testing.T) {
	due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		perDay float64
		want   float64
	}{
		{"not yet due", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 5, 0},
		{"due today", time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC), 5, 0},
		{"one day late", time.Date(2024, 5, 11, 8, 0, 0, 0, time.UTC), 5, 5},
		{"ten days late", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), 5, 50},
		{"fractional per-day rounds", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), 1.105, 3.32},
		{"zero per-day", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), 0, 0},
		{"negative per-day clamps", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccruedLateFee(due, tt.now, tt.perDay); got != tt.want {
				t.Errorf("AccruedLateFee(due, %v, %v) = %v, want %v", tt.now, tt.perDay, got, tt.want)
			}
		})
	}
}
