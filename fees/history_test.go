package fees

import (
	"testing"
	"time"

	"github.com/mkamau27/school_admin/models"
)

func intPtr(i int) *int { return &i }

func TestMatchesPeriod(t *testing.T) {
	ts := date(2024, 1, 15)

	tests := []struct {
		name  string
		month *int
		year  *int
		want  bool
	}{
		{"no filters match everything", nil, nil, true},
		{"month only matches", intPtr(1), nil, true},
		{"month only mismatch", intPtr(2), nil, false},
		{"year only matches", nil, intPtr(2024), true},
		{"year only mismatch", nil, intPtr(2025), false},
		{"both match", intPtr(1), intPtr(2024), true},
		{"month matches year does not", intPtr(1), intPtr(2025), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesPeriod(ts, tt.month, tt.year); got != tt.want {
				t.Errorf("MatchesPeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesPeriodUsesUTCCalendar(t *testing.T) {
	// 2024-02-01 01:00 +03:00 is still 2024-01-31 in UTC.
	eat := time.FixedZone("EAT", 3*60*60)
	ts := time.Date(2024, 2, 1, 1, 0, 0, 0, eat)

	if !MatchesPeriod(ts, intPtr(1), intPtr(2024)) {
		t.Error("expected timestamp to match January in UTC")
	}
	if MatchesPeriod(ts, intPtr(2), nil) {
		t.Error("expected timestamp not to match February in UTC")
	}
}

func TestFilterByPeriod(t *testing.T) {
	changes := []models.FeeChange{
		{Field: "base_fee", CreatedAt: date(2024, 1, 5)},
		{Field: "late_fee_per_day", CreatedAt: date(2024, 2, 5)},
		{Field: "base_fee", CreatedAt: date(2025, 1, 5)},
	}
	createdAt := func(c models.FeeChange) time.Time { return c.CreatedAt }

	if got := FilterByPeriod(changes, createdAt, intPtr(1), nil); len(got) != 2 {
		t.Errorf("month=1 filter kept %d rows, want 2", len(got))
	}
	if got := FilterByPeriod(changes, createdAt, intPtr(1), intPtr(2024)); len(got) != 1 {
		t.Errorf("month=1,year=2024 filter kept %d rows, want 1", len(got))
	}
	if got := FilterByPeriod(changes, createdAt, nil, nil); len(got) != 3 {
		t.Errorf("empty filter kept %d rows, want 3", len(got))
	}
	if got := FilterByPeriod([]models.FeeChange{}, createdAt, intPtr(1), nil); len(got) != 0 {
		t.Errorf("empty input produced %d rows, want 0", len(got))
	}
}
