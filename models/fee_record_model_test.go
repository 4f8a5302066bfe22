package models

import "testing"

func TestFeeRecordOpen(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{FeeStatusPending, true},
		{FeeStatusOverdue, true},
		{FeeStatusUnderProcess, true},
		{FeeStatusPaid, false},
		{FeeStatusCancelled, false},
	}

	for _, tt := range tests {
		record := &FeeRecord{Status: tt.status}
		if got := record.Open(); got != tt.want {
			t.Errorf("Open() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
