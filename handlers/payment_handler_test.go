package handlers

import (
	"testing"
	"time"

	"github.com/mkamau27/school_admin/models"
)

func TestRevertFailedSubmission(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	method := "mpesa"
	merchantID := "MR-123"

	tests := []struct {
		name       string
		dueDate    time.Time
		wantStatus string
	}{
		{"future due date reverts to pending", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), models.FeeStatusPending},
		{"past due date reverts to overdue", time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC), models.FeeStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paymentDate := now.Add(-time.Hour)
			record := models.FeeRecord{
				DueDate:           tt.dueDate,
				PaymentDate:       &paymentDate,
				PaymentMethod:     &method,
				MerchantRequestID: &merchantID,
				Status:            models.FeeStatusUnderProcess,
			}

			revertFailedSubmission(&record, now)

			if record.PaymentDate != nil || record.PaymentMethod != nil || record.TransactionID != nil || record.MerchantRequestID != nil {
				t.Errorf("submission stamps were not fully cleared: %+v", record)
			}
			if record.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", record.Status, tt.wantStatus)
			}
		})
	}
}

func TestFeeOrderDescription(t *testing.T) {
	due := time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC)

	record := models.FeeRecord{
		DueDate: due,
		Student: models.Student{FullName: "Amina Odhiambo"},
	}
	if got, want := feeOrderDescription(record), "School fees for Amina Odhiambo, September 2025 cycle"; got != want {
		t.Errorf("feeOrderDescription() = %q, want %q", got, want)
	}

	record.Student = models.Student{}
	if got, want := feeOrderDescription(record), "School fees, September 2025 cycle"; got != want {
		t.Errorf("feeOrderDescription() without student = %q, want %q", got, want)
	}
}
