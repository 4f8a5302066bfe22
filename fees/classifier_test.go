package fees

import (
	"testing"
	"time"

	"github.com/mkamau27/school_admin/models"
)

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	now := date(2024, 6, 1)
	paidOn := timePtr(date(2024, 5, 12))

	tests := []struct {
		name          string
		dueDate       time.Time
		paymentDate   *time.Time
		paymentMethod *string
		transactionID *string
		want          string
	}{
		{
			name:          "all payment fields present",
			dueDate:       date(2024, 7, 1),
			paymentDate:   paidOn,
			paymentMethod: strPtr("mpesa"),
			transactionID: strPtr("QKX12345"),
			want:          models.FeeStatusPaid,
		},
		{
			name:          "late payment with all fields still paid",
			dueDate:       date(2024, 1, 1),
			paymentDate:   paidOn,
			paymentMethod: strPtr("bank_transfer"),
			transactionID: strPtr("TX-991"),
			want:          models.FeeStatusPaid,
		},
		{
			name:          "payment without transaction id",
			dueDate:       date(2024, 7, 1),
			paymentDate:   paidOn,
			paymentMethod: strPtr("cash"),
			want:          models.FeeStatusUnderProcess,
		},
		{
			name:          "submission under process even when overdue",
			dueDate:       date(2024, 1, 1),
			paymentDate:   paidOn,
			paymentMethod: strPtr("cash"),
			want:          models.FeeStatusUnderProcess,
		},
		{
			name:          "transaction id alone is not payment evidence",
			dueDate:       date(2024, 1, 1),
			transactionID: strPtr("TX-1"),
			want:          models.FeeStatusOverdue,
		},
		{
			name:        "payment date alone past due",
			dueDate:     date(2024, 1, 1),
			paymentDate: paidOn,
			want:        models.FeeStatusOverdue,
		},
		{
			name:          "empty method string counts as absent",
			dueDate:       date(2024, 7, 1),
			paymentDate:   paidOn,
			paymentMethod: strPtr(""),
			want:          models.FeeStatusPending,
		},
		{
			name:    "no evidence past due",
			dueDate: date(2024, 5, 31),
			want:    models.FeeStatusOverdue,
		},
		{
			name:    "due today is pending not overdue",
			dueDate: date(2024, 6, 1),
			want:    models.FeeStatusPending,
		},
		{
			name:    "due tomorrow",
			dueDate: date(2024, 6, 2),
			want:    models.FeeStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.dueDate, tt.paymentDate, tt.paymentMethod, tt.transactionID, now)
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every present/absent combination of the three payment fields must map to
// one of the four derivable statuses, never cancelled and never a panic.
func TestClassifyTotality(t *testing.T) {
	now := date(2024, 6, 1)
	due := date(2024, 1, 1)
	paidOn := timePtr(date(2024, 5, 12))

	dates := []*time.Time{nil, paidOn}
	methods := []*string{nil, strPtr("mpesa")}
	txns := []*string{nil, strPtr("QKX1")}

	for _, d := range dates {
		for _, m := range methods {
			for _, x := range txns {
				got := Classify(due, d, m, x, now)
				switch got {
				case models.FeeStatusPaid, models.FeeStatusUnderProcess,
					models.FeeStatusOverdue, models.FeeStatusPending:
				default:
					t.Errorf("Classify returned unexpected status %q", got)
				}
			}
		}
	}
}

func TestClassifyTimezoneBoundary(t *testing.T) {
	// 2024-06-01 03:00 in UTC+3 is 2024-06-01 00:00 UTC, so a record due
	// 2024-05-31 is already overdue regardless of the local wall clock.
	nairobi := time.FixedZone("EAT", 3*60*60)
	now := time.Date(2024, 6, 1, 3, 0, 0, 0, nairobi)

	if got := Classify(date(2024, 5, 31), nil, nil, nil, now); got != models.FeeStatusOverdue {
		t.Errorf("Classify() = %q, want overdue", got)
	}
	if got := Classify(date(2024, 6, 1), nil, nil, nil, now); got != models.FeeStatusPending {
		t.Errorf("Classify() = %q, want pending", got)
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := date(2024, 6, 1)

	tests := []struct {
		name   string
		record models.FeeRecord
		want   string
	}{
		{
			name:   "persisted paid is authoritative",
			record: models.FeeRecord{Status: models.FeeStatusPaid, DueDate: date(2024, 1, 1)},
			want:   models.FeeStatusPaid,
		},
		{
			name: "persisted cancelled is authoritative",
			record: models.FeeRecord{
				Status:        models.FeeStatusCancelled,
				DueDate:       date(2024, 1, 1),
				PaymentDate:   timePtr(date(2024, 5, 12)),
				PaymentMethod: strPtr("mpesa"),
				TransactionID: strPtr("QKX1"),
			},
			want: models.FeeStatusCancelled,
		},
		{
			name:   "stale pending re-derives to overdue",
			record: models.FeeRecord{Status: models.FeeStatusPending, DueDate: date(2024, 1, 1)},
			want:   models.FeeStatusOverdue,
		},
		{
			name: "stale overdue re-derives to under_process after submission",
			record: models.FeeRecord{
				Status:        models.FeeStatusOverdue,
				DueDate:       date(2024, 1, 1),
				PaymentDate:   timePtr(date(2024, 5, 12)),
				PaymentMethod: strPtr("cash"),
			},
			want: models.FeeStatusUnderProcess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.record, now); got != tt.want {
				t.Errorf("EffectiveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
