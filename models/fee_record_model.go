package models

import (
	"time"

	"github.com/google/uuid"
)

// Fee record statuses. "paid" and "cancelled" are authoritative once set by
// the approval flow; the others are re-derived from the record's fields.
const (
	FeeStatusPending      = "pending"
	FeeStatusPaid         = "paid"
	FeeStatusOverdue      = "overdue"
	FeeStatusUnderProcess = "under_process"
	FeeStatusCancelled    = "cancelled"
)

type FeeRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID    uuid.UUID `gorm:"not null;index" json:"student_id"`
	ClassID      uuid.UUID `gorm:"not null;index" json:"class_id"`
	AcademicYear string    `gorm:"size:20;not null" json:"academic_year"`
	FeeType      string    `gorm:"size:20;not null;default:'monthly'" json:"fee_type"`

	Amount        float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	TotalAmount   float64 `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	LateFeeAmount float64 `gorm:"type:numeric(10,2);default:0" json:"late_fee_amount"`

	DueDate       time.Time  `gorm:"not null;index" json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod *string    `gorm:"size:50" json:"payment_method"`
	TransactionID *string    `gorm:"size:255;unique" json:"transaction_id"`

	Status          string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	RejectionReason *string `gorm:"type:text" json:"rejection_reason"`

	ReceiptNumber *string `gorm:"size:20;unique" json:"receipt_number"`
	ReceiptURL    *string `gorm:"size:255" json:"receipt_url"`

	ProviderOrderID   *string `gorm:"size:255;unique" json:"-"`
	MerchantRequestID *string `gorm:"size:255;unique" json:"-"`

	Student Student `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Class   Class   `gorm:"foreignkey:ClassID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open reports whether the record can still accept a payment submission.
func (r *FeeRecord) Open() bool {
	return r.Status != FeeStatusPaid && r.Status != FeeStatusCancelled
}
