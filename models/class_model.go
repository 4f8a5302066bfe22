package models

import (
	"time"

	"github.com/google/uuid"
)

// Fee frequency values accepted on a class's fee settings. Billing is
// monthly regardless; the frequency is kept so settings screens can show
// the per-cycle amount it implies.
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
)

type Class struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Level        string     `gorm:"size:50" json:"level"`
	AcademicYear string     `gorm:"size:20;not null" json:"academic_year"`
	TeacherID    *uuid.UUID `json:"teacher_id"`

	BaseFee       float64    `gorm:"type:numeric(10,2);default:0" json:"base_fee"`
	LateFeePerDay float64    `gorm:"type:numeric(10,2);default:0" json:"late_fee_per_day"`
	FeeDueDate    *time.Time `json:"fee_due_date"`
	FeeFrequency  string     `gorm:"size:20;default:'monthly'" json:"fee_frequency"`

	Teacher  User      `gorm:"foreignkey:TeacherID" json:"-"`
	Students []Student `gorm:"foreignkey:ClassID" json:"students,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
