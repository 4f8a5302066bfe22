package models

import (
	"time"

	"github.com/google/uuid"
)

// FeeChange is an audit row recorded whenever a class's fee settings change.
type FeeChange struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ClassID     uuid.UUID `gorm:"not null;index" json:"class_id"`
	Field       string    `gorm:"size:50;not null" json:"field"`
	OldValue    string    `gorm:"size:255" json:"old_value"`
	NewValue    string    `gorm:"size:255" json:"new_value"`
	ChangedByID uuid.UUID `gorm:"not null" json:"changed_by_id"`

	Class     Class `gorm:"foreignkey:ClassID" json:"-"`
	ChangedBy User  `gorm:"foreignkey:ChangedByID" json:"changed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
