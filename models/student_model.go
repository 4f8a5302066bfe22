package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName        string     `gorm:"size:255;not null" json:"full_name"`
	AdmissionNumber string     `gorm:"size:20;not null;unique" json:"admission_number"`
	ClassID         *uuid.UUID `json:"class_id"`
	ParentID        *uuid.UUID `json:"parent_id"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`

	Class  Class `gorm:"foreignkey:ClassID" json:"class,omitempty"`
	Parent User  `gorm:"foreignkey:ParentID" json:"parent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
