package handlers

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanViewStudentFees(t *testing.T) {
	parentID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name     string
		role     string
		userID   string
		parentID *uuid.UUID
		want     bool
	}{
		{"admin sees any student", "admin", otherID.String(), &parentID, true},
		{"teacher sees any student", "teacher", otherID.String(), &parentID, true},
		{"parent sees own child", "parent", parentID.String(), &parentID, true},
		{"parent denied for another child", "parent", otherID.String(), &parentID, false},
		{"parent denied when student has no parent", "parent", parentID.String(), nil, false},
		{"student role denied even for arbitrary students", "student", otherID.String(), &parentID, false},
		{"unknown role denied", "auditor", parentID.String(), &parentID, false},
		{"empty role denied", "", parentID.String(), &parentID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canViewStudentFees(tt.role, tt.userID, tt.parentID); got != tt.want {
				t.Errorf("canViewStudentFees(%q, ...) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
