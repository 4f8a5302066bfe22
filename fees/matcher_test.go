package fees

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau27/school_admin/models"
)

func record(due time.Time) models.FeeRecord {
	return models.FeeRecord{ID: uuid.New(), DueDate: due}
}

func TestSelectCurrentMatchesSettingsMonth(t *testing.T) {
	records := []models.FeeRecord{
		record(date(2024, 2, 15)),
		record(date(2024, 3, 10)),
	}
	feeDueDate := timePtr(date(2024, 3, 20))

	got := SelectCurrent(records, feeDueDate)
	if got == nil {
		t.Fatal("SelectCurrent returned nil, want March record")
	}
	if !got.DueDate.Equal(date(2024, 3, 10)) {
		t.Errorf("SelectCurrent picked record due %v, want 2024-03-10", got.DueDate)
	}
}

func TestSelectCurrentFallsBackToLatest(t *testing.T) {
	records := []models.FeeRecord{
		record(date(2024, 2, 15)),
		record(date(2024, 3, 10)),
	}

	got := SelectCurrent(records, nil)
	if got == nil {
		t.Fatal("SelectCurrent returned nil, want latest record")
	}
	if !got.DueDate.Equal(date(2024, 3, 10)) {
		t.Errorf("SelectCurrent picked record due %v, want 2024-03-10", got.DueDate)
	}
}

func TestSelectCurrentNoSettingsMonthMatch(t *testing.T) {
	// Nothing due in the settings month; latest due date wins instead.
	records := []models.FeeRecord{
		record(date(2024, 1, 10)),
		record(date(2024, 2, 10)),
	}
	feeDueDate := timePtr(date(2024, 5, 20))

	got := SelectCurrent(records, feeDueDate)
	if got == nil || !got.DueDate.Equal(date(2024, 2, 10)) {
		t.Errorf("SelectCurrent = %+v, want record due 2024-02-10", got)
	}
}

func TestSelectCurrentEmpty(t *testing.T) {
	if got := SelectCurrent(nil, nil); got != nil {
		t.Errorf("SelectCurrent(nil records) = %+v, want nil", got)
	}
	if got := SelectCurrent([]models.FeeRecord{}, timePtr(date(2024, 3, 20))); got != nil {
		t.Errorf("SelectCurrent(empty records) = %+v, want nil", got)
	}
}

func TestSelectCurrentTieBreaksOnCreatedAt(t *testing.T) {
	older := record(date(2024, 3, 10))
	older.CreatedAt = date(2024, 3, 1)
	newer := record(date(2024, 3, 10))
	newer.CreatedAt = date(2024, 3, 5)

	// Same due month as the settings date, two candidates; the later
	// CreatedAt must win regardless of slice order.
	for _, records := range [][]models.FeeRecord{{older, newer}, {newer, older}} {
		got := SelectCurrent(records, timePtr(date(2024, 3, 20)))
		if got == nil || got.ID != newer.ID {
			t.Errorf("SelectCurrent tie-break picked %+v, want the newer record", got)
		}
	}
}

func TestNewRecordForCycle(t *testing.T) {
	studentID, classID := uuid.New(), uuid.New()
	now := date(2024, 5, 3)
	settings := Settings{
		BaseFee:    1200,
		FeeDueDate: timePtr(date(2024, 4, 10)),
		Frequency:  models.FrequencyMonthly,
	}

	got := NewRecordForCycle(studentID, classID, "2024", settings, now)

	if got.Amount != 100.00 || got.TotalAmount != 100.00 {
		t.Errorf("amount = %v / total = %v, want 100.00 / 100.00", got.Amount, got.TotalAmount)
	}
	if !got.DueDate.Equal(date(2024, 5, 10)) {
		t.Errorf("due date = %v, want 2024-05-10", got.DueDate)
	}
	if got.Status != models.FeeStatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.FeeType != "monthly" || got.AcademicYear != "2024" {
		t.Errorf("fee type/year = %q/%q, want monthly/2024", got.FeeType, got.AcademicYear)
	}
	if got.StudentID != studentID || got.ClassID != classID {
		t.Error("student/class ids not carried onto the generated record")
	}
}

func TestNewRecordForCycleClampsDayToMonthLength(t *testing.T) {
	settings := Settings{BaseFee: 600, FeeDueDate: timePtr(date(2024, 1, 31))}

	got := NewRecordForCycle(uuid.New(), uuid.New(), "2024", settings, date(2024, 2, 5))
	if !got.DueDate.Equal(date(2024, 2, 29)) {
		t.Errorf("due date = %v, want clamped 2024-02-29", got.DueDate)
	}
}

func TestNewRecordForCycleNoDueDateConfigured(t *testing.T) {
	got := NewRecordForCycle(uuid.New(), uuid.New(), "2024", Settings{BaseFee: 1200}, date(2024, 5, 3))
	if !got.DueDate.Equal(date(2024, 5, 3)) {
		t.Errorf("due date = %v, want today 2024-05-03", got.DueDate)
	}
}

// Generate-then-match round trip: an empty cycle yields nil, generating a
// record makes the matcher return it, and classification agrees with the
// clock.
func TestGenerateThenMatch(t *testing.T) {
	settings := NormalizeSettings(Settings{
		BaseFee:    1200,
		FeeDueDate: timePtr(date(2024, 5, 10)),
	})

	if got := SelectCurrent(nil, settings.FeeDueDate); got != nil {
		t.Fatalf("expected no current record, got %+v", got)
	}

	generated := NewRecordForCycle(uuid.New(), uuid.New(), "2024", settings, date(2024, 5, 3))
	generated.ID = uuid.New()

	got := SelectCurrent([]models.FeeRecord{generated}, settings.FeeDueDate)
	if got == nil || got.ID != generated.ID {
		t.Fatalf("SelectCurrent after generation = %+v, want the generated record", got)
	}

	if s := EffectiveStatus(*got, date(2024, 5, 3)); s != models.FeeStatusPending {
		t.Errorf("status before due date = %q, want pending", s)
	}
	if s := EffectiveStatus(*got, date(2024, 5, 20)); s != models.FeeStatusOverdue {
		t.Errorf("status after due date = %q, want overdue", s)
	}
}
