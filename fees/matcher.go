package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/mkamau27/school_admin/models"
)

// SelectCurrent picks the single record to surface for the current billing
// cycle out of a student's records (pre-filtered to one student and class by
// the caller).
//
// When the class has a fee due date configured, a record due in that same
// UTC month and year wins. Otherwise the record with the latest due date
// wins. Ties break deterministically: later CreatedAt first, then greater
// id. Returns nil when there is nothing to show, which callers treat as
// "no record for this cycle" rather than an error.
func SelectCurrent(records []models.FeeRecord, classFeeDueDate *time.Time) *models.FeeRecord {
	if len(records) == 0 {
		return nil
	}

	if classFeeDueDate != nil {
		var match *models.FeeRecord
		for i := range records {
			if !sameMonthYear(records[i].DueDate, *classFeeDueDate) {
				continue
			}
			if match == nil || newerRecord(records[i], *match) {
				match = &records[i]
			}
		}
		if match != nil {
			return match
		}
	}

	latest := &records[0]
	for i := 1; i < len(records); i++ {
		switch {
		case records[i].DueDate.After(latest.DueDate):
			latest = &records[i]
		case records[i].DueDate.Equal(latest.DueDate) && newerRecord(records[i], *latest):
			latest = &records[i]
		}
	}
	return latest
}

func newerRecord(a, b models.FeeRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

// NewRecordForCycle builds the record to persist when SelectCurrent found
// nothing for the current cycle. The amount comes from the monthly
// calculator, the due date from the class's configured day-of-month placed
// in the current UTC month (clamped to the month's length).
func NewRecordForCycle(studentID, classID uuid.UUID, academicYear string, settings Settings, now time.Time) models.FeeRecord {
	settings = NormalizeSettings(settings)
	amount := MonthlyFee(settings.BaseFee)

	day := now.UTC().Day()
	if settings.FeeDueDate != nil {
		day = settings.FeeDueDate.UTC().Day()
	}
	year, month := now.UTC().Year(), now.UTC().Month()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	dueDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	return models.FeeRecord{
		StudentID:    studentID,
		ClassID:      classID,
		AcademicYear: academicYear,
		FeeType:      "monthly",
		Amount:       amount,
		TotalAmount:  amount,
		DueDate:      dueDate,
		Status:       models.FeeStatusPending,
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
