package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/fees"
	"github.com/mkamau27/school_admin/models"
	"github.com/mkamau27/school_admin/websocket"
	"gorm.io/gorm"
)

// StudentFeeStatus is one row of the class fee-status screen. Status is
// "missing" when no record exists for the current cycle; the client offers
// record generation in that case instead of inventing a status.
type StudentFeeStatus struct {
	StudentID       uuid.UUID         `json:"student_id"`
	StudentName     string            `json:"student_name"`
	AdmissionNumber string            `json:"admission_number"`
	Status          string            `json:"status"`
	FeeRecord       *models.FeeRecord `json:"fee_record,omitempty"`
}

// GetClassFeeStatus reports, for every active student in a class, the fee
// record currently due and its derived status.
func GetClassFeeStatus(c *fiber.Ctx) error {
	classID := c.Params("classId")
	if _, err := uuid.Parse(classID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	var class models.Class
	if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	var students []models.Student
	err := database.DB.Where("class_id = ? AND is_active = ?", classID, true).
		Order("admission_number asc").
		Find(&students).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	var records []models.FeeRecord
	if err := database.DB.Where("class_id = ?", classID).Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch fee records"})
	}

	byStudent := make(map[uuid.UUID][]models.FeeRecord, len(students))
	for _, record := range records {
		byStudent[record.StudentID] = append(byStudent[record.StudentID], record)
	}

	settings := fees.SettingsFromClass(class)
	now := time.Now()

	statuses := make([]StudentFeeStatus, 0, len(students))
	for _, student := range students {
		row := StudentFeeStatus{
			StudentID:       student.ID,
			StudentName:     student.FullName,
			AdmissionNumber: student.AdmissionNumber,
			Status:          "missing",
		}
		if current := fees.SelectCurrent(byStudent[student.ID], settings.FeeDueDate); current != nil {
			row.Status = fees.EffectiveStatus(*current, now)
			row.FeeRecord = current
		}
		statuses = append(statuses, row)
	}

	return c.JSON(fiber.Map{
		"class_id":    class.ID,
		"monthly_fee": fees.MonthlyFee(settings.BaseFee),
		"students":    statuses,
	})
}

// GenerateFeeRecord creates the fee record for a student's current cycle
// when the matcher found none. Guarded against double generation inside the
// transaction so two open consoles cannot create the cycle twice.
func GenerateFeeRecord(c *fiber.Ctx) error {
	classID := c.Params("classId")
	studentIDStr := c.Params("studentId")
	if _, err := uuid.Parse(classID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}
	studentID, err := uuid.Parse(studentIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var class models.Class
	if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}
	var student models.Student
	if err := database.DB.First(&student, "id = ? AND class_id = ?", studentID, classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found in this class"})
	}

	settings := fees.SettingsFromClass(class)
	now := time.Now()
	newRecord := fees.NewRecordForCycle(student.ID, class.ID, class.AcademicYear, settings, now)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.FeeRecord
		if err := tx.Where("student_id = ? AND class_id = ?", student.ID, class.ID).Find(&existing).Error; err != nil {
			return err
		}
		for _, record := range existing {
			if sameCycle(record.DueDate, newRecord.DueDate) {
				return errCycleExists
			}
		}
		return tx.Create(&newRecord).Error
	})
	if err != nil {
		if errors.Is(err, errCycleExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A fee record already exists for this cycle"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate fee record"})
	}

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventRecordGenerated,
		FeeRecordID: &newRecord.ID,
		ClassID:     &class.ID,
		StudentID:   &student.ID,
		Status:      newRecord.Status,
		ParentID:    student.ParentID,
	})

	return c.Status(fiber.StatusCreated).JSON(newRecord)
}

var errCycleExists = errors.New("fee record already exists for cycle")

func sameCycle(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month()
}

// GetStudentFeeRecords lists a student's fee history, optionally filtered by
// month and year of the due date. Parents can only read their own children.
func GetStudentFeeRecords(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	if _, err := uuid.Parse(studentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	userID, _ := currentUserID(c)
	if !canViewStudentFees(currentUserRole(c), userID, student.ParentID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: Not your student"})
	}

	month, year, err := parsePeriodFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var records []models.FeeRecord
	err = database.DB.Where("student_id = ?", studentID).
		Order("due_date desc").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch fee records"})
	}

	filtered := fees.FilterByPeriod(records, func(r models.FeeRecord) time.Time { return r.DueDate }, month, year)

	now := time.Now()
	type recordWithStatus struct {
		models.FeeRecord
		EffectiveStatus string `json:"effective_status"`
	}
	response := make([]recordWithStatus, 0, len(filtered))
	for _, record := range filtered {
		response = append(response, recordWithStatus{
			FeeRecord:       record,
			EffectiveStatus: fees.EffectiveStatus(record, now),
		})
	}

	return c.JSON(response)
}

// canViewStudentFees decides who may read a student's fee history: office
// roles always, a parent only for their own child. Every other role is
// denied, including a student's own login.
func canViewStudentFees(role, userID string, parentID *uuid.UUID) bool {
	switch role {
	case "admin", "teacher":
		return true
	case "parent":
		return parentID != nil && parentID.String() == userID
	default:
		return false
	}
}

// parsePeriodFilters reads optional ?month= and ?year= query values. Absent
// values stay nil and match everything downstream.
func parsePeriodFilters(c *fiber.Ctx) (month, year *int, err error) {
	if raw := c.Query("month"); raw != "" {
		m, convErr := strconv.Atoi(raw)
		if convErr != nil || m < 1 || m > 12 {
			return nil, nil, errors.New("month must be an integer between 1 and 12")
		}
		month = &m
	}
	if raw := c.Query("year"); raw != "" {
		y, convErr := strconv.Atoi(raw)
		if convErr != nil || y < 2000 || y > 2100 {
			return nil, nil, errors.New("year must be a four-digit year")
		}
		year = &y
	}
	return month, year, nil
}
