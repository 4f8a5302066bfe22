package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/fees"
	"github.com/mkamau27/school_admin/models"
	"github.com/mkamau27/school_admin/websocket"
	"gorm.io/gorm"
)

type CreateClassRequest struct {
	Name         string  `json:"name" validate:"required,min=1"`
	Level        string  `json:"level"`
	AcademicYear string  `json:"academic_year" validate:"required"`
	TeacherID    *string `json:"teacher_id,omitempty"`
}

type FeeSettingsRequest struct {
	BaseFee       float64 `json:"base_fee" validate:"gte=0"`
	LateFeePerDay float64 `json:"late_fee_per_day" validate:"gte=0"`
	FeeDueDate    *string `json:"fee_due_date,omitempty"`
	FeeFrequency  string  `json:"fee_frequency" validate:"required,oneof=monthly quarterly annually"`
}

func CreateClass(c *fiber.Ctx) error {
	var req CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	newClass := models.Class{
		Name:         req.Name,
		Level:        req.Level,
		AcademicYear: req.AcademicYear,
		FeeFrequency: models.FrequencyMonthly,
	}
	if req.TeacherID != nil {
		teacherID, err := uuid.Parse(*req.TeacherID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher ID format"})
		}
		newClass.TeacherID = &teacherID
	}

	if err := database.DB.Create(&newClass).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create class"})
	}

	return c.Status(fiber.StatusCreated).JSON(newClass)
}

func ListClasses(c *fiber.Ctx) error {
	var classes []models.Class
	if err := database.DB.Order("name asc").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch classes"})
	}
	return c.JSON(classes)
}

// GetClass returns a class with its normalized fee settings and the
// per-cycle amounts they imply. Billing stays monthly; the frequency-implied
// amount is surfaced so the office can see when the two disagree.
func GetClass(c *fiber.Ctx) error {
	classID := c.Params("classId")
	if _, err := uuid.Parse(classID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	var class models.Class
	if err := database.DB.Preload("Students").First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	settings := fees.SettingsFromClass(class)
	return c.JSON(fiber.Map{
		"class":         class,
		"monthly_fee":   fees.MonthlyFee(settings.BaseFee),
		"cycle_fee":     fees.CycleFee(settings.BaseFee, settings.Frequency),
		"cycle_divisor": fees.CycleDivisor(settings.Frequency),
	})
}

// UpdateFeeSettings replaces a class's fee settings, recording one audit row
// per changed field and notifying open fee views.
func UpdateFeeSettings(c *fiber.Ctx) error {
	classID := c.Params("classId")
	if _, err := uuid.Parse(classID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	var req FeeSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var dueDate *time.Time
	if req.FeeDueDate != nil && *req.FeeDueDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.FeeDueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid fee_due_date, expected YYYY-MM-DD"})
		}
		dueDate = &parsed
	}

	userIDStr, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}
	changedBy, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var class models.Class
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&class, "id = ?", classID).Error; err != nil {
			return err
		}

		changes := feeSettingChanges(class, req, dueDate, changedBy)

		class.BaseFee = req.BaseFee
		class.LateFeePerDay = req.LateFeePerDay
		class.FeeDueDate = dueDate
		class.FeeFrequency = req.FeeFrequency

		if err := tx.Save(&class).Error; err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Create(&changes).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update fee settings"})
	}

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:    websocket.EventSettingsChanged,
		ClassID: &class.ID,
	})

	return c.JSON(class)
}

func feeSettingChanges(class models.Class, req FeeSettingsRequest, dueDate *time.Time, changedBy uuid.UUID) []models.FeeChange {
	var changes []models.FeeChange

	add := func(field, oldValue, newValue string) {
		if oldValue == newValue {
			return
		}
		changes = append(changes, models.FeeChange{
			ClassID:     class.ID,
			Field:       field,
			OldValue:    oldValue,
			NewValue:    newValue,
			ChangedByID: changedBy,
		})
	}

	add("base_fee", fmt.Sprintf("%.2f", class.BaseFee), fmt.Sprintf("%.2f", req.BaseFee))
	add("late_fee_per_day", fmt.Sprintf("%.2f", class.LateFeePerDay), fmt.Sprintf("%.2f", req.LateFeePerDay))
	add("fee_frequency", class.FeeFrequency, req.FeeFrequency)

	oldDue, newDue := "", ""
	if class.FeeDueDate != nil {
		oldDue = class.FeeDueDate.UTC().Format("2006-01-02")
	}
	if dueDate != nil {
		newDue = dueDate.UTC().Format("2006-01-02")
	}
	add("fee_due_date", oldDue, newDue)

	return changes
}

// ListFeeChanges returns a class's fee-settings audit trail, optionally
// narrowed to a month and/or year.
func ListFeeChanges(c *fiber.Ctx) error {
	classID := c.Params("classId")
	if _, err := uuid.Parse(classID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	month, year, err := parsePeriodFilters(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var changes []models.FeeChange
	err = database.DB.Preload("ChangedBy").
		Where("class_id = ?", classID).
		Order("created_at desc").
		Find(&changes).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch fee changes"})
	}

	filtered := fees.FilterByPeriod(changes, func(ch models.FeeChange) time.Time { return ch.CreatedAt }, month, year)
	return c.JSON(filtered)
}

func UpdateClass(c *fiber.Ctx) error {
	classID := c.Params("classId")
	if _, err := uuid.Parse(classID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
	}

	var req CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var class models.Class
	if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	class.Name = req.Name
	class.Level = req.Level
	class.AcademicYear = req.AcademicYear
	if req.TeacherID != nil {
		teacherID, err := uuid.Parse(*req.TeacherID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher ID format"})
		}
		class.TeacherID = &teacherID
	}

	if err := database.DB.Save(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update class"})
	}

	return c.JSON(class)
}
