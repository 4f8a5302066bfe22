package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/models"
	"gorm.io/gorm"
)

type CreateStudentRequest struct {
	FullName        string  `json:"full_name" validate:"required,min=3"`
	AdmissionNumber string  `json:"admission_number" validate:"required,min=1"`
	ClassID         *string `json:"class_id,omitempty"`
	ParentID        *string `json:"parent_id,omitempty"`
}

func CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	newStudent := models.Student{
		FullName:        req.FullName,
		AdmissionNumber: req.AdmissionNumber,
	}

	if req.ClassID != nil {
		classID, err := uuid.Parse(*req.ClassID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
		}
		var class models.Class
		if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
		}
		newStudent.ClassID = &classID
	}

	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent ID format"})
		}
		var parent models.User
		if err := database.DB.First(&parent, "id = ? AND role = ?", parentID, "parent").Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parent account not found"})
		}
		newStudent.ParentID = &parentID
	}

	if err := database.DB.Create(&newStudent).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Admission number already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}

	return c.Status(fiber.StatusCreated).JSON(newStudent)
}

func ListStudents(c *fiber.Ctx) error {
	query := database.DB.Preload("Class").Order("admission_number asc")

	if classID := c.Query("class_id"); classID != "" {
		if _, err := uuid.Parse(classID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
		}
		query = query.Where("class_id = ?", classID)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

// ListMyChildren returns the students linked to the calling parent account.
func ListMyChildren(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var students []models.Student
	if err := database.DB.Preload("Class").Where("parent_id = ?", userID).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

func UpdateStudent(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	if _, err := uuid.Parse(studentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	student.FullName = req.FullName
	student.AdmissionNumber = req.AdmissionNumber

	if req.ClassID != nil {
		classID, err := uuid.Parse(*req.ClassID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class ID format"})
		}
		student.ClassID = &classID
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parent ID format"})
		}
		student.ParentID = &parentID
	}

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}

	return c.JSON(student)
}

func DeactivateStudent(c *fiber.Ctx) error {
	studentID := c.Params("studentId")
	if _, err := uuid.Parse(studentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student ID format"})
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	student.IsActive = false
	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate student"})
	}

	return c.JSON(fiber.Map{"message": "Student deactivated"})
}
