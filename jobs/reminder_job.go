package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/models"
	"github.com/mkamau27/school_admin/notifications"
)

// SendFeeReminders emails parents whose children have a fee due within the
// next three days or already overdue without a payment submission.
func SendFeeReminders() {
	log.Println("Running job: SendFeeReminders...")

	now := time.Now()
	upperBound := now.Add(72 * time.Hour)

	var dueRecords []models.FeeRecord
	err := database.DB.
		Preload("Student").
		Preload("Student.Parent").
		Where("status IN ? AND due_date <= ? AND payment_date IS NULL",
			[]string{models.FeeStatusPending, models.FeeStatusOverdue}, upperBound).
		Find(&dueRecords).Error
	if err != nil {
		log.Printf("Error checking for due fee records: %v", err)
		return
	}

	if len(dueRecords) == 0 {
		return
	}

	sent := 0
	for _, record := range dueRecords {
		if record.Student.ParentID == nil || record.Student.Parent.Email == "" {
			continue
		}

		emailSubject := "School Fee Reminder"
		emailBody := fmt.Sprintf(
			"<h1>Fee Reminder</h1><p>Hi there,</p><p>The fee of %.2f for %s is due on %s.</p><p>Please pay through the parent portal to avoid late fees.</p>",
			record.TotalAmount,
			record.Student.FullName,
			record.DueDate.UTC().Format("January 2, 2006"),
		)

		go notifications.SendEmail(record.Student.Parent.FullName, record.Student.Parent.Email, emailSubject, emailBody)
		sent++
	}

	log.Printf("Queued %d fee reminder(s).", sent)
}
