package jobs

import (
	"log"
	"time"

	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/fees"
	"github.com/mkamau27/school_admin/models"
	"github.com/mkamau27/school_admin/websocket"
)

// RefreshFeeStatuses re-derives the status of every open fee record and
// accrues late fees against each class's per-day penalty. Runs on a cron
// schedule so fee views stay current without client-side polling.
func RefreshFeeStatuses() {
	log.Println("Running job: RefreshFeeStatuses...")

	var records []models.FeeRecord
	err := database.DB.Preload("Class").
		Where("status NOT IN ?", []string{models.FeeStatusPaid, models.FeeStatusCancelled}).
		Find(&records).Error
	if err != nil {
		log.Printf("Error fetching open fee records: %v", err)
		return
	}

	now := time.Now()
	updated := 0

	for _, record := range records {
		settings := fees.SettingsFromClass(record.Class)

		lateFee := fees.AccruedLateFee(record.DueDate, now, settings.LateFeePerDay)
		status := fees.Classify(record.DueDate, record.PaymentDate, record.PaymentMethod, record.TransactionID, now)

		if status == record.Status && lateFee == record.LateFeeAmount {
			continue
		}

		record.Status = status
		record.LateFeeAmount = lateFee
		record.TotalAmount = record.Amount + lateFee
		if err := database.DB.Save(&record).Error; err != nil {
			log.Printf("Error updating fee record %s: %v", record.ID, err)
			continue
		}
		updated++
	}

	if updated == 0 {
		log.Println("No fee records needed refreshing.")
		return
	}

	websocket.BroadcastFeeEvent(websocket.FeeEvent{Type: websocket.EventStatusesRefreshed})
	log.Printf("Refreshed %d fee record(s).", updated)
}
