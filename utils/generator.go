package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mkamau27/school_admin/models"
	"gorm.io/gorm"
)

const receiptSuffixLength = 6
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueReceiptNumber produces a receipt number like RCP-2024-7KQ2M9
// that no other fee record holds yet.
func GenerateUniqueReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptSuffixLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		number := fmt.Sprintf("RCP-%d-%s", time.Now().UTC().Year(), string(b))

		var record models.FeeRecord
		err := tx.Where("receipt_number = ?", number).First(&record).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
