package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/fees"
	"github.com/mkamau27/school_admin/models"
	"github.com/mkamau27/school_admin/notifications"
	"github.com/mkamau27/school_admin/payments"
	"github.com/mkamau27/school_admin/services"
	"github.com/mkamau27/school_admin/websocket"
	"gorm.io/gorm"
)

// SubmitFeePayment records a parent's payment claim against a fee record.
// With a transaction reference the record derives straight to paid; without
// one it goes to under_process and waits for office approval.
func SubmitFeePayment(c *fiber.Ctx) error {
	type SubmitRequest struct {
		PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash bank_transfer cheque mpesa"`
		TransactionID *string `json:"transaction_id,omitempty"`
	}

	record, parent, status := loadParentRecord(c)
	if status != 0 {
		return recordAccessError(c, status)
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if !record.Open() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Fee record is already %s", record.Status)})
	}
	if record.PaymentDate != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A payment has already been submitted for this record"})
	}

	now := time.Now()
	record.PaymentDate = &now
	record.PaymentMethod = &req.PaymentMethod
	if req.TransactionID != nil && *req.TransactionID != "" {
		record.TransactionID = req.TransactionID
	}
	record.Status = fees.Classify(record.DueDate, record.PaymentDate, record.PaymentMethod, record.TransactionID, now)

	if err := database.DB.Save(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	if record.Status == models.FeeStatusPaid {
		go services.GenerateFeeReceipt(record.ID)
	}

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventPaymentSubmitted,
		FeeRecordID: &record.ID,
		ClassID:     &record.ClassID,
		StudentID:   &record.StudentID,
		Status:      record.Status,
		ParentID:    &parent,
	})

	return c.JSON(record)
}

// InitiateMpesaPayment pushes an STK prompt for the record's outstanding
// total. The record is stamped as a submission in flight; the webhook
// completes or reverts it.
func InitiateMpesaPayment(c *fiber.Ctx) error {
	type MpesaRequest struct {
		PhoneNumber string `json:"phone_number" validate:"required"`
	}

	record, parent, status := loadParentRecord(c)
	if status != 0 {
		return recordAccessError(c, status)
	}

	var req MpesaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if !record.Open() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Fee record is already %s", record.Status)})
	}

	stkResponse, err := payments.InitiateMpesaSTKPush(record.TotalAmount, req.PhoneNumber, record.ID.String())
	if err != nil {
		log.Printf("🔥 STK push failed for fee record %s: %v", record.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	method := "mpesa"
	record.PaymentDate = &now
	record.PaymentMethod = &method
	record.MerchantRequestID = &stkResponse.Response.MerchantRequestID
	record.Status = models.FeeStatusUnderProcess

	if err := database.DB.Save(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update fee record"})
	}

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventPaymentSubmitted,
		FeeRecordID: &record.ID,
		ClassID:     &record.ClassID,
		StudentID:   &record.StudentID,
		Status:      record.Status,
		ParentID:    &parent,
	})

	return c.JSON(fiber.Map{
		"message":             stkResponse.Response.CustomerMessage,
		"merchant_request_id": stkResponse.Response.MerchantRequestID,
	})
}

type KcbWebhookPayload struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
			Reference string `json:"Reference"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// HandlePaymentWebhook finalizes an M-Pesa payment. The fee record id rides
// in the invoice reference; a success stamps the M-Pesa receipt as the
// transaction id, a failure reverts the submission stamps so the record
// re-derives to pending or overdue.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	var payload KcbWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	stk := payload.Body.StkCallback

	var recordRefID string
	parts := strings.Split(stk.Reference, "-")
	if len(parts) == 2 {
		recordRefID = parts[1]
	} else {
		recordRefID = stk.Reference
	}

	log.Printf("Received webhook for MerchantRequestID: %s, FeeRecordID: %s, ResultCode: %d",
		stk.MerchantRequestID, recordRefID, stk.ResultCode)

	var record models.FeeRecord
	if err := database.DB.Preload("Student").Where("id = ?", recordRefID).First(&record).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fee record not found"})
	}

	if record.Status == models.FeeStatusPaid {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	if stk.ResultCode != 0 {
		revertFailedSubmission(&record, time.Now())
		if err := database.DB.Save(&record).Error; err != nil {
			log.Printf("🔥 CRITICAL: Failed to revert fee record %s after declined payment: %v", record.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Acknowledged failed payment"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var mpesaReceipt string
		for _, item := range stk.CallbackMetadata.Item {
			if item.Name == "MpesaReceiptNumber" {
				if val, ok := item.Value.(string); ok {
					mpesaReceipt = val
					break
				}
			}
		}
		if mpesaReceipt == "" {
			return errors.New("webhook success without MpesaReceiptNumber")
		}

		record.Status = models.FeeStatusPaid
		record.TransactionID = &mpesaReceipt
		record.MerchantRequestID = &stk.MerchantRequestID
		return tx.Save(&record).Error
	})
	if err != nil {
		log.Printf("🔥 CRITICAL: Error processing successful webhook for fee record %s: %v", recordRefID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	go services.GenerateFeeReceipt(record.ID)

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventPaymentApproved,
		FeeRecordID: &record.ID,
		ClassID:     &record.ClassID,
		StudentID:   &record.StudentID,
		Status:      record.Status,
		ParentID:    record.Student.ParentID,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}

func CreatePayPalOrderHandler(c *fiber.Ctx) error {
	record, _, status := loadParentRecord(c)
	if status != 0 {
		return recordAccessError(c, status)
	}

	if !record.Open() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Fee record is already %s", record.Status)})
	}

	order, err := payments.CreatePayPalOrder(record.TotalAmount, "USD", record.ID.String(), feeOrderDescription(record))
	if err != nil {
		log.Printf("🔥 PayPal CreateOrder API call failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create PayPal order"})
	}

	record.ProviderOrderID = &order.ID
	if err := database.DB.Save(&record).Error; err != nil {
		log.Printf("🔥 Failed to save ProviderOrderID: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update fee record"})
	}

	return c.JSON(fiber.Map{"orderID": order.ID})
}

func CapturePayPalOrderHandler(c *fiber.Ctx) error {
	type CaptureRequest struct {
		OrderID string `json:"orderID" validate:"required"`
	}
	var req CaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var record models.FeeRecord
	if err := database.DB.Preload("Student").Where("provider_order_id = ?", req.OrderID).First(&record).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fee record not found for this order"})
	}

	capturedOrder, err := payments.CapturePayPalOrder(req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if capturedOrder.Status != "COMPLETED" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order not completed on PayPal's end"})
	}

	now := time.Now()
	method := "paypal"
	record.PaymentDate = &now
	record.PaymentMethod = &method
	record.TransactionID = &capturedOrder.ID
	record.Status = models.FeeStatusPaid

	if err := database.DB.Save(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to finalize payment"})
	}

	go services.GenerateFeeReceipt(record.ID)

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventPaymentApproved,
		FeeRecordID: &record.ID,
		ClassID:     &record.ClassID,
		StudentID:   &record.StudentID,
		Status:      record.Status,
		ParentID:    record.Student.ParentID,
	})

	return c.JSON(fiber.Map{"status": "success", "message": "Payment captured and fee settled"})
}

// ListPendingApprovals returns the submissions waiting for office review.
func ListPendingApprovals(c *fiber.Ctx) error {
	var records []models.FeeRecord
	err := database.DB.Preload("Student").
		Where("status = ?", models.FeeStatusUnderProcess).
		Order("payment_date asc").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch pending approvals"})
	}
	return c.JSON(records)
}

// ApproveFeePayment marks a submitted payment as settled. Approval is the
// only path to "paid" for submissions lacking a gateway transaction id.
func ApproveFeePayment(c *fiber.Ctx) error {
	recordID := c.Params("recordId")
	if _, err := uuid.Parse(recordID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID format"})
	}

	var record models.FeeRecord
	if err := database.DB.Preload("Student").Preload("Student.Parent").First(&record, "id = ?", recordID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fee record not found"})
	}

	if record.Status != models.FeeStatusUnderProcess {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only submissions under process can be approved"})
	}

	record.Status = models.FeeStatusPaid
	record.RejectionReason = nil
	if record.PaymentDate == nil {
		now := time.Now()
		record.PaymentDate = &now
	}

	if err := database.DB.Save(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to approve payment"})
	}

	go services.GenerateFeeReceipt(record.ID)

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventPaymentApproved,
		FeeRecordID: &record.ID,
		ClassID:     &record.ClassID,
		StudentID:   &record.StudentID,
		Status:      record.Status,
		ParentID:    record.Student.ParentID,
	})

	return c.JSON(record)
}

// RejectFeePayment cancels a submitted payment with a reason. This is the
// only way a record reaches "cancelled".
func RejectFeePayment(c *fiber.Ctx) error {
	type RejectRequest struct {
		RejectionReason string `json:"rejection_reason" validate:"required,min=3"`
	}

	recordID := c.Params("recordId")
	if _, err := uuid.Parse(recordID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID format"})
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var record models.FeeRecord
	if err := database.DB.Preload("Student").Preload("Student.Parent").First(&record, "id = ?", recordID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fee record not found"})
	}

	if record.Status != models.FeeStatusUnderProcess {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only submissions under process can be rejected"})
	}

	record.Status = models.FeeStatusCancelled
	record.RejectionReason = &req.RejectionReason

	if err := database.DB.Save(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject payment"})
	}

	if record.Student.ParentID != nil && record.Student.Parent.Email != "" {
		go notifications.SendEmail(
			record.Student.Parent.FullName,
			record.Student.Parent.Email,
			"Fee Payment Rejected",
			fmt.Sprintf("<h1>Payment Rejected</h1><p>The payment submitted for %s was rejected: %s</p><p>Please contact the school office.</p>", record.Student.FullName, req.RejectionReason),
		)
	}

	websocket.BroadcastFeeEvent(websocket.FeeEvent{
		Type:        websocket.EventPaymentRejected,
		FeeRecordID: &record.ID,
		ClassID:     &record.ClassID,
		StudentID:   &record.StudentID,
		Status:      record.Status,
		ParentID:    record.Student.ParentID,
	})

	return c.JSON(record)
}

// feeOrderDescription labels a gateway order with the student and billing
// cycle it settles.
func feeOrderDescription(record models.FeeRecord) string {
	cycle := record.DueDate.UTC().Format("January 2006")
	if record.Student.FullName == "" {
		return fmt.Sprintf("School fees, %s cycle", cycle)
	}
	return fmt.Sprintf("School fees for %s, %s cycle", record.Student.FullName, cycle)
}

// revertFailedSubmission clears the in-flight payment stamps so the record
// re-derives to pending or overdue from its due date alone.
func revertFailedSubmission(record *models.FeeRecord, now time.Time) {
	record.PaymentDate = nil
	record.PaymentMethod = nil
	record.TransactionID = nil
	record.MerchantRequestID = nil
	record.Status = fees.Classify(record.DueDate, nil, nil, nil, now)
}

// loadParentRecord fetches the fee record in :recordId and verifies the
// caller is the parent of the student it bills. Returns a non-zero HTTP
// status on failure.
func loadParentRecord(c *fiber.Ctx) (models.FeeRecord, uuid.UUID, int) {
	var record models.FeeRecord

	recordID := c.Params("recordId")
	if _, err := uuid.Parse(recordID); err != nil {
		return record, uuid.Nil, fiber.StatusBadRequest
	}

	userIDStr, err := currentUserID(c)
	if err != nil {
		return record, uuid.Nil, fiber.StatusUnauthorized
	}
	parentID, err := uuid.Parse(userIDStr)
	if err != nil {
		return record, uuid.Nil, fiber.StatusUnauthorized
	}

	if err := database.DB.Preload("Student").First(&record, "id = ?", recordID).Error; err != nil {
		return record, uuid.Nil, fiber.StatusNotFound
	}

	if record.Student.ParentID == nil || *record.Student.ParentID != parentID {
		return record, uuid.Nil, fiber.StatusForbidden
	}

	return record, parentID, 0
}

func recordAccessError(c *fiber.Ctx, status int) error {
	messages := map[int]string{
		fiber.StatusBadRequest:   "Invalid record ID format",
		fiber.StatusUnauthorized: "Invalid session",
		fiber.StatusNotFound:     "Fee record not found",
		fiber.StatusForbidden:    "Forbidden: Not your student's fee record",
	}
	return c.Status(status).JSON(fiber.Map{"error": messages[status]})
}
