package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/mkamau27/school_admin/configs"
	"github.com/mkamau27/school_admin/database"
	"github.com/mkamau27/school_admin/models"
	"github.com/mkamau27/school_admin/notifications"
	"github.com/mkamau27/school_admin/utils"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><style>
body { font-family: Georgia, serif; margin: 40px; color: #1a1a2e; }
.header { border-bottom: 3px solid #1a1a2e; padding-bottom: 12px; }
.header h1 { margin: 0; }
table { width: 100%; margin-top: 24px; border-collapse: collapse; }
td { padding: 8px 4px; border-bottom: 1px solid #ddd; }
td.label { color: #555; width: 40%; }
.total { font-size: 1.3em; font-weight: bold; }
.footer { margin-top: 36px; font-size: 0.85em; color: #777; }
</style></head>
<body>
<div class="header">
  <h1>{{.SchoolName}}</h1>
  <p>Official Fee Receipt &mdash; {{.ReceiptNumber}}</p>
</div>
<table>
  <tr><td class="label">Student</td><td>{{.StudentName}} ({{.AdmissionNumber}})</td></tr>
  <tr><td class="label">Class</td><td>{{.ClassName}}</td></tr>
  <tr><td class="label">Academic Year</td><td>{{.AcademicYear}}</td></tr>
  <tr><td class="label">Fee Cycle Due</td><td>{{.DueDate}}</td></tr>
  <tr><td class="label">Payment Date</td><td>{{.PaymentDate}}</td></tr>
  <tr><td class="label">Payment Method</td><td>{{.PaymentMethod}}</td></tr>
  <tr><td class="label">Transaction Reference</td><td>{{.TransactionID}}</td></tr>
  <tr><td class="label">Fee Amount</td><td>{{.Amount}}</td></tr>
  <tr><td class="label">Late Fee</td><td>{{.LateFee}}</td></tr>
  <tr><td class="label total">Total Paid</td><td class="total">{{.Total}}</td></tr>
</table>
<div class="footer">Generated on {{.GeneratedOn}}. This receipt confirms payment approved by the school office.</div>
</body>
</html>`

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// GenerateFeeReceipt renders a PDF receipt for an approved fee record,
// uploads it and stamps the record with the receipt number and URL. Called
// in the background after approval; failures are logged, the approval
// itself has already committed.
func GenerateFeeReceipt(recordID uuid.UUID) {
	var record models.FeeRecord
	err := database.DB.Preload("Student").Preload("Student.Parent").Preload("Class").
		First(&record, "id = ?", recordID).Error
	if err != nil {
		log.Printf("🔥 Receipt generation: fee record %s not found: %v", recordID, err)
		return
	}

	if record.Status != models.FeeStatusPaid {
		log.Printf("Receipt generation skipped for %s: status is %s", recordID, record.Status)
		return
	}
	if record.ReceiptURL != nil {
		return
	}

	receiptNumber, err := utils.GenerateUniqueReceiptNumber(database.DB)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt number for %s: %v", recordID, err)
		return
	}

	htmlData, err := renderReceiptHTML(record, receiptNumber)
	if err != nil {
		log.Printf("🔥 Failed to render receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, record.StudentID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	record.ReceiptNumber = &receiptNumber
	record.ReceiptURL = &uploadURL
	if err := database.DB.Save(&record).Error; err != nil {
		log.Printf("🔥 Failed to save receipt URL for %s: %v", recordID, err)
		return
	}

	log.Printf("✅ Generated receipt %s for fee record %s.", receiptNumber, recordID)

	if record.Student.ParentID != nil && record.Student.Parent.Email != "" {
		emailBody := fmt.Sprintf(
			"<h1>Payment Receipt</h1><p>The fee payment for %s has been approved. Your receipt is available here: <a href='%s'>%s</a></p>",
			record.Student.FullName, uploadURL, receiptNumber,
		)
		go notifications.SendEmail(record.Student.Parent.FullName, record.Student.Parent.Email, "Your Fee Payment Receipt", emailBody)
	}
}

func renderReceiptHTML(record models.FeeRecord, receiptNumber string) (string, error) {
	schoolName := config.Config("SCHOOL_NAME")
	if schoolName == "" {
		schoolName = "School Administration"
	}

	paymentDate := "N/A"
	if record.PaymentDate != nil {
		paymentDate = record.PaymentDate.UTC().Format("January 2, 2006")
	}
	method := "N/A"
	if record.PaymentMethod != nil {
		method = *record.PaymentMethod
	}
	txn := "N/A"
	if record.TransactionID != nil {
		txn = *record.TransactionID
	}

	data := struct {
		SchoolName      string
		ReceiptNumber   string
		StudentName     string
		AdmissionNumber string
		ClassName       string
		AcademicYear    string
		DueDate         string
		PaymentDate     string
		PaymentMethod   string
		TransactionID   string
		Amount          string
		LateFee         string
		Total           string
		GeneratedOn     string
	}{
		SchoolName:      schoolName,
		ReceiptNumber:   receiptNumber,
		StudentName:     record.Student.FullName,
		AdmissionNumber: record.Student.AdmissionNumber,
		ClassName:       record.Class.Name,
		AcademicYear:    record.AcademicYear,
		DueDate:         record.DueDate.UTC().Format("January 2, 2006"),
		PaymentDate:     paymentDate,
		PaymentMethod:   method,
		TransactionID:   txn,
		Amount:          fmt.Sprintf("%.2f", record.Amount),
		LateFee:         fmt.Sprintf("%.2f", record.LateFeeAmount),
		Total:           fmt.Sprintf("%.2f", record.TotalAmount),
		GeneratedOn:     time.Now().UTC().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := receiptTmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, studentID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", studentID, uuid.New().String()),
		Folder:       "school_admin_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
