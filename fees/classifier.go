package fees

import (
	"time"

	"github.com/mkamau27/school_admin/models"
)

// Classify derives a fee record's status from its payment evidence and due
// date. Rules are checked in order, first match wins:
//
//  1. payment date, method and transaction id all present -> paid
//  2. payment date and method present (no transaction id) -> under_process
//  3. due date strictly before today's UTC calendar date  -> overdue
//  4. otherwise                                           -> pending
//
// "cancelled" is never derived here. It is set only by an admin rejecting a
// payment submission.
func Classify(dueDate time.Time, paymentDate *time.Time, paymentMethod, transactionID *string, now time.Time) string {
	hasDate := paymentDate != nil
	hasMethod := paymentMethod != nil && *paymentMethod != ""
	hasTxn := transactionID != nil && *transactionID != ""

	switch {
	case hasDate && hasMethod && hasTxn:
		return models.FeeStatusPaid
	case hasDate && hasMethod:
		return models.FeeStatusUnderProcess
	case dateOnly(dueDate).Before(dateOnly(now)):
		return models.FeeStatusOverdue
	default:
		return models.FeeStatusPending
	}
}

// EffectiveStatus is the status to display for a record. A persisted "paid"
// or "cancelled" came from the approval flow and is authoritative; anything
// else is re-derived from the record's fields.
func EffectiveStatus(record models.FeeRecord, now time.Time) string {
	if record.Status == models.FeeStatusPaid || record.Status == models.FeeStatusCancelled {
		return record.Status
	}
	return Classify(record.DueDate, record.PaymentDate, record.PaymentMethod, record.TransactionID, now)
}

// dateOnly truncates a timestamp to its UTC calendar date. Every calendar
// comparison in this package goes through here so the timezone policy stays
// in one place.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func sameMonthYear(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month()
}
