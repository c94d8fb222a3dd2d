// file: internals/features/finance/ledger/service/validation.go
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

// Batas nominal receipt: amount harus > 0.01 dan ≤ 1.000.000.
var (
	receiptAmountMin = decimal.New(1, -2)
	receiptAmountMax = decimal.NewFromInt(1_000_000)
)

// ValidateInvoice = pengecekan struktural + aturan bisnis sebelum persist.
// Pure function, tanpa side effect.
func ValidateInvoice(inv *model.Invoice, now time.Time) error {
	if len(inv.Bills) == 0 {
		return invoiceValidationErr(inv.InvoiceID, "invoice has no bill lines")
	}
	for _, b := range inv.Bills {
		if !b.InvoiceBillAmount.GreaterThan(decimal.Zero) {
			return invoiceValidationErr(inv.InvoiceID, "bill line "+b.InvoiceBillFeeName+" has no positive fee amount")
		}
	}
	if inv.InvoiceStudentID == uuid.Nil {
		return invoiceValidationErr(inv.InvoiceID, "missing student reference")
	}
	if inv.InvoiceEnrolmentID == nil && !inv.InvoiceIsVoided {
		return invoiceValidationErr(inv.InvoiceID, "missing enrolment reference")
	}
	if inv.InvoiceDate.After(now) {
		return invoiceValidationErr(inv.InvoiceID, "invoice date is in the future")
	}
	if inv.InvoiceDueDate.Before(inv.InvoiceDate) {
		return invoiceValidationErr(inv.InvoiceID, "due date precedes invoice date")
	}
	if inv.InvoiceTotalBill.IsNegative() {
		return invoiceValidationErr(inv.InvoiceID, "total bill is negative")
	}
	if inv.InvoiceAmountPaid.IsNegative() {
		return invoiceValidationErr(inv.InvoiceID, "amount paid is negative")
	}
	if !inv.InvoiceIsVoided && inv.InvoiceBalance.LessThan(Tolerance.Neg()) {
		return invoiceValidationErr(inv.InvoiceID, "balance is negative on an active invoice")
	}
	if inv.InvoiceExemptedAmount.GreaterThan(inv.InvoiceGrossBill) {
		return invoiceValidationErr(inv.InvoiceID, "exempted amount exceeds gross bill")
	}
	return nil
}

// ValidateReceipt = pengecekan receipt sebelum persist. Pure function.
func ValidateReceipt(rc *model.Receipt, now time.Time) error {
	if !rc.ReceiptAmountPaid.GreaterThan(receiptAmountMin) {
		return receiptValidationErr(rc.ReceiptID, "amount must be greater than 0.01")
	}
	if rc.ReceiptAmountPaid.GreaterThan(receiptAmountMax) {
		return receiptValidationErr(rc.ReceiptID, "amount exceeds the 1,000,000 ceiling")
	}
	if rc.ReceiptPaymentDate.After(now.Add(24 * time.Hour)) {
		return receiptValidationErr(rc.ReceiptID, "payment date is more than a day in the future")
	}
	if rc.ReceiptPaymentDate.Before(now.AddDate(-1, 0, 0)) {
		return receiptValidationErr(rc.ReceiptID, "payment date is more than a year in the past")
	}
	if rc.ReceiptPaymentMethod == "" {
		return receiptValidationErr(rc.ReceiptID, "missing payment method")
	}
	if rc.ReceiptDescription == nil || *rc.ReceiptDescription == "" {
		return receiptValidationErr(rc.ReceiptID, "missing description")
	}
	if rc.ReceiptServedBy == uuid.Nil {
		return receiptValidationErr(rc.ReceiptID, "missing served-by reference")
	}

	allocated := decimal.Zero
	for _, a := range rc.Allocations {
		allocated = allocated.Add(a.ReceiptAllocationAmount)
	}
	if allocated.Sub(rc.ReceiptAmountPaid).GreaterThan(Tolerance) {
		return receiptValidationErr(rc.ReceiptID, "declared allocations exceed receipt amount")
	}
	return nil
}
