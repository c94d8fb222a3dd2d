// file: internals/features/finance/ledger/service/allocation.go
package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* =========================================================
   ALLOCATION ENGINE — distribusi pembayaran & credit
========================================================= */

// loadOpenInvoices mengambil invoice aktif dengan sisa tagihan, urut due
// date ascending (tie-break id ascending, selaras planAllocations).
func loadOpenInvoices(tx *gorm.DB, studentID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := tx.
		Where("invoice_student_id = ? AND invoice_is_voided = FALSE AND invoice_balance > ?", studentID, Tolerance).
		Order("invoice_due_date ASC, invoice_id ASC").
		Find(&invoices).Error
	return invoices, err
}

// applyToInvoice menaikkan amount_paid invoice dan menurunkan balance,
// lalu menderivasi ulang status. Balance di-clamp ke 0 (tidak pernah
// negatif selama aktif).
func (s *Service) applyToInvoice(tx *gorm.DB, inv *model.Invoice, amount decimal.Decimal) error {
	inv.InvoiceAmountPaid = inv.InvoiceAmountPaid.Add(amount).Round(2)
	inv.InvoiceBalance = inv.InvoiceTotalBill.Sub(inv.InvoiceAmountPaid).Round(2)
	if inv.InvoiceBalance.IsNegative() {
		inv.InvoiceBalance = decimal.Zero
	}
	inv.InvoiceStatus = statusOf(inv.InvoiceIsVoided, inv.InvoiceBalance, inv.InvoiceAmountPaid, inv.InvoiceDueDate, s.now())
	return tx.Save(inv).Error
}

// allocateReceiptToInvoices membagi pembayaran receipt ke invoice terbuka
// (tertua dulu). Sisa di atas toleransi dikonversi jadi credit + record
// ReceiptCredit untuk penelusuran FIFO.
func (s *Service) allocateReceiptToInvoices(
	tx *gorm.DB,
	receipt *model.Receipt,
) (allocations []model.ReceiptInvoiceAllocation, creditCreated decimal.Decimal, err error) {
	creditCreated = decimal.Zero

	invoices, err := loadOpenInvoices(tx, receipt.ReceiptStudentID)
	if err != nil {
		return nil, creditCreated, err
	}

	steps, remainder := planAllocations(receipt.ReceiptAmountPaid, invoices)

	byID := make(map[uuid.UUID]*model.Invoice, len(invoices))
	for i := range invoices {
		byID[invoices[i].InvoiceID] = &invoices[i]
	}

	for _, step := range steps {
		alloc := model.ReceiptInvoiceAllocation{
			ReceiptAllocationReceiptID: receipt.ReceiptID,
			ReceiptAllocationInvoiceID: step.InvoiceID,
			ReceiptAllocationAmount:    step.Amount,
			ReceiptAllocationDate:      s.now(),
		}
		if err := tx.Create(&alloc).Error; err != nil {
			return nil, creditCreated, err
		}
		allocations = append(allocations, alloc)

		if err := s.applyToInvoice(tx, byID[step.InvoiceID], step.Amount); err != nil {
			return nil, creditCreated, err
		}
	}

	if aboveTolerance(remainder) {
		credit, err := s.createOrIncreaseCredit(
			tx, receipt.ReceiptStudentID, remainder,
			"overpayment on receipt "+receipt.ReceiptNumber,
			&receipt.ReceiptID, receipt.ReceiptServedBy,
		)
		if err != nil {
			return nil, creditCreated, err
		}
		rc := model.ReceiptCredit{
			ReceiptCreditReceiptID:       receipt.ReceiptID,
			ReceiptCreditStudentCreditID: credit.StudentCreditID,
			ReceiptCreditAmount:          remainder,
		}
		if err := tx.Create(&rc).Error; err != nil {
			return nil, creditCreated, err
		}
		creditCreated = remainder
	}

	return allocations, creditCreated, nil
}

// applyCreditToInvoice menerapkan saldo credit student ke satu invoice:
// amount = min(outstanding, saldo). Mengembalikan 0 kalau tidak ada credit
// atau invoice sudah lunas.
func (s *Service) applyCreditToInvoice(tx *gorm.DB, inv *model.Invoice, performedBy uuid.UUID) (decimal.Decimal, error) {
	if inv.InvoiceIsVoided || !aboveTolerance(inv.InvoiceBalance) {
		return decimal.Zero, nil
	}

	credit, err := lockCredit(tx, inv.InvoiceStudentID)
	if err != nil || credit == nil {
		return decimal.Zero, err
	}
	amount := decimal.Min(inv.InvoiceBalance, credit.StudentCreditAmount).Round(2)
	if !aboveTolerance(amount) {
		return decimal.Zero, nil
	}

	// Telusuri receipt asal (FIFO) sebelum saldo berubah.
	sourceReceiptID, err := determineFifoSource(tx, credit, amount)
	if err != nil {
		return decimal.Zero, err
	}

	if _, err := s.deductCredit(
		tx, inv.InvoiceStudentID, amount,
		"credit applied to invoice "+inv.InvoiceNumber,
		&inv.InvoiceID, performedBy,
	); err != nil {
		return decimal.Zero, err
	}

	alloc := model.CreditInvoiceAllocation{
		CreditAllocationStudentCreditID: credit.StudentCreditID,
		CreditAllocationInvoiceID:       inv.InvoiceID,
		CreditAllocationAmount:          amount,
		CreditAllocationReceiptID:       sourceReceiptID,
		CreditAllocationDate:            s.now(),
	}
	if err := tx.Create(&alloc).Error; err != nil {
		return decimal.Zero, err
	}

	if err := s.applyToInvoice(tx, inv, amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}
