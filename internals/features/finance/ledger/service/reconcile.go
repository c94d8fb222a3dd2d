// file: internals/features/finance/ledger/service/reconcile.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* =========================================================
   RECONCILIATION PASS — repair dulu, verify belakangan
========================================================= */

// ReconcileOptions mengontrol cakupan pass. Light = repair + verify saja
// (dipanggil di awal save invoice dan setelah void receipt); mode penuh
// juga menerapkan credit tersisa dan menormalkan jejak allocation.
type ReconcileOptions struct {
	Light bool
}

// Reconcile menjalankan pass penuh untuk satu student di dalam lock+tx
// sendiri. Endpoint maintenance memanggil ini langsung.
func (s *Service) Reconcile(ctx context.Context, studentID, performedBy uuid.UUID) error {
	trail := s.audit.Trail()
	err := s.withStudentTx(ctx, studentID, func(tx *gorm.DB) error {
		return s.reconcileStudent(tx, trail, studentID, performedBy, ReconcileOptions{})
	})
	if err != nil {
		return err
	}
	trail.Flush()
	return nil
}

// reconcileStudent = inti pass. Urutan fase penting:
//
//  1. koreksi invoice overpaid (kelebihan → credit, allocation dipotong)
//  2. lepas enrolment dari invoice voided
//  3. hitung ulang amount_paid/balance murni dari allocation
//  4. verifikasi & self-heal saldo credit
//  5. terapkan credit tersisa ke invoice terbuka tertua (skip saat Light)
//  6. normalkan jejak credit→receipt allocation (skip saat Light)
//  7. cek Σ allocation tiap receipt ≤ amount receipt (anomali di-log)
//
// Fase repair (1-3, 5-6) tidak pernah menelan kegagalan verify (4, 7):
// drift yang bisa dijelaskan diperbaiki dan di-log warn, sisanya bubble
// sebagai error invariant.
func (s *Service) reconcileStudent(tx *gorm.DB, trail *AuditTrail, studentID, performedBy uuid.UUID, opts ReconcileOptions) error {
	if err := s.correctOverpaidInvoices(tx, trail, studentID, performedBy); err != nil {
		return err
	}
	if err := detachVoidedEnrolments(tx, studentID); err != nil {
		return err
	}
	if err := s.recomputeFromAllocations(tx, studentID); err != nil {
		return err
	}
	if err := s.verifyCreditBalance(tx, studentID); err != nil {
		return err
	}
	if !opts.Light {
		if err := s.applyRemainingCredit(tx, studentID, performedBy); err != nil {
			return err
		}
		if err := s.normalizeCreditTrace(tx, studentID); err != nil {
			return err
		}
	}
	return s.checkReceiptAllocationTotals(tx, studentID)
}

// correctOverpaidInvoices menangani invoice dengan amount_paid melewati
// total_bill (mis. tagihan diedit turun setelah lunas). Kelebihan yang
// didukung receipt allocation dikonversi jadi credit dengan record
// ReceiptCredit (allocation-nya dipotong dari yang terbaru), sisanya
// sekadar di-clamp; fase 3 yang merapikan angka tanpa backing.
func (s *Service) correctOverpaidInvoices(tx *gorm.DB, trail *AuditTrail, studentID, performedBy uuid.UUID) error {
	var invoices []model.Invoice
	if err := tx.
		Preload("ReceiptAllocations").
		Where("invoice_student_id = ? AND invoice_is_voided = FALSE", studentID).
		Find(&invoices).Error; err != nil {
		return err
	}

	for i := range invoices {
		inv := &invoices[i]
		over := inv.InvoiceAmountPaid.Sub(inv.InvoiceTotalBill)
		if !aboveTolerance(over) {
			continue
		}

		s.log.Warn("overpaid invoice detected, converting excess to credit",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.String("amount_paid", inv.InvoiceAmountPaid.String()),
			zap.String("total_bill", inv.InvoiceTotalBill.String()),
		)

		converted, err := s.shrinkReceiptAllocations(tx, inv, over, performedBy)
		if err != nil {
			return err
		}

		inv.InvoiceAmountPaid = inv.InvoiceTotalBill
		inv.InvoiceBalance = decimal.Zero
		inv.InvoiceStatus = statusOf(false, inv.InvoiceBalance, inv.InvoiceAmountPaid, inv.InvoiceDueDate, s.now())
		if err := tx.Save(inv).Error; err != nil {
			return err
		}

		trail.Record("invoice.overpayment_correction", "invoice", inv.InvoiceID, performedBy, map[string]interface{}{
			"overpaid_by":         over.String(),
			"converted_to_credit": converted.String(),
		}, nil)
	}
	return nil
}

// shrinkReceiptAllocations mengeksekusi planAllocationShrink: tiap
// potongan menjadi credit dengan ReceiptCredit menunjuk receipt asalnya.
// Return total yang dikonversi.
func (s *Service) shrinkReceiptAllocations(
	tx *gorm.DB,
	inv *model.Invoice,
	over decimal.Decimal,
	performedBy uuid.UUID,
) (decimal.Decimal, error) {
	converted := decimal.Zero
	for _, step := range planAllocationShrink(inv.ReceiptAllocations, over) {
		a := step.Allocation
		if step.Full {
			if err := tx.Delete(&a).Error; err != nil {
				return converted, err
			}
		} else {
			a.ReceiptAllocationAmount = a.ReceiptAllocationAmount.Sub(step.Amount).Round(2)
			if err := tx.Save(&a).Error; err != nil {
				return converted, err
			}
		}

		credit, err := s.createOrIncreaseCredit(
			tx, inv.InvoiceStudentID, step.Amount,
			"overpayment correction on invoice "+inv.InvoiceNumber,
			&a.ReceiptAllocationReceiptID, performedBy,
		)
		if err != nil {
			return converted, err
		}
		rc := model.ReceiptCredit{
			ReceiptCreditReceiptID:       a.ReceiptAllocationReceiptID,
			ReceiptCreditStudentCreditID: credit.StudentCreditID,
			ReceiptCreditAmount:          step.Amount,
		}
		if err := tx.Create(&rc).Error; err != nil {
			return converted, err
		}

		converted = converted.Add(step.Amount)
	}
	return converted.Round(2), nil
}

// detachVoidedEnrolments melepas referensi enrolment dari invoice voided
// supaya invoice pengganti bisa dibuat untuk student+term yang sama.
func detachVoidedEnrolments(tx *gorm.DB, studentID uuid.UUID) error {
	return tx.Model(&model.Invoice{}).
		Where("invoice_student_id = ? AND invoice_is_voided = TRUE AND invoice_enrolment_id IS NOT NULL", studentID).
		Update("invoice_enrolment_id", nil).Error
}

// recomputeFromAllocations menghitung ulang amount_paid tiap invoice aktif
// dari allocation yang benar-benar ada. Nilai tersimpan tidak dipercaya.
func (s *Service) recomputeFromAllocations(tx *gorm.DB, studentID uuid.UUID) error {
	var invoices []model.Invoice
	if err := tx.
		Preload("ReceiptAllocations").
		Preload("CreditAllocations").
		Where("invoice_student_id = ? AND invoice_is_voided = FALSE", studentID).
		Find(&invoices).Error; err != nil {
		return err
	}

	for i := range invoices {
		inv := &invoices[i]
		paid := recomputedPaid(inv.ReceiptAllocations, inv.CreditAllocations)
		balance := inv.InvoiceTotalBill.Sub(paid).Round(2)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		status := statusOf(false, balance, paid, inv.InvoiceDueDate, s.now())

		if withinTolerance(paid, inv.InvoiceAmountPaid) &&
			withinTolerance(balance, inv.InvoiceBalance) &&
			status == inv.InvoiceStatus {
			continue
		}

		if !withinTolerance(paid, inv.InvoiceAmountPaid) {
			s.log.Warn("invoice paid drift repaired from allocations",
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.String("stored", inv.InvoiceAmountPaid.String()),
				zap.String("recomputed", paid.String()),
			)
		}

		inv.InvoiceAmountPaid = paid
		inv.InvoiceBalance = balance
		inv.InvoiceStatus = status
		if err := tx.Save(inv).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyRemainingCredit menerapkan saldo credit ke invoice terbuka, tertua
// dulu, sampai saldo atau invoice habis.
func (s *Service) applyRemainingCredit(tx *gorm.DB, studentID, performedBy uuid.UUID) error {
	invoices, err := loadOpenInvoices(tx, studentID)
	if err != nil {
		return err
	}
	for i := range invoices {
		applied, err := s.applyCreditToInvoice(tx, &invoices[i], performedBy)
		if err != nil {
			return err
		}
		if !aboveTolerance(applied) {
			break // saldo habis
		}
	}
	return nil
}

// normalizeCreditTrace mengganti pasangan (ReceiptCredit, credit
// allocation ber-related-receipt) dengan receipt allocation langsung:
// secara ekonomi receipt itulah yang membayar invoice, credit hanya
// transit. Swap-nya netral untuk semua saldo; yang berubah hanya jejak.
// Dilewati kalau receipt sudah punya allocation ke invoice yang sama atau
// totalnya akan melewati amount receipt.
func (s *Service) normalizeCreditTrace(tx *gorm.DB, studentID uuid.UUID) error {
	var allocs []model.CreditInvoiceAllocation
	if err := tx.
		Joins("JOIN student_credits ON student_credits.student_credit_id = credit_invoice_allocations.credit_allocation_student_credit_id").
		Where("student_credits.student_credit_student_id = ? AND credit_invoice_allocations.credit_allocation_receipt_id IS NOT NULL", studentID).
		Find(&allocs).Error; err != nil {
		return err
	}

	for i := range allocs {
		a := &allocs[i]
		receiptID := *a.CreditAllocationReceiptID

		var receipt model.Receipt
		if err := tx.First(&receipt, "receipt_id = ?", receiptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if receipt.ReceiptIsVoided {
			continue
		}

		var existing int64
		if err := tx.Model(&model.ReceiptInvoiceAllocation{}).
			Where("receipt_allocation_receipt_id = ? AND receipt_allocation_invoice_id = ?", receiptID, a.CreditAllocationInvoiceID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}

		allocated, err := sumReceiptAllocations(tx, receiptID)
		if err != nil {
			return err
		}
		if allocated.Add(a.CreditAllocationAmount).GreaterThan(receipt.ReceiptAmountPaid.Add(Tolerance)) {
			s.log.Warn("credit trace left as-is, receipt amount would be exceeded",
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.String("allocation_amount", a.CreditAllocationAmount.String()),
			)
			continue
		}

		direct := model.ReceiptInvoiceAllocation{
			ReceiptAllocationReceiptID: receiptID,
			ReceiptAllocationInvoiceID: a.CreditAllocationInvoiceID,
			ReceiptAllocationAmount:    a.CreditAllocationAmount,
			ReceiptAllocationDate:      a.CreditAllocationDate,
		}
		if err := tx.Create(&direct).Error; err != nil {
			return err
		}
		if err := tx.Delete(a).Error; err != nil {
			return err
		}
		if err := shrinkReceiptCredits(tx, receiptID, a.CreditAllocationStudentCreditID, a.CreditAllocationAmount); err != nil {
			return err
		}
	}
	return nil
}

// shrinkReceiptCredits mengurangi record ReceiptCredit receipt tertentu
// sebesar amount (tertua dulu), menghapus row yang habis.
func shrinkReceiptCredits(tx *gorm.DB, receiptID, studentCreditID uuid.UUID, amount decimal.Decimal) error {
	var rcs []model.ReceiptCredit
	if err := tx.
		Where("receipt_credit_receipt_id = ? AND receipt_credit_student_credit_id = ?", receiptID, studentCreditID).
		Order("receipt_credit_created_at ASC").
		Find(&rcs).Error; err != nil {
		return err
	}

	remaining := amount
	for i := range rcs {
		if !aboveTolerance(remaining) {
			break
		}
		rc := &rcs[i]
		take := decimal.Min(remaining, rc.ReceiptCreditAmount)
		if withinTolerance(take, rc.ReceiptCreditAmount) {
			if err := tx.Delete(rc).Error; err != nil {
				return err
			}
		} else {
			rc.ReceiptCreditAmount = rc.ReceiptCreditAmount.Sub(take).Round(2)
			if err := tx.Save(rc).Error; err != nil {
				return err
			}
		}
		remaining = remaining.Sub(take)
	}
	return nil
}

func sumReceiptAllocations(tx *gorm.DB, receiptID uuid.UUID) (decimal.Decimal, error) {
	var allocs []model.ReceiptInvoiceAllocation
	if err := tx.Where("receipt_allocation_receipt_id = ?", receiptID).Find(&allocs).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.ReceiptAllocationAmount)
	}
	return sum.Round(2), nil
}

// checkReceiptAllocationTotals memastikan tidak ada receipt aktif yang
// allocation-nya melebihi amount-nya. Pelanggaran di-log sebagai anomali
// (bukan auto-repair: butuh keputusan manusia soal allocation mana yang
// salah).
func (s *Service) checkReceiptAllocationTotals(tx *gorm.DB, studentID uuid.UUID) error {
	var receipts []model.Receipt
	if err := tx.
		Where("receipt_student_id = ? AND receipt_is_voided = FALSE", studentID).
		Find(&receipts).Error; err != nil {
		return err
	}

	for i := range receipts {
		r := &receipts[i]
		allocated, err := sumReceiptAllocations(tx, r.ReceiptID)
		if err != nil {
			return err
		}
		if allocated.GreaterThan(r.ReceiptAmountPaid.Add(Tolerance)) {
			s.log.Error("receipt allocations exceed receipt amount",
				zap.String("receipt_number", r.ReceiptNumber),
				zap.String("receipt_amount", r.ReceiptAmountPaid.String()),
				zap.String("allocated", allocated.String()),
			)
		}
	}
	return nil
}
