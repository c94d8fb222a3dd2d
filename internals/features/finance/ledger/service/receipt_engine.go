// file: internals/features/finance/ledger/service/receipt_engine.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/constants"
	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* =========================================================
   RECEIPT ENGINE — create & void
========================================================= */

type CreateReceiptInput struct {
	StudentID     uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentDate   time.Time
	Description   *string
	ServedBy      uuid.UUID
	ServedByRole  string
	IPAddress     *string
}

// CreateReceipt mencatat pembayaran masuk lalu mendistribusikannya ke
// invoice terbuka (tertua dulu); sisa menjadi credit. Urutan: otorisasi
// role → lookup student/enrolment → cek duplikat → pass ringan → persist →
// alokasi → pass penuh → audit → notifikasi async setelah commit.
func (s *Service) CreateReceipt(ctx context.Context, in CreateReceiptInput) (*model.Receipt, error) {
	if !constants.RoleAllowed(in.ServedByRole, constants.ReceiptStaffRoles) {
		return nil, receiptRoleForbiddenErr(in.ServedByRole)
	}

	student, err := s.dir.GetStudent(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, notFoundErr(ErrStudentNotFound, in.StudentID)
	}
	enr, err := s.dir.GetActiveEnrolment(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if enr == nil || !enr.Active {
		return nil, studentNotEnrolledErr(in.StudentID)
	}

	var out *model.Receipt
	trail := s.audit.Trail()
	err = s.withStudentTx(ctx, in.StudentID, func(tx *gorm.DB) error {
		// Deteksi double-submit: receipt aktif dengan nominal sama dalam
		// jendela waktu singkat.
		var dup int64
		if err := tx.Model(&model.Receipt{}).
			Where("receipt_student_id = ? AND receipt_is_voided = FALSE AND receipt_amount_paid = ? AND receipt_created_at >= ?",
				in.StudentID, in.Amount, s.now().Add(-s.cfg.DuplicateWindow)).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return duplicateReceiptErr(in.StudentID, in.Amount)
		}

		receipt := model.Receipt{
			ReceiptStudentID:     in.StudentID,
			ReceiptAmountPaid:    in.Amount.Round(2),
			ReceiptPaymentMethod: in.PaymentMethod,
			ReceiptPaymentDate:   in.PaymentDate,
			ReceiptDescription:   in.Description,
			ReceiptServedBy:      in.ServedBy,
		}
		if err := ValidateReceipt(&receipt, s.now()); err != nil {
			return err
		}

		if in.PaymentMethod == model.PaymentMethodCash && in.Amount.GreaterThan(s.cfg.LargeCashThreshold) {
			s.log.Warn("💰 large cash payment flagged for review",
				zap.String("student_id", in.StudentID.String()),
				zap.String("amount", in.Amount.String()),
			)
			trail.Record("receipt.large_cash_flag", "student", in.StudentID, in.ServedBy, map[string]interface{}{
				"amount": in.Amount.String(),
			}, in.IPAddress)
		}

		if err := s.reconcileStudent(tx, trail, in.StudentID, in.ServedBy, ReconcileOptions{Light: true}); err != nil {
			return err
		}

		number, err := nextReceiptNumber(tx, s.now())
		if err != nil {
			return err
		}
		receipt.ReceiptNumber = number
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		if _, _, err := s.allocateReceiptToInvoices(tx, &receipt); err != nil {
			return err
		}
		if err := s.reconcileStudent(tx, trail, in.StudentID, in.ServedBy, ReconcileOptions{}); err != nil {
			return err
		}

		var fresh model.Receipt
		if err := tx.Preload("Allocations").First(&fresh, "receipt_id = ?", receipt.ReceiptID).Error; err != nil {
			return err
		}

		trail.Record("receipt.created", "receipt", fresh.ReceiptID, in.ServedBy, map[string]interface{}{
			"receipt_number": fresh.ReceiptNumber,
			"amount_paid":    fresh.ReceiptAmountPaid.String(),
			"payment_method": fresh.ReceiptPaymentMethod,
		}, in.IPAddress)

		out = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	trail.Flush()

	s.dispatchNotification(ReceiptSummary{
		ReceiptNumber: out.ReceiptNumber,
		StudentName:   student.FullName,
		GuardianEmail: student.GuardianEmail,
		GuardianPhone: student.GuardianPhone,
		AmountPaid:    out.ReceiptAmountPaid,
		PaymentMethod: out.ReceiptPaymentMethod,
		PaymentDate:   out.ReceiptPaymentDate,
	})
	return out, nil
}

// VoidReceipt membatalkan pembayaran secara terminal. Alokasi langsung
// dikembalikan ke balance invoice; credit yang lahir dari receipt ini
// dibongkar LIFO sejauh sudah terpakai, sisanya ditarik dari saldo.
func (s *Service) VoidReceipt(ctx context.Context, receiptID, performedBy uuid.UUID, performerRole, reason string, ip *string) (*model.Receipt, error) {
	if !constants.RoleAllowed(performerRole, constants.ReceiptStaffRoles) {
		return nil, receiptRoleForbiddenErr(performerRole)
	}

	var probe model.Receipt
	if err := s.db.WithContext(ctx).
		Select("receipt_id", "receipt_student_id").
		First(&probe, "receipt_id = ?", receiptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr(ErrReceiptNotFound, receiptID)
		}
		return nil, err
	}
	studentID := probe.ReceiptStudentID

	var out *model.Receipt
	trail := s.audit.Trail()
	err := s.withStudentTx(ctx, studentID, func(tx *gorm.DB) error {
		var receipt model.Receipt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Allocations").
			First(&receipt, "receipt_id = ?", receiptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr(ErrReceiptNotFound, receiptID)
			}
			return err
		}
		if receipt.ReceiptIsVoided {
			return alreadyVoidedErr(ErrReceiptAlreadyVoided, receiptID)
		}

		directTotal := decimal.Zero
		for i := range receipt.Allocations {
			a := &receipt.Allocations[i]
			directTotal = directTotal.Add(a.ReceiptAllocationAmount)
			if err := s.restoreInvoiceAmount(tx, a.ReceiptAllocationInvoiceID, a.ReceiptAllocationAmount); err != nil {
				return err
			}
			if err := tx.Delete(a).Error; err != nil {
				return err
			}
		}

		if err := s.reverseReceiptCredit(tx, &receipt, directTotal, performedBy); err != nil {
			return err
		}

		now := s.now()
		receipt.ReceiptIsVoided = true
		receipt.ReceiptVoidedAt = &now
		receipt.ReceiptVoidedBy = &performedBy
		if err := tx.Omit(clause.Associations).Save(&receipt).Error; err != nil {
			return err
		}

		if err := s.reconcileStudent(tx, trail, studentID, performedBy, ReconcileOptions{Light: true}); err != nil {
			return err
		}

		trail.Record("receipt.voided", "receipt", receipt.ReceiptID, performedBy, map[string]interface{}{
			"receipt_number": receipt.ReceiptNumber,
			"reason":         reason,
		}, ip)

		out = &receipt
		return nil
	})
	if err != nil {
		return nil, err
	}
	trail.Flush()
	return out, nil
}

// restoreInvoiceAmount menarik kembali satu porsi pembayaran dari invoice
// aktif (invoice voided dibiarkan; saldonya sudah direset saat void).
func (s *Service) restoreInvoiceAmount(tx *gorm.DB, invoiceID uuid.UUID, amount decimal.Decimal) error {
	var inv model.Invoice
	if err := tx.First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if inv.InvoiceIsVoided {
		return nil
	}

	inv.InvoiceAmountPaid = inv.InvoiceAmountPaid.Sub(amount).Round(2)
	if inv.InvoiceAmountPaid.IsNegative() {
		inv.InvoiceAmountPaid = decimal.Zero
	}
	inv.InvoiceBalance = inv.InvoiceTotalBill.Sub(inv.InvoiceAmountPaid).Round(2)
	if inv.InvoiceBalance.IsNegative() {
		inv.InvoiceBalance = decimal.Zero
	}
	inv.InvoiceStatus = statusOf(false, inv.InvoiceBalance, inv.InvoiceAmountPaid, inv.InvoiceDueDate, s.now())
	return tx.Omit(clause.Associations).Save(&inv).Error
}

// reverseReceiptCredit membongkar credit yang lahir dari receipt yang
// di-void. Bagian yang sudah diterapkan ke invoice dibongkar LIFO (invoice
// terbayar-terakhir dulu), bagian yang masih di saldo ditarik dengan
// REVERSAL. Tanpa record ReceiptCredit, sisa implisit (amount − alokasi)
// tetap ditarik sebatas saldo yang ada.
func (s *Service) reverseReceiptCredit(tx *gorm.DB, receipt *model.Receipt, directTotal decimal.Decimal, performedBy uuid.UUID) error {
	var rcs []model.ReceiptCredit
	if err := tx.
		Where("receipt_credit_receipt_id = ?", receipt.ReceiptID).
		Find(&rcs).Error; err != nil {
		return err
	}

	credit, err := lockCredit(tx, receipt.ReceiptStudentID)
	if err != nil {
		return err
	}

	if len(rcs) == 0 {
		// Receipt lama tanpa jejak: kelebihan implisit masih bisa ditarik.
		implicit := receipt.ReceiptAmountPaid.Sub(directTotal).Round(2)
		if !aboveTolerance(implicit) || credit == nil {
			return nil
		}
		take := decimal.Min(implicit, credit.StudentCreditAmount).Round(2)
		if !aboveTolerance(take) {
			return nil
		}
		return s.reverseCredit(
			tx, credit, take.Neg(),
			"reversed on void of receipt "+receipt.ReceiptNumber,
			&receipt.ReceiptID, nil, performedBy,
		)
	}

	fromReceipt := decimal.Zero
	for _, rc := range rcs {
		fromReceipt = fromReceipt.Add(rc.ReceiptCreditAmount)
	}

	var tagged []model.CreditInvoiceAllocation
	if err := tx.
		Where("credit_allocation_receipt_id = ?", receipt.ReceiptID).
		Find(&tagged).Error; err != nil {
		return err
	}
	spent := decimal.Zero
	for _, a := range tagged {
		spent = spent.Add(a.CreditAllocationAmount)
	}
	stillApplied := decimal.Min(spent, fromReceipt).Round(2)

	for _, step := range planLifoUnwind(tagged, stillApplied) {
		if err := s.restoreInvoiceAmount(tx, step.Allocation.CreditAllocationInvoiceID, step.Amount); err != nil {
			return err
		}
		if withinTolerance(step.Amount, step.Allocation.CreditAllocationAmount) {
			if err := tx.Delete(&step.Allocation).Error; err != nil {
				return err
			}
		} else {
			step.Allocation.CreditAllocationAmount = step.Allocation.CreditAllocationAmount.Sub(step.Amount).Round(2)
			if err := tx.Save(&step.Allocation).Error; err != nil {
				return err
			}
		}
	}

	unspent := fromReceipt.Sub(stillApplied).Round(2)
	if aboveTolerance(unspent) && credit != nil {
		return s.reverseCredit(
			tx, credit, unspent.Neg(),
			"reversed on void of receipt "+receipt.ReceiptNumber,
			&receipt.ReceiptID, nil, performedBy,
		)
	}
	return nil
}
