// file: internals/features/finance/ledger/service/invoice_engine.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* =========================================================
   INVOICE ENGINE — save (upsert per student+term) & void
========================================================= */

type SaveInvoiceInput struct {
	StudentID             uuid.UUID
	DueDate               time.Time
	InvoiceDate           *time.Time // nil = sekarang
	BalanceBroughtForward decimal.Decimal
	PerformedBy           uuid.UUID
	IPAddress             *string
}

// SaveInvoice membuat atau memperbarui invoice aktif student untuk term
// berjalan. Bill lines diambil dari fee assignment lewat directory,
// exemption dihitung, lalu credit tersedia langsung diterapkan. Pass
// reconciliation ringan berjalan sebelum mutasi dan pass penuh sesudahnya;
// mismatch saldo setelah itu mem-fail seluruh transaksi.
func (s *Service) SaveInvoice(ctx context.Context, in SaveInvoiceInput) (*model.Invoice, error) {
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
	bills, err := s.dir.GetBillsForInvoice(ctx, in.StudentID, enr.TermID)
	if err != nil {
		return nil, err
	}
	exemption, err := s.dir.GetActiveExemption(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	var out *model.Invoice
	trail := s.audit.Trail()
	err = s.withStudentTx(ctx, in.StudentID, func(tx *gorm.DB) error {
		if err := s.reconcileStudent(tx, trail, in.StudentID, in.PerformedBy, ReconcileOptions{Light: true}); err != nil {
			return err
		}

		gross, exempted := computeNetBill(bills, exemption)
		total := totalBillOf(gross, exempted, in.BalanceBroughtForward)

		var inv model.Invoice
		findErr := tx.
			Where("invoice_student_id = ? AND invoice_term_id = ? AND invoice_is_voided = FALSE", in.StudentID, enr.TermID).
			First(&inv).Error
		created := errors.Is(findErr, gorm.ErrRecordNotFound)
		if findErr != nil && !created {
			return findErr
		}

		invoiceDate := s.now()
		if in.InvoiceDate != nil {
			invoiceDate = *in.InvoiceDate
		}

		if created {
			number, err := nextInvoiceNumber(tx, s.now())
			if err != nil {
				return err
			}
			inv = model.Invoice{
				InvoiceNumber:                number,
				InvoiceStudentID:             in.StudentID,
				InvoiceTermID:                enr.TermID,
				InvoiceEnrolmentID:           &enr.ID,
				InvoiceDate:                  invoiceDate,
				InvoiceDueDate:               in.DueDate,
				InvoiceGrossBill:             gross,
				InvoiceExemptedAmount:        exempted,
				InvoiceBalanceBroughtForward: in.BalanceBroughtForward.Round(2),
				InvoiceTotalBill:             total,
				InvoiceAmountPaid:            decimal.Zero,
				InvoiceBalance:               total,
			}
		} else {
			// Edit tagihan: ganti bill lines & nominal, pembayaran yang
			// sudah masuk dipertahankan.
			inv.InvoiceEnrolmentID = &enr.ID
			inv.InvoiceDueDate = in.DueDate
			inv.InvoiceGrossBill = gross
			inv.InvoiceExemptedAmount = exempted
			inv.InvoiceBalanceBroughtForward = in.BalanceBroughtForward.Round(2)
			inv.InvoiceTotalBill = total
			inv.InvoiceBalance = total.Sub(inv.InvoiceAmountPaid).Round(2)
			if inv.InvoiceBalance.IsNegative() {
				// Kelebihan bayar hasil edit dikonversi jadi credit oleh
				// pass reconciliation di bawah.
				inv.InvoiceBalance = decimal.Zero
			}
		}
		inv.InvoiceStatus = statusOf(false, inv.InvoiceBalance, inv.InvoiceAmountPaid, inv.InvoiceDueDate, s.now())

		lines := make([]model.InvoiceBill, 0, len(bills))
		for _, b := range bills {
			lines = append(lines, model.InvoiceBill{
				InvoiceBillFeeName: b.Name,
				InvoiceBillAmount:  b.Amount,
				InvoiceBillIsFood:  b.IsFood,
			})
		}
		inv.Bills = lines

		if err := ValidateInvoice(&inv, s.now()); err != nil {
			return err
		}

		if created {
			if err := tx.Create(&inv).Error; err != nil {
				return err
			}
		} else {
			if err := tx.
				Where("invoice_bill_invoice_id = ?", inv.InvoiceID).
				Delete(&model.InvoiceBill{}).Error; err != nil {
				return err
			}
			for i := range lines {
				lines[i].InvoiceBillInvoiceID = inv.InvoiceID
			}
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Save(&inv).Error; err != nil {
				return err
			}
		}

		if _, err := s.applyCreditToInvoice(tx, &inv, in.PerformedBy); err != nil {
			return err
		}
		if err := s.reconcileStudent(tx, trail, in.StudentID, in.PerformedBy, ReconcileOptions{}); err != nil {
			return err
		}

		var fresh model.Invoice
		if err := tx.
			Preload("Bills").
			Preload("ReceiptAllocations").
			Preload("CreditAllocations").
			First(&fresh, "invoice_id = ?", inv.InvoiceID).Error; err != nil {
			return err
		}
		if err := verifyInvoiceBalance(&fresh); err != nil {
			return err
		}

		action := "invoice.updated"
		if created {
			action = "invoice.created"
		}
		trail.Record(action, "invoice", fresh.InvoiceID, in.PerformedBy, map[string]interface{}{
			"invoice_number": fresh.InvoiceNumber,
			"total_bill":     fresh.InvoiceTotalBill.String(),
			"balance":        fresh.InvoiceBalance.String(),
			"status":         string(fresh.InvoiceStatus),
		}, in.IPAddress)

		out = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	trail.Flush()
	return out, nil
}

// VoidInvoice membatalkan invoice secara terminal. Pembayaran receipt yang
// menempel dikembalikan sebagai credit student (dengan jejak ReceiptCredit
// ke receipt asal), credit yang pernah diterapkan dikembalikan lewat
// REVERSAL, lalu semua allocation dihapus dan enrolment dilepas.
func (s *Service) VoidInvoice(ctx context.Context, invoiceID, performedBy uuid.UUID, reason string, ip *string) (*model.Invoice, error) {
	var probe model.Invoice
	if err := s.db.WithContext(ctx).
		Select("invoice_id", "invoice_student_id").
		First(&probe, "invoice_id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr(ErrInvoiceNotFound, invoiceID)
		}
		return nil, err
	}
	studentID := probe.InvoiceStudentID

	var out *model.Invoice
	trail := s.audit.Trail()
	err := s.withStudentTx(ctx, studentID, func(tx *gorm.DB) error {
		var inv model.Invoice
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("ReceiptAllocations").
			Preload("CreditAllocations").
			First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr(ErrInvoiceNotFound, invoiceID)
			}
			return err
		}
		if inv.InvoiceIsVoided {
			return alreadyVoidedErr(ErrInvoiceAlreadyVoided, invoiceID)
		}

		// 1) pembayaran receipt → credit
		for i := range inv.ReceiptAllocations {
			a := &inv.ReceiptAllocations[i]

			var receipt model.Receipt
			if err := tx.First(&receipt, "receipt_id = ?", a.ReceiptAllocationReceiptID).Error; err != nil {
				return err
			}
			if err := tx.Delete(a).Error; err != nil {
				return err
			}
			if receipt.ReceiptIsVoided {
				continue
			}

			credit, err := s.createOrIncreaseCredit(
				tx, studentID, a.ReceiptAllocationAmount,
				"restored from voided invoice "+inv.InvoiceNumber,
				&receipt.ReceiptID, performedBy,
			)
			if err != nil {
				return err
			}
			rc := model.ReceiptCredit{
				ReceiptCreditReceiptID:       receipt.ReceiptID,
				ReceiptCreditStudentCreditID: credit.StudentCreditID,
				ReceiptCreditAmount:          a.ReceiptAllocationAmount,
			}
			if err := tx.Create(&rc).Error; err != nil {
				return err
			}
		}

		// 2) credit yang pernah diterapkan → kembali ke saldo
		if len(inv.CreditAllocations) > 0 {
			credit, err := lockCredit(tx, studentID)
			if err != nil {
				return err
			}
			if credit == nil {
				credit = &model.StudentCredit{
					StudentCreditStudentID: studentID,
					StudentCreditAmount:    decimal.Zero,
				}
				if err := tx.Create(credit).Error; err != nil {
					return err
				}
			}
			for i := range inv.CreditAllocations {
				a := &inv.CreditAllocations[i]
				if err := s.reverseCredit(
					tx, credit, a.CreditAllocationAmount,
					"restored from voided invoice "+inv.InvoiceNumber,
					a.CreditAllocationReceiptID, &inv.InvoiceID, performedBy,
				); err != nil {
					return err
				}
				if err := tx.Delete(a).Error; err != nil {
					return err
				}
			}
		}

		// 3) tandai void
		now := s.now()
		inv.InvoiceAmountPaid = decimal.Zero
		inv.InvoiceBalance = inv.InvoiceTotalBill
		inv.InvoiceIsVoided = true
		inv.InvoiceVoidedAt = &now
		inv.InvoiceVoidedBy = &performedBy
		inv.InvoiceStatus = model.InvoiceStatusVoided
		inv.InvoiceEnrolmentID = nil
		if err := tx.Omit(clause.Associations).Save(&inv).Error; err != nil {
			return err
		}

		// 4) pass penuh: credit hasil restore langsung dipakai invoice
		// terbuka lain kalau ada
		if err := s.reconcileStudent(tx, trail, studentID, performedBy, ReconcileOptions{}); err != nil {
			return err
		}

		trail.Record("invoice.voided", "invoice", inv.InvoiceID, performedBy, map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"reason":         reason,
		}, ip)

		out = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	trail.Flush()
	return out, nil
}
