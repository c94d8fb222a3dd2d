// file: internals/features/finance/ledger/service/credit_ledger.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* =========================================================
   CREDIT LEDGER — pemilik saldo credit + histori transaksi
========================================================= */

// lockCredit mengambil row credit FOR UPDATE. Nil kalau belum ada.
func lockCredit(tx *gorm.DB, studentID uuid.UUID) (*model.StudentCredit, error) {
	var credit model.StudentCredit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_credit_student_id = ?", studentID).
		First(&credit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

// CreateOrIncreaseCredit menambah saldo credit student (membuat row kalau
// belum ada) dan mencatat transaksi CREDIT. Verifikasi saldo tidak
// dilakukan di sini: record pendukung (ReceiptCredit dsb) baru dibuat
// caller setelah fungsi ini return, jadi verify dijalankan di akhir
// operasi lewat fase verify reconciliation.
func (s *Service) createOrIncreaseCredit(
	tx *gorm.DB,
	studentID uuid.UUID,
	amount decimal.Decimal,
	source string,
	relatedReceiptID *uuid.UUID,
	performedBy uuid.UUID,
) (*model.StudentCredit, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, invalidAmountErr(studentID, amount, "credit amount must be positive")
	}
	if amount.GreaterThan(s.cfg.CreditCeiling) {
		return nil, invalidAmountErr(studentID, amount, "credit amount exceeds ceiling")
	}

	credit, err := lockCredit(tx, studentID)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		credit = &model.StudentCredit{
			StudentCreditStudentID: studentID,
			StudentCreditAmount:    decimal.Zero,
		}
		if err := tx.Create(credit).Error; err != nil {
			return nil, err
		}
	}

	if credit.StudentCreditAmount.Add(amount).GreaterThan(s.cfg.CreditCap) {
		return nil, creditLimitExceededErr(studentID, credit.StudentCreditAmount, amount, s.cfg.CreditCap)
	}

	credit.StudentCreditAmount = credit.StudentCreditAmount.Add(amount).Round(2)
	credit.StudentCreditLastSource = source
	if err := tx.Save(credit).Error; err != nil {
		return nil, err
	}

	txn := model.CreditTransaction{
		CreditTransactionStudentCreditID: credit.StudentCreditID,
		CreditTransactionAmount:          amount,
		CreditTransactionType:            model.CreditTxCredit,
		CreditTransactionSource:          source,
		CreditTransactionReceiptID:       relatedReceiptID,
		CreditTransactionPerformedBy:     performedBy,
	}
	// Jejak mutasi saldo cukup lewat CreditTransaction: ikut commit dan
	// rollback bersama operasinya.
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return credit, nil
}

// DeductCredit mengurangi saldo (transaksi APPLICATION, amount negatif).
// Nil tanpa error kalau student belum punya credit row.
func (s *Service) deductCredit(
	tx *gorm.DB,
	studentID uuid.UUID,
	amount decimal.Decimal,
	reason string,
	relatedInvoiceID *uuid.UUID,
	performedBy uuid.UUID,
) (*model.StudentCredit, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, invalidAmountErr(studentID, amount, "deduction amount must be positive")
	}

	credit, err := lockCredit(tx, studentID)
	if err != nil || credit == nil {
		return nil, err
	}
	if credit.StudentCreditAmount.LessThan(amount.Sub(Tolerance)) {
		return nil, insufficientCreditErr(studentID, credit.StudentCreditAmount, amount)
	}

	credit.StudentCreditAmount = credit.StudentCreditAmount.Sub(amount).Round(2)
	if credit.StudentCreditAmount.IsNegative() {
		credit.StudentCreditAmount = decimal.Zero
	}
	credit.StudentCreditLastSource = reason
	if err := tx.Save(credit).Error; err != nil {
		return nil, err
	}

	txn := model.CreditTransaction{
		CreditTransactionStudentCreditID: credit.StudentCreditID,
		CreditTransactionAmount:          amount.Neg(),
		CreditTransactionType:            model.CreditTxApplication,
		CreditTransactionSource:          reason,
		CreditTransactionInvoiceID:       relatedInvoiceID,
		CreditTransactionPerformedBy:     performedBy,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return credit, nil
}

// reverseCredit menggeser saldo dengan transaksi REVERSAL (dipakai alur
// void). amount positif = restore ke student, negatif = tarik kembali.
func (s *Service) reverseCredit(
	tx *gorm.DB,
	credit *model.StudentCredit,
	amount decimal.Decimal,
	source string,
	relatedReceiptID, relatedInvoiceID *uuid.UUID,
	performedBy uuid.UUID,
) error {
	credit.StudentCreditAmount = credit.StudentCreditAmount.Add(amount).Round(2)
	if credit.StudentCreditAmount.IsNegative() {
		credit.StudentCreditAmount = decimal.Zero
	}
	credit.StudentCreditLastSource = source
	if err := tx.Save(credit).Error; err != nil {
		return err
	}

	txn := model.CreditTransaction{
		CreditTransactionStudentCreditID: credit.StudentCreditID,
		CreditTransactionAmount:          amount,
		CreditTransactionType:            model.CreditTxReversal,
		CreditTransactionSource:          source,
		CreditTransactionReceiptID:       relatedReceiptID,
		CreditTransactionInvoiceID:       relatedInvoiceID,
		CreditTransactionPerformedBy:     performedBy,
	}
	return tx.Create(&txn).Error
}

/* =========================================================
   VERIFY — self-healing saldo credit
========================================================= */

// verifyCreditBalance menghitung ulang saldo dari sumber kebenaran
// (receipt credits aktif + overpayment invoice − credit allocations) dan
// MENGOREKSI row tersimpan kalau selisih melewati toleransi. Koreksi di-log
// warn; ini repair yang disengaja, bukan kegagalan diam-diam.
func (s *Service) verifyCreditBalance(tx *gorm.DB, studentID uuid.UUID) error {
	credit, err := lockCredit(tx, studentID)
	if err != nil || credit == nil {
		return err
	}

	var receiptCredits []model.ReceiptCredit
	if err := tx.
		Joins("JOIN receipts ON receipts.receipt_id = receipt_credits.receipt_credit_receipt_id").
		Where("receipt_credits.receipt_credit_student_credit_id = ? AND receipts.receipt_is_voided = FALSE", credit.StudentCreditID).
		Find(&receiptCredits).Error; err != nil {
		return err
	}

	var invoices []model.Invoice
	if err := tx.
		Where("invoice_student_id = ? AND invoice_is_voided = FALSE", studentID).
		Find(&invoices).Error; err != nil {
		return err
	}

	var creditAllocs []model.CreditInvoiceAllocation
	if err := tx.
		Where("credit_allocation_student_credit_id = ?", credit.StudentCreditID).
		Find(&creditAllocs).Error; err != nil {
		return err
	}

	expected := expectedCreditBalance(receiptCredits, invoices, creditAllocs)
	if expected.IsNegative() {
		expected = decimal.Zero
	}

	if !withinTolerance(expected, credit.StudentCreditAmount) {
		s.log.Warn("credit balance drift detected, auto-correcting",
			zap.String("student_id", studentID.String()),
			zap.String("stored", credit.StudentCreditAmount.String()),
			zap.String("expected", expected.String()),
		)
		credit.StudentCreditAmount = expected
		if err := tx.Save(credit).Error; err != nil {
			return err
		}
	}
	return nil
}

/* =========================================================
   FIFO — sumber credit
========================================================= */

// determineFifoSource mengembalikan receipt tertua yang kontribusi
// kumulatifnya menutup amountToApply, atau nil kalau credit tidak berasal
// dari receipt (grant manual).
func determineFifoSource(tx *gorm.DB, credit *model.StudentCredit, amountToApply decimal.Decimal) (*uuid.UUID, error) {
	var receiptCredits []model.ReceiptCredit
	if err := tx.
		Joins("JOIN receipts ON receipts.receipt_id = receipt_credits.receipt_credit_receipt_id").
		Where("receipt_credits.receipt_credit_student_credit_id = ? AND receipts.receipt_is_voided = FALSE", credit.StudentCreditID).
		Order("receipt_credits.receipt_credit_created_at ASC").
		Find(&receiptCredits).Error; err != nil {
		return nil, err
	}
	return fifoSource(receiptCredits, amountToApply), nil
}
