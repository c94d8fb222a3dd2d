// file: internals/features/finance/ledger/model/credit_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// STUDENT CREDIT — satu baris per student, saldo ≥ 0
// =========================================================

// StudentCredit dibuat lazily saat overpayment pertama dan tidak pernah
// dihapus. Mutasi hanya lewat operasi credit ledger.
type StudentCredit struct {
	// PK
	StudentCreditID uuid.UUID `gorm:"column:student_credit_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"student_credit_id"`

	// FK → students (satu credit row per student)
	StudentCreditStudentID uuid.UUID `gorm:"column:student_credit_student_id;type:uuid;not null;uniqueIndex" json:"student_credit_student_id"`

	StudentCreditAmount     decimal.Decimal `gorm:"column:student_credit_amount;type:numeric(14,2);not null;default:0;check:student_credit_amount >= 0" json:"student_credit_amount"`
	StudentCreditLastSource string          `gorm:"column:student_credit_last_source;type:varchar(255);not null;default:''" json:"student_credit_last_source"`

	StudentCreditCreatedAt time.Time `gorm:"column:student_credit_created_at;not null;default:now()" json:"student_credit_created_at"`
	StudentCreditUpdatedAt time.Time `gorm:"column:student_credit_updated_at;not null;default:now()" json:"student_credit_updated_at"`
}

func (StudentCredit) TableName() string { return "student_credits" }

func (m *StudentCredit) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.StudentCreditCreatedAt.IsZero() {
		m.StudentCreditCreatedAt = now
	}
	m.StudentCreditUpdatedAt = now
	return nil
}

func (m *StudentCredit) BeforeUpdate(tx *gorm.DB) error {
	m.StudentCreditUpdatedAt = time.Now()
	return nil
}

// =========================================================
// CREDIT TRANSACTION — histori append-only
// =========================================================

type CreditTransactionType string

const (
	CreditTxCredit      CreditTransactionType = "CREDIT"
	CreditTxApplication CreditTransactionType = "APPLICATION"
	CreditTxReversal    CreditTransactionType = "REVERSAL"
)

// CreditTransaction tidak pernah di-update atau dihapus.
// APPLICATION disimpan dengan amount negatif.
type CreditTransaction struct {
	CreditTransactionID uuid.UUID `gorm:"column:credit_transaction_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"credit_transaction_id"`

	// FK → student_credits
	CreditTransactionStudentCreditID uuid.UUID `gorm:"column:credit_transaction_student_credit_id;type:uuid;not null;index" json:"credit_transaction_student_credit_id"`

	CreditTransactionAmount decimal.Decimal       `gorm:"column:credit_transaction_amount;type:numeric(14,2);not null" json:"credit_transaction_amount"`
	CreditTransactionType   CreditTransactionType `gorm:"column:credit_transaction_type;type:varchar(15);not null;index" json:"credit_transaction_type"`
	CreditTransactionSource string                `gorm:"column:credit_transaction_source;type:varchar(255);not null" json:"credit_transaction_source"`

	CreditTransactionReceiptID *uuid.UUID `gorm:"column:credit_transaction_receipt_id;type:uuid;index" json:"credit_transaction_receipt_id,omitempty"`
	CreditTransactionInvoiceID *uuid.UUID `gorm:"column:credit_transaction_invoice_id;type:uuid;index" json:"credit_transaction_invoice_id,omitempty"`

	CreditTransactionPerformedBy uuid.UUID `gorm:"column:credit_transaction_performed_by;type:uuid;not null" json:"credit_transaction_performed_by"`

	CreditTransactionCreatedAt time.Time `gorm:"column:credit_transaction_created_at;not null;default:now();index" json:"credit_transaction_created_at"`
}

func (CreditTransaction) TableName() string { return "credit_transactions" }
