// file: internals/features/finance/ledger/model/receipt_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodQRIS         = "qris"
	PaymentMethodCheque       = "cheque"
	PaymentMethodOther        = "other"
)

/* ===================== Model ===================== */

// Receipt = bukti pembayaran masuk; satu receipt bisa menutup beberapa
// invoice lewat ReceiptInvoiceAllocation (referensi bersama dengan invoice).
//
// Invariant: Σ(allocations dari receipt ini) ≤ receipt_amount_paid.
type Receipt struct {
	// PK
	ReceiptID uuid.UUID `gorm:"column:receipt_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"receipt_id"`

	ReceiptNumber string `gorm:"column:receipt_number;type:varchar(30);not null;uniqueIndex" json:"receipt_number"`

	// FK → students
	ReceiptStudentID uuid.UUID `gorm:"column:receipt_student_id;type:uuid;not null;index:ix_receipt_student" json:"receipt_student_id"`

	ReceiptAmountPaid    decimal.Decimal `gorm:"column:receipt_amount_paid;type:numeric(14,2);not null" json:"receipt_amount_paid"`
	ReceiptPaymentMethod string          `gorm:"column:receipt_payment_method;type:varchar(20);not null" json:"receipt_payment_method"`
	ReceiptPaymentDate   time.Time       `gorm:"column:receipt_payment_date;not null;index" json:"receipt_payment_date"`

	ReceiptDescription *string   `gorm:"column:receipt_description;type:varchar(255)" json:"receipt_description,omitempty"`
	ReceiptServedBy    uuid.UUID `gorm:"column:receipt_served_by;type:uuid;not null" json:"receipt_served_by"`

	// Void (terminal)
	ReceiptIsVoided bool       `gorm:"column:receipt_is_voided;not null;default:false;index" json:"receipt_is_voided"`
	ReceiptVoidedAt *time.Time `gorm:"column:receipt_voided_at" json:"receipt_voided_at,omitempty"`
	ReceiptVoidedBy *uuid.UUID `gorm:"column:receipt_voided_by;type:uuid" json:"receipt_voided_by,omitempty"`

	// Relasi
	Allocations []ReceiptInvoiceAllocation `gorm:"foreignKey:ReceiptAllocationReceiptID;references:ReceiptID" json:"allocations,omitempty"`

	// Timestamps
	ReceiptCreatedAt time.Time      `gorm:"column:receipt_created_at;not null;default:now();index" json:"receipt_created_at"`
	ReceiptUpdatedAt time.Time      `gorm:"column:receipt_updated_at;not null;default:now()" json:"receipt_updated_at"`
	ReceiptDeletedAt gorm.DeletedAt `gorm:"column:receipt_deleted_at;index" json:"-"`
}

func (Receipt) TableName() string { return "receipts" }

func (m *Receipt) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.ReceiptCreatedAt.IsZero() {
		m.ReceiptCreatedAt = now
	}
	m.ReceiptUpdatedAt = now
	return nil
}

func (m *Receipt) BeforeUpdate(tx *gorm.DB) error {
	m.ReceiptUpdatedAt = time.Now()
	return nil
}
