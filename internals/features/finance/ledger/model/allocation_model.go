// file: internals/features/finance/ledger/model/allocation_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =========================================================
// RECEIPT → INVOICE
// =========================================================

// ReceiptInvoiceAllocation mencatat berapa bagian dari satu receipt yang
// diterapkan ke satu invoice. Immutable setelah dibuat; hanya dihapus
// saat receipt/invoice di-void.
type ReceiptInvoiceAllocation struct {
	ReceiptAllocationID uuid.UUID `gorm:"column:receipt_allocation_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"receipt_allocation_id"`

	// FK → receipts / invoices
	ReceiptAllocationReceiptID uuid.UUID `gorm:"column:receipt_allocation_receipt_id;type:uuid;not null;index" json:"receipt_allocation_receipt_id"`
	ReceiptAllocationInvoiceID uuid.UUID `gorm:"column:receipt_allocation_invoice_id;type:uuid;not null;index" json:"receipt_allocation_invoice_id"`

	ReceiptAllocationAmount decimal.Decimal `gorm:"column:receipt_allocation_amount;type:numeric(14,2);not null" json:"receipt_allocation_amount"`
	ReceiptAllocationDate   time.Time       `gorm:"column:receipt_allocation_date;not null;default:now()" json:"receipt_allocation_date"`

	ReceiptAllocationCreatedAt time.Time `gorm:"column:receipt_allocation_created_at;not null;default:now()" json:"receipt_allocation_created_at"`
}

func (ReceiptInvoiceAllocation) TableName() string { return "receipt_invoice_allocations" }

// =========================================================
// RECEIPT → CREDIT (overpayment)
// =========================================================

// ReceiptCredit mencatat bahwa kelebihan bayar sebuah receipt menjadi
// credit. Dipakai untuk menelusuri sumber FIFO saat credit diterapkan
// atau di-reverse.
type ReceiptCredit struct {
	ReceiptCreditID uuid.UUID `gorm:"column:receipt_credit_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"receipt_credit_id"`

	// FK → receipts / student_credits
	ReceiptCreditReceiptID       uuid.UUID `gorm:"column:receipt_credit_receipt_id;type:uuid;not null;index" json:"receipt_credit_receipt_id"`
	ReceiptCreditStudentCreditID uuid.UUID `gorm:"column:receipt_credit_student_credit_id;type:uuid;not null;index" json:"receipt_credit_student_credit_id"`

	ReceiptCreditAmount decimal.Decimal `gorm:"column:receipt_credit_amount;type:numeric(14,2);not null;check:receipt_credit_amount > 0" json:"receipt_credit_amount"`

	ReceiptCreditCreatedAt time.Time `gorm:"column:receipt_credit_created_at;not null;default:now();index" json:"receipt_credit_created_at"`
}

func (ReceiptCredit) TableName() string { return "receipt_credits" }

// =========================================================
// CREDIT → INVOICE
// =========================================================

// CreditInvoiceAllocation mencatat credit yang diterapkan ke invoice.
// related_receipt_id (opsional) menunjuk receipt asal credit hasil
// penelusuran FIFO.
type CreditInvoiceAllocation struct {
	CreditAllocationID uuid.UUID `gorm:"column:credit_allocation_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"credit_allocation_id"`

	// FK → student_credits / invoices
	CreditAllocationStudentCreditID uuid.UUID `gorm:"column:credit_allocation_student_credit_id;type:uuid;not null;index" json:"credit_allocation_student_credit_id"`
	CreditAllocationInvoiceID       uuid.UUID `gorm:"column:credit_allocation_invoice_id;type:uuid;not null;index" json:"credit_allocation_invoice_id"`

	CreditAllocationAmount    decimal.Decimal `gorm:"column:credit_allocation_amount;type:numeric(14,2);not null" json:"credit_allocation_amount"`
	CreditAllocationReceiptID *uuid.UUID      `gorm:"column:credit_allocation_receipt_id;type:uuid;index" json:"credit_allocation_receipt_id,omitempty"`
	CreditAllocationDate      time.Time       `gorm:"column:credit_allocation_date;not null;default:now();index" json:"credit_allocation_date"`

	CreditAllocationCreatedAt time.Time `gorm:"column:credit_allocation_created_at;not null;default:now()" json:"credit_allocation_created_at"`
}

func (CreditInvoiceAllocation) TableName() string { return "credit_invoice_allocations" }
