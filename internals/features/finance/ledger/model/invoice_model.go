// file: internals/features/finance/ledger/model/invoice_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status invoice (derived, tersimpan untuk query)
// =========================================================

type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusVoided        InvoiceStatus = "voided"
)

// =========================================================
// MODEL
// =========================================================

// Invoice adalah aggregate root: allocations (receipt & credit) dan bill
// lines dimiliki invoice; perubahan saldo hanya lewat engine.
//
// Invariant: invoice_balance = invoice_total_bill − Σ(receipt allocations)
// − Σ(credit allocations), tidak pernah negatif selama aktif. Saat voided,
// amount_paid direset 0 dan semua allocation dihapus.
type Invoice struct {
	// PK
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"invoice_id"`

	InvoiceNumber string `gorm:"column:invoice_number;type:varchar(30);not null;uniqueIndex" json:"invoice_number"`

	// FK → students / terms; enrolment dilepas saat void supaya invoice
	// pengganti bisa dibuat untuk student+term yang sama.
	InvoiceStudentID   uuid.UUID  `gorm:"column:invoice_student_id;type:uuid;not null;index:ix_invoice_student" json:"invoice_student_id"`
	InvoiceTermID      uuid.UUID  `gorm:"column:invoice_term_id;type:uuid;not null;index" json:"invoice_term_id"`
	InvoiceEnrolmentID *uuid.UUID `gorm:"column:invoice_enrolment_id;type:uuid;index" json:"invoice_enrolment_id,omitempty"`

	InvoiceDate    time.Time `gorm:"column:invoice_date;not null" json:"invoice_date"`
	InvoiceDueDate time.Time `gorm:"column:invoice_due_date;not null;index:ix_invoice_due_date" json:"invoice_due_date"`

	// Nominal. total_bill = max(0, gross − exempted) + balance_brought_forward.
	InvoiceGrossBill             decimal.Decimal `gorm:"column:invoice_gross_bill;type:numeric(14,2);not null;default:0" json:"invoice_gross_bill"`
	InvoiceExemptedAmount        decimal.Decimal `gorm:"column:invoice_exempted_amount;type:numeric(14,2);not null;default:0" json:"invoice_exempted_amount"`
	InvoiceBalanceBroughtForward decimal.Decimal `gorm:"column:invoice_balance_brought_forward;type:numeric(14,2);not null;default:0" json:"invoice_balance_brought_forward"`
	InvoiceTotalBill             decimal.Decimal `gorm:"column:invoice_total_bill;type:numeric(14,2);not null;default:0" json:"invoice_total_bill"`
	InvoiceAmountPaid            decimal.Decimal `gorm:"column:invoice_amount_paid;type:numeric(14,2);not null;default:0" json:"invoice_amount_paid"`
	InvoiceBalance               decimal.Decimal `gorm:"column:invoice_balance;type:numeric(14,2);not null;default:0" json:"invoice_balance"`

	InvoiceStatus InvoiceStatus `gorm:"column:invoice_status;type:varchar(20);not null;default:'pending';index:ix_invoice_status" json:"invoice_status"`

	// Void (terminal; tidak pernah hard-delete)
	InvoiceIsVoided bool       `gorm:"column:invoice_is_voided;not null;default:false;index" json:"invoice_is_voided"`
	InvoiceVoidedAt *time.Time `gorm:"column:invoice_voided_at" json:"invoice_voided_at,omitempty"`
	InvoiceVoidedBy *uuid.UUID `gorm:"column:invoice_voided_by;type:uuid" json:"invoice_voided_by,omitempty"`

	// Relasi
	Bills              []InvoiceBill              `gorm:"foreignKey:InvoiceBillInvoiceID;references:InvoiceID" json:"bills,omitempty"`
	ReceiptAllocations []ReceiptInvoiceAllocation `gorm:"foreignKey:ReceiptAllocationInvoiceID;references:InvoiceID" json:"receipt_allocations,omitempty"`
	CreditAllocations  []CreditInvoiceAllocation  `gorm:"foreignKey:CreditAllocationInvoiceID;references:InvoiceID" json:"credit_allocations,omitempty"`

	// Timestamps
	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;not null;default:now();index" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;not null;default:now()" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.InvoiceCreatedAt.IsZero() {
		m.InvoiceCreatedAt = now
	}
	m.InvoiceUpdatedAt = now
	return nil
}

func (m *Invoice) BeforeUpdate(tx *gorm.DB) error {
	m.InvoiceUpdatedAt = time.Now()
	return nil
}

// =========================================================
// BILL LINE — rincian fee yang membentuk gross bill
// =========================================================

type InvoiceBill struct {
	InvoiceBillID uuid.UUID `gorm:"column:invoice_bill_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"invoice_bill_id"`

	// FK → invoices
	InvoiceBillInvoiceID uuid.UUID `gorm:"column:invoice_bill_invoice_id;type:uuid;not null;index" json:"invoice_bill_invoice_id"`

	InvoiceBillFeeName string          `gorm:"column:invoice_bill_fee_name;type:varchar(60);not null" json:"invoice_bill_fee_name"`
	InvoiceBillAmount  decimal.Decimal `gorm:"column:invoice_bill_amount;type:numeric(14,2);not null" json:"invoice_bill_amount"`
	InvoiceBillIsFood  bool            `gorm:"column:invoice_bill_is_food;not null;default:false" json:"invoice_bill_is_food"`

	InvoiceBillCreatedAt time.Time `gorm:"column:invoice_bill_created_at;not null;default:now()" json:"invoice_bill_created_at"`
}

func (InvoiceBill) TableName() string { return "invoice_bills" }
