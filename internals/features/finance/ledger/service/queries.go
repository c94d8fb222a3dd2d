// file: internals/features/finance/ledger/service/queries.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/ledger/model"
	helper "sekolahku_backend/internals/helpers"
)

/* =========================================================
   QUERIES — read-only, tanpa lock per student
========================================================= */

// Whitelist kolom sort; sort_by di luar daftar jatuh ke default.
var (
	invoiceSortColumns = map[string]string{
		"due_date":         "invoice_due_date",
		"invoice_due_date": "invoice_due_date",
		"invoice_date":     "invoice_date",
		"number":           "invoice_number",
		"total":            "invoice_total_bill",
		"balance":          "invoice_balance",
		"status":           "invoice_status",
		"created_at":       "invoice_created_at",
	}
	receiptSortColumns = map[string]string{
		"payment_date":         "receipt_payment_date",
		"receipt_payment_date": "receipt_payment_date",
		"amount":               "receipt_amount_paid",
		"number":               "receipt_number",
		"created_at":           "receipt_created_at",
	}
)

type InvoiceFilter struct {
	StudentID *uuid.UUID
	TermID    *uuid.UUID
	Status    *model.InvoiceStatus
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := s.db.WithContext(ctx).
		Preload("Bills").
		Preload("ReceiptAllocations").
		Preload("CreditAllocations").
		First(&inv, "invoice_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundErr(ErrInvoiceNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, f InvoiceFilter, p helper.Params) ([]model.Invoice, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Invoice{})
	if f.StudentID != nil {
		q = q.Where("invoice_student_id = ?", *f.StudentID)
	}
	if f.TermID != nil {
		q = q.Where("invoice_term_id = ?", *f.TermID)
	}
	if f.Status != nil {
		q = q.Where("invoice_status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause, err := p.SafeOrderClause(invoiceSortColumns, "invoice_due_date")
	if err != nil {
		return nil, 0, err
	}

	var invoices []model.Invoice
	err = q.
		Preload("Bills").
		Order(strings.TrimPrefix(orderClause, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&invoices).Error
	return invoices, total, err
}

type ReceiptFilter struct {
	StudentID     *uuid.UUID
	PaymentMethod *string
	IncludeVoided bool
}

func (s *Service) GetReceipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var receipt model.Receipt
	err := s.db.WithContext(ctx).
		Preload("Allocations").
		First(&receipt, "receipt_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundErr(ErrReceiptNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (s *Service) ListReceipts(ctx context.Context, f ReceiptFilter, p helper.Params) ([]model.Receipt, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.Receipt{})
	if f.StudentID != nil {
		q = q.Where("receipt_student_id = ?", *f.StudentID)
	}
	if f.PaymentMethod != nil {
		q = q.Where("receipt_payment_method = ?", *f.PaymentMethod)
	}
	if !f.IncludeVoided {
		q = q.Where("receipt_is_voided = FALSE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause, err := p.SafeOrderClause(receiptSortColumns, "receipt_payment_date")
	if err != nil {
		return nil, 0, err
	}

	var receipts []model.Receipt
	err = q.
		Preload("Allocations").
		Order(strings.TrimPrefix(orderClause, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&receipts).Error
	return receipts, total, err
}

// CreditStatement = saldo berjalan + histori transaksi untuk satu student.
type CreditStatement struct {
	Credit       *model.StudentCredit      `json:"credit"`
	Transactions []model.CreditTransaction `json:"transactions"`
}

// GetCreditStatement mengembalikan statement credit; student tanpa credit
// row mendapat statement kosong, bukan 404.
func (s *Service) GetCreditStatement(ctx context.Context, studentID uuid.UUID) (*CreditStatement, error) {
	var credit model.StudentCredit
	err := s.db.WithContext(ctx).
		First(&credit, "student_credit_student_id = ?", studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CreditStatement{}, nil
	}
	if err != nil {
		return nil, err
	}

	var txns []model.CreditTransaction
	if err := s.db.WithContext(ctx).
		Where("credit_transaction_student_credit_id = ?", credit.StudentCreditID).
		Order("credit_transaction_created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return &CreditStatement{Credit: &credit, Transactions: txns}, nil
}

type AuditFilter struct {
	EntityType *string
	EntityID   *uuid.UUID
	Action     *string
}

func (s *Service) ListAuditLog(ctx context.Context, f AuditFilter, p helper.Params) ([]model.AuditLogEntry, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.AuditLogEntry{})
	if f.EntityType != nil {
		q = q.Where("audit_entity_type = ?", *f.EntityType)
	}
	if f.EntityID != nil {
		q = q.Where("audit_entity_id = ?", *f.EntityID)
	}
	if f.Action != nil {
		q = q.Where("audit_action = ?", *f.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AuditLogEntry
	err := q.
		Order("audit_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&entries).Error
	return entries, total, err
}
