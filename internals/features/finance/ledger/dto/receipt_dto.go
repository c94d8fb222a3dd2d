// file: internals/features/finance/ledger/dto/receipt_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* ===================== Requests ===================== */

type CreateReceiptRequest struct {
	StudentID     uuid.UUID       `json:"student_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash bank_transfer qris cheque other"`
	PaymentDate   time.Time       `json:"payment_date" validate:"required"`
	Description   *string         `json:"description,omitempty" validate:"omitempty,max=255"`
}

type VoidReceiptRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

/* ===================== Responses ===================== */

type ReceiptAllocationResponse struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
}

type ReceiptResponse struct {
	ReceiptID     uuid.UUID                   `json:"receipt_id"`
	ReceiptNumber string                      `json:"receipt_number"`
	StudentID     uuid.UUID                   `json:"student_id"`
	AmountPaid    decimal.Decimal             `json:"amount_paid"`
	PaymentMethod string                      `json:"payment_method"`
	PaymentDate   time.Time                   `json:"payment_date"`
	Description   *string                     `json:"description,omitempty"`
	IsVoided      bool                        `json:"is_voided"`
	Allocations   []ReceiptAllocationResponse `json:"allocations,omitempty"`
}

func NewReceiptResponse(m *model.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ReceiptID:     m.ReceiptID,
		ReceiptNumber: m.ReceiptNumber,
		StudentID:     m.ReceiptStudentID,
		AmountPaid:    m.ReceiptAmountPaid,
		PaymentMethod: m.ReceiptPaymentMethod,
		PaymentDate:   m.ReceiptPaymentDate,
		Description:   m.ReceiptDescription,
		IsVoided:      m.ReceiptIsVoided,
	}
	for _, a := range m.Allocations {
		resp.Allocations = append(resp.Allocations, ReceiptAllocationResponse{
			InvoiceID: a.ReceiptAllocationInvoiceID,
			Amount:    a.ReceiptAllocationAmount,
			Date:      a.ReceiptAllocationDate,
		})
	}
	return resp
}

func NewReceiptResponses(ms []model.Receipt) []ReceiptResponse {
	out := make([]ReceiptResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewReceiptResponse(&ms[i]))
	}
	return out
}
