// file: internals/features/finance/ledger/dto/invoice_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

/* ===================== Requests ===================== */

type SaveInvoiceRequest struct {
	StudentID             uuid.UUID        `json:"student_id" validate:"required"`
	DueDate               time.Time        `json:"due_date" validate:"required"`
	InvoiceDate           *time.Time       `json:"invoice_date,omitempty"`
	BalanceBroughtForward *decimal.Decimal `json:"balance_brought_forward,omitempty"`
}

type VoidInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

/* ===================== Responses ===================== */

type InvoiceBillResponse struct {
	FeeName string          `json:"fee_name"`
	Amount  decimal.Decimal `json:"amount"`
	IsFood  bool            `json:"is_food"`
}

type InvoiceResponse struct {
	InvoiceID             uuid.UUID             `json:"invoice_id"`
	InvoiceNumber         string                `json:"invoice_number"`
	StudentID             uuid.UUID             `json:"student_id"`
	TermID                uuid.UUID             `json:"term_id"`
	InvoiceDate           time.Time             `json:"invoice_date"`
	DueDate               time.Time             `json:"due_date"`
	GrossBill             decimal.Decimal       `json:"gross_bill"`
	ExemptedAmount        decimal.Decimal       `json:"exempted_amount"`
	BalanceBroughtForward decimal.Decimal       `json:"balance_brought_forward"`
	TotalBill             decimal.Decimal       `json:"total_bill"`
	AmountPaid            decimal.Decimal       `json:"amount_paid"`
	Balance               decimal.Decimal       `json:"balance"`
	Status                model.InvoiceStatus   `json:"status"`
	IsVoided              bool                  `json:"is_voided"`
	Bills                 []InvoiceBillResponse `json:"bills,omitempty"`
}

func NewInvoiceResponse(m *model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:             m.InvoiceID,
		InvoiceNumber:         m.InvoiceNumber,
		StudentID:             m.InvoiceStudentID,
		TermID:                m.InvoiceTermID,
		InvoiceDate:           m.InvoiceDate,
		DueDate:               m.InvoiceDueDate,
		GrossBill:             m.InvoiceGrossBill,
		ExemptedAmount:        m.InvoiceExemptedAmount,
		BalanceBroughtForward: m.InvoiceBalanceBroughtForward,
		TotalBill:             m.InvoiceTotalBill,
		AmountPaid:            m.InvoiceAmountPaid,
		Balance:               m.InvoiceBalance,
		Status:                m.InvoiceStatus,
		IsVoided:              m.InvoiceIsVoided,
	}
	for _, b := range m.Bills {
		resp.Bills = append(resp.Bills, InvoiceBillResponse{
			FeeName: b.InvoiceBillFeeName,
			Amount:  b.InvoiceBillAmount,
			IsFood:  b.InvoiceBillIsFood,
		})
	}
	return resp
}

func NewInvoiceResponses(ms []model.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewInvoiceResponse(&ms[i]))
	}
	return out
}
