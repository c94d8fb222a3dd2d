// file: internals/features/finance/ledger/dto/credit_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/ledger/model"
	"sekolahku_backend/internals/features/finance/ledger/service"
)

type CreditTransactionResponse struct {
	TransactionID uuid.UUID                   `json:"transaction_id"`
	Amount        decimal.Decimal             `json:"amount"`
	Type          model.CreditTransactionType `json:"type"`
	Source        string                      `json:"source"`
	ReceiptID     *uuid.UUID                  `json:"receipt_id,omitempty"`
	InvoiceID     *uuid.UUID                  `json:"invoice_id,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
}

type CreditStatementResponse struct {
	Balance      decimal.Decimal             `json:"balance"`
	LastSource   string                      `json:"last_source,omitempty"`
	Transactions []CreditTransactionResponse `json:"transactions"`
}

func NewCreditStatementResponse(st *service.CreditStatement) CreditStatementResponse {
	resp := CreditStatementResponse{
		Balance:      decimal.Zero,
		Transactions: []CreditTransactionResponse{},
	}
	if st.Credit != nil {
		resp.Balance = st.Credit.StudentCreditAmount
		resp.LastSource = st.Credit.StudentCreditLastSource
	}
	for _, t := range st.Transactions {
		resp.Transactions = append(resp.Transactions, CreditTransactionResponse{
			TransactionID: t.CreditTransactionID,
			Amount:        t.CreditTransactionAmount,
			Type:          t.CreditTransactionType,
			Source:        t.CreditTransactionSource,
			ReceiptID:     t.CreditTransactionReceiptID,
			InvoiceID:     t.CreditTransactionInvoiceID,
			CreatedAt:     t.CreditTransactionCreatedAt,
		})
	}
	return resp
}
