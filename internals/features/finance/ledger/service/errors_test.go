// file: internals/features/finance/ledger/service/errors_test.go
package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerErrorMatching(t *testing.T) {
	id := uuid.New()

	err := notFoundErr(ErrInvoiceNotFound, id)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.NotErrorIs(t, err, ErrReceiptNotFound)
	assert.NotErrorIs(t, err, ErrInvoiceAlreadyVoided)

	// matching tetap jalan lewat wrapping
	wrapped := fmt.Errorf("save invoice: %w", alreadyVoidedErr(ErrInvoiceAlreadyVoided, id))
	assert.ErrorIs(t, wrapped, ErrInvoiceAlreadyVoided)

	var le *LedgerError
	require.True(t, errors.As(wrapped, &le))
	assert.Equal(t, "INVOICE_ALREADY_VOIDED", le.Code)
	assert.Equal(t, id, le.EntityID)
}

func TestLedgerErrorMessage(t *testing.T) {
	id := uuid.New()
	err := studentNotEnrolledErr(id)
	assert.Contains(t, err.Error(), "STUDENT_NOT_ENROLLED")
	assert.Contains(t, err.Error(), id.String())

	// tanpa entity id: cukup code + pesan
	err = receiptRoleForbiddenErr("teacher")
	assert.Equal(t, `RECEIPT_ROLE_FORBIDDEN: role "teacher" may not issue or void receipts`, err.Error())
}

func TestHTTPStatus(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", invoiceValidationErr(id, "x"), 400},
		{"not found", notFoundErr(ErrReceiptNotFound, id), 404},
		{"state conflict", duplicateReceiptErr(id, d("100")), 409},
		{"invariant", balanceMismatchErr(id, d("1"), d("2")), 500},
		{"dibungkus %w", fmt.Errorf("void receipt: %w", notFoundErr(ErrReceiptNotFound, id)), 404},
		{"error biasa", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
