// file: internals/features/finance/ledger/service/validation_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

func validInvoice(now time.Time) model.Invoice {
	enrID := uuid.New()
	return model.Invoice{
		InvoiceID:          uuid.New(),
		InvoiceStudentID:   uuid.New(),
		InvoiceTermID:      uuid.New(),
		InvoiceEnrolmentID: &enrID,
		InvoiceDate:        now.AddDate(0, 0, -1),
		InvoiceDueDate:     now.AddDate(0, 1, 0),
		InvoiceGrossBill:   d("500000"),
		InvoiceTotalBill:   d("500000"),
		InvoiceBalance:     d("500000"),
		Bills: []model.InvoiceBill{
			{InvoiceBillFeeName: "SPP", InvoiceBillAmount: d("500000")},
		},
	}
}

func TestValidateInvoice(t *testing.T) {
	now := date(2026, 3, 15)

	require.NoError(t, ValidateInvoice(ptrInvoice(validInvoice(now)), now))

	tests := []struct {
		name    string
		mutate  func(inv *model.Invoice)
		wantMsg string
	}{
		{"tanpa bill lines", func(inv *model.Invoice) { inv.Bills = nil }, "no bill lines"},
		{"bill line nol", func(inv *model.Invoice) { inv.Bills[0].InvoiceBillAmount = decimal.Zero }, "positive fee amount"},
		{"tanpa student", func(inv *model.Invoice) { inv.InvoiceStudentID = uuid.Nil }, "student reference"},
		{"tanpa enrolment", func(inv *model.Invoice) { inv.InvoiceEnrolmentID = nil }, "enrolment reference"},
		{"invoice date di masa depan", func(inv *model.Invoice) { inv.InvoiceDate = now.AddDate(0, 0, 1) }, "future"},
		{"due date sebelum invoice date", func(inv *model.Invoice) { inv.InvoiceDueDate = inv.InvoiceDate.AddDate(0, 0, -1) }, "precedes"},
		{"total bill negatif", func(inv *model.Invoice) { inv.InvoiceTotalBill = d("-1") }, "total bill is negative"},
		{"amount paid negatif", func(inv *model.Invoice) { inv.InvoiceAmountPaid = d("-1") }, "amount paid is negative"},
		{"balance negatif saat aktif", func(inv *model.Invoice) { inv.InvoiceBalance = d("-5") }, "balance is negative"},
		{"exempted melebihi gross", func(inv *model.Invoice) { inv.InvoiceExemptedAmount = d("600000") }, "exceeds gross"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice(now)
			tt.mutate(&inv)
			err := ValidateInvoice(&inv, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvoiceValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateInvoiceVoidedAllowsNilEnrolment(t *testing.T) {
	now := date(2026, 3, 15)
	inv := validInvoice(now)
	inv.InvoiceIsVoided = true
	inv.InvoiceEnrolmentID = nil
	inv.InvoiceBalance = inv.InvoiceTotalBill
	require.NoError(t, ValidateInvoice(&inv, now))
}

func validReceipt(now time.Time) model.Receipt {
	desc := "Pembayaran SPP Maret"
	return model.Receipt{
		ReceiptID:            uuid.New(),
		ReceiptStudentID:     uuid.New(),
		ReceiptAmountPaid:    d("250000"),
		ReceiptPaymentMethod: model.PaymentMethodCash,
		ReceiptPaymentDate:   now,
		ReceiptDescription:   &desc,
		ReceiptServedBy:      uuid.New(),
	}
}

func TestValidateReceipt(t *testing.T) {
	now := date(2026, 3, 15)

	require.NoError(t, ValidateReceipt(ptrReceipt(validReceipt(now)), now))

	empty := ""
	tests := []struct {
		name    string
		mutate  func(rc *model.Receipt)
		wantMsg string
	}{
		{"amount nol", func(rc *model.Receipt) { rc.ReceiptAmountPaid = decimal.Zero }, "greater than 0.01"},
		{"amount tepat di batas bawah", func(rc *model.Receipt) { rc.ReceiptAmountPaid = d("0.01") }, "greater than 0.01"},
		{"amount melewati plafon", func(rc *model.Receipt) { rc.ReceiptAmountPaid = d("1000000.01") }, "ceiling"},
		{"payment date lewat dari besok", func(rc *model.Receipt) { rc.ReceiptPaymentDate = now.Add(25 * time.Hour) }, "future"},
		{"payment date lebih dari setahun lalu", func(rc *model.Receipt) { rc.ReceiptPaymentDate = now.AddDate(-1, 0, -1) }, "year in the past"},
		{"tanpa payment method", func(rc *model.Receipt) { rc.ReceiptPaymentMethod = "" }, "payment method"},
		{"description nil", func(rc *model.Receipt) { rc.ReceiptDescription = nil }, "description"},
		{"description kosong", func(rc *model.Receipt) { rc.ReceiptDescription = &empty }, "description"},
		{"tanpa served-by", func(rc *model.Receipt) { rc.ReceiptServedBy = uuid.Nil }, "served-by"},
		{"alokasi melebihi amount", func(rc *model.Receipt) {
			rc.Allocations = []model.ReceiptInvoiceAllocation{
				{ReceiptAllocationAmount: d("250000.02")},
			}
		}, "exceed receipt amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := validReceipt(now)
			tt.mutate(&rc)
			err := ValidateReceipt(&rc, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrReceiptValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateReceiptBoundaries(t *testing.T) {
	now := date(2026, 3, 15)

	rc := validReceipt(now)
	rc.ReceiptAmountPaid = d("1000000")
	require.NoError(t, ValidateReceipt(&rc, now), "plafon adalah batas inklusif")

	rc = validReceipt(now)
	rc.ReceiptPaymentDate = now.Add(24 * time.Hour)
	require.NoError(t, ValidateReceipt(&rc, now), "besok masih diterima")

	rc = validReceipt(now)
	rc.Allocations = []model.ReceiptInvoiceAllocation{
		{ReceiptAllocationAmount: d("250000.01")},
	}
	require.NoError(t, ValidateReceipt(&rc, now), "selisih dalam toleransi")
}

func ptrInvoice(inv model.Invoice) *model.Invoice { return &inv }
func ptrReceipt(rc model.Receipt) *model.Receipt  { return &rc }
