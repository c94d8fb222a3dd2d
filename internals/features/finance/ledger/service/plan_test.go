// file: internals/features/finance/ledger/service/plan_test.go
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

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func openInvoice(due time.Time, total, paid string) model.Invoice {
	t := d(total)
	p := d(paid)
	return model.Invoice{
		InvoiceID:         uuid.New(),
		InvoiceDueDate:    due,
		InvoiceTotalBill:  t,
		InvoiceAmountPaid: p,
		InvoiceBalance:    t.Sub(p),
	}
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, withinTolerance(d("100.00"), d("100.01")))
	assert.True(t, withinTolerance(d("100.00"), d("99.99")))
	assert.False(t, withinTolerance(d("100.00"), d("100.02")))
}

func TestComputeNetBill(t *testing.T) {
	bills := []Bill{
		{Name: "SPP", Amount: d("300000")},
		{Name: "Makan", Amount: d("150000"), IsFood: true},
		{Name: "Buku", Amount: d("50000")},
	}

	tests := []struct {
		name         string
		ex           *Exemption
		wantGross    string
		wantExempted string
	}{
		{"tanpa exemption", nil, "500000", "0"},
		{"fixed amount", &Exemption{Type: ExemptionFixedAmount, FixedAmount: d("100000")}, "500000", "100000"},
		{"percentage 10%", &Exemption{Type: ExemptionPercentage, Percentage: d("10")}, "500000", "50000"},
		{"staff sibling = 50% fee makan", &Exemption{Type: ExemptionStaffSibling}, "500000", "75000"},
		{"fixed melebihi gross di-clamp", &Exemption{Type: ExemptionFixedAmount, FixedAmount: d("999999")}, "500000", "500000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, exempted := computeNetBill(bills, tt.ex)
			assert.True(t, d(tt.wantGross).Equal(gross), "gross = %s", gross)
			assert.True(t, d(tt.wantExempted).Equal(exempted), "exempted = %s", exempted)
		})
	}
}

func TestTotalBillOf(t *testing.T) {
	assert.True(t, d("450000").Equal(totalBillOf(d("500000"), d("100000"), d("50000"))))
	// net tidak pernah negatif, brought-forward tetap ikut
	assert.True(t, d("25000").Equal(totalBillOf(d("100000"), d("150000"), d("25000"))))
}

func TestStatusOf(t *testing.T) {
	now := date(2026, 3, 15)
	future := date(2026, 4, 1)
	past := date(2026, 3, 1)

	assert.Equal(t, model.InvoiceStatusVoided, statusOf(true, d("100"), d("0"), future, now))
	assert.Equal(t, model.InvoiceStatusPaid, statusOf(false, d("0"), d("100"), past, now))
	assert.Equal(t, model.InvoiceStatusPending, statusOf(false, d("100"), d("0"), future, now))
	assert.Equal(t, model.InvoiceStatusPartiallyPaid, statusOf(false, d("60"), d("40"), future, now))
	assert.Equal(t, model.InvoiceStatusOverdue, statusOf(false, d("100"), d("0"), past, now))
	assert.Equal(t, model.InvoiceStatusOverdue, statusOf(false, d("60"), d("40"), past, now))
}

func TestPlanAllocationsOldestDueFirst(t *testing.T) {
	older := openInvoice(date(2026, 1, 10), "100", "0")
	newer := openInvoice(date(2026, 2, 10), "50", "0")

	// sengaja dimasukkan terbalik
	steps, remainder := planAllocations(d("120"), []model.Invoice{newer, older})

	require.Len(t, steps, 2)
	assert.Equal(t, older.InvoiceID, steps[0].InvoiceID)
	assert.True(t, d("100").Equal(steps[0].Amount))
	assert.Equal(t, newer.InvoiceID, steps[1].InvoiceID)
	assert.True(t, d("20").Equal(steps[1].Amount))
	assert.True(t, remainder.IsZero())
}

func TestPlanAllocationsTieBreakByID(t *testing.T) {
	due := date(2026, 1, 10)
	a := openInvoice(due, "30", "0")
	b := openInvoice(due, "30", "0")
	first, second := a, b
	if b.InvoiceID.String() < a.InvoiceID.String() {
		first, second = b, a
	}

	steps, _ := planAllocations(d("40"), []model.Invoice{a, b})
	require.Len(t, steps, 2)
	assert.Equal(t, first.InvoiceID, steps[0].InvoiceID)
	assert.Equal(t, second.InvoiceID, steps[1].InvoiceID)
}

func TestPlanAllocationsOverpaymentRemainder(t *testing.T) {
	inv := openInvoice(date(2026, 1, 10), "100", "0")

	steps, remainder := planAllocations(d("150"), []model.Invoice{inv})

	require.Len(t, steps, 1)
	assert.True(t, d("100").Equal(steps[0].Amount))
	assert.True(t, d("50").Equal(remainder))
}

func TestPlanAllocationsSkipsVoidedAndSettled(t *testing.T) {
	voided := openInvoice(date(2026, 1, 1), "100", "0")
	voided.InvoiceIsVoided = true
	settled := openInvoice(date(2026, 1, 5), "100", "100")
	open := openInvoice(date(2026, 1, 10), "80", "0")

	steps, remainder := planAllocations(d("80"), []model.Invoice{voided, settled, open})

	require.Len(t, steps, 1)
	assert.Equal(t, open.InvoiceID, steps[0].InvoiceID)
	assert.True(t, remainder.IsZero())
}

func TestFifoSource(t *testing.T) {
	r1 := uuid.New()
	r2 := uuid.New()
	credits := []model.ReceiptCredit{
		{ReceiptCreditReceiptID: r2, ReceiptCreditAmount: d("40"), ReceiptCreditCreatedAt: date(2026, 1, 2)},
		{ReceiptCreditReceiptID: r1, ReceiptCreditAmount: d("30"), ReceiptCreditCreatedAt: date(2026, 1, 1)},
	}

	// 20 tertutup oleh receipt tertua
	src := fifoSource(credits, d("20"))
	require.NotNil(t, src)
	assert.Equal(t, r1, *src)

	// 50 butuh kumulatif sampai receipt kedua
	src = fifoSource(credits, d("50"))
	require.NotNil(t, src)
	assert.Equal(t, r2, *src)

	// melebihi total kontribusi receipt: sumber tidak bisa ditentukan
	assert.Nil(t, fifoSource(credits, d("80")))
	assert.Nil(t, fifoSource(nil, d("10")))
}

func TestPlanLifoUnwind(t *testing.T) {
	oldest := model.CreditInvoiceAllocation{
		CreditAllocationID:     uuid.New(),
		CreditAllocationAmount: d("10"),
		CreditAllocationDate:   date(2026, 1, 1),
	}
	middle := model.CreditInvoiceAllocation{
		CreditAllocationID:     uuid.New(),
		CreditAllocationAmount: d("20"),
		CreditAllocationDate:   date(2026, 1, 2),
	}
	newest := model.CreditInvoiceAllocation{
		CreditAllocationID:     uuid.New(),
		CreditAllocationAmount: d("5"),
		CreditAllocationDate:   date(2026, 1, 3),
	}

	steps := planLifoUnwind([]model.CreditInvoiceAllocation{oldest, middle, newest}, d("22"))

	require.Len(t, steps, 2)
	assert.Equal(t, newest.CreditAllocationID, steps[0].Allocation.CreditAllocationID)
	assert.True(t, d("5").Equal(steps[0].Amount))
	assert.Equal(t, middle.CreditAllocationID, steps[1].Allocation.CreditAllocationID)
	assert.True(t, d("17").Equal(steps[1].Amount), "allocation terakhir dipotong sebagian")
}

func TestPlanAllocationShrinkNewestFirst(t *testing.T) {
	r1 := uuid.New()
	r2 := uuid.New()
	allocs := []model.ReceiptInvoiceAllocation{
		{ReceiptAllocationID: uuid.New(), ReceiptAllocationReceiptID: r1, ReceiptAllocationAmount: d("60"), ReceiptAllocationDate: date(2026, 1, 1)},
		{ReceiptAllocationID: uuid.New(), ReceiptAllocationReceiptID: r2, ReceiptAllocationAmount: d("50"), ReceiptAllocationDate: date(2026, 1, 5)},
	}

	// tagihan turun jadi 100, terbayar 110: kelebihan 10 dipotong dari
	// allocation terbaru, sebagian
	steps := planAllocationShrink(allocs, d("10"))
	require.Len(t, steps, 1)
	assert.Equal(t, r2, steps[0].Allocation.ReceiptAllocationReceiptID)
	assert.True(t, d("10").Equal(steps[0].Amount))
	assert.False(t, steps[0].Full)

	// kelebihan 55: allocation terbaru habis (Full), sisanya dari yang lama
	steps = planAllocationShrink(allocs, d("55"))
	require.Len(t, steps, 2)
	assert.True(t, steps[0].Full)
	assert.True(t, d("50").Equal(steps[0].Amount))
	assert.Equal(t, r1, steps[1].Allocation.ReceiptAllocationReceiptID)
	assert.True(t, d("5").Equal(steps[1].Amount))
	assert.False(t, steps[1].Full)
}

func TestPlanAllocationShrinkIdempotent(t *testing.T) {
	totalBill := d("100")
	allocs := []model.ReceiptInvoiceAllocation{
		{ReceiptAllocationID: uuid.New(), ReceiptAllocationAmount: d("60"), ReceiptAllocationDate: date(2026, 1, 1)},
		{ReceiptAllocationID: uuid.New(), ReceiptAllocationAmount: d("50"), ReceiptAllocationDate: date(2026, 1, 5)},
	}
	over := recomputedPaid(allocs, nil).Sub(totalBill)
	require.True(t, d("10").Equal(over))

	// terapkan plan pertama ke salinan state
	steps := planAllocationShrink(allocs, over)
	repaired := make([]model.ReceiptInvoiceAllocation, 0, len(allocs))
	for _, a := range allocs {
		keep := a
		for _, st := range steps {
			if st.Allocation.ReceiptAllocationID != a.ReceiptAllocationID {
				continue
			}
			if st.Full {
				keep.ReceiptAllocationAmount = decimal.Zero
			} else {
				keep.ReceiptAllocationAmount = keep.ReceiptAllocationAmount.Sub(st.Amount)
			}
		}
		if keep.ReceiptAllocationAmount.GreaterThan(decimal.Zero) {
			repaired = append(repaired, keep)
		}
	}

	// state terkoreksi: terbayar pas, pass kedua tidak memotong apa-apa
	assert.True(t, recomputedPaid(repaired, nil).Equal(totalBill))
	overAfter := recomputedPaid(repaired, nil).Sub(totalBill)
	assert.Empty(t, planAllocationShrink(repaired, overAfter))
}

func TestRecomputedPaid(t *testing.T) {
	receiptAllocs := []model.ReceiptInvoiceAllocation{
		{ReceiptAllocationAmount: d("40")},
		{ReceiptAllocationAmount: d("25.50")},
	}
	creditAllocs := []model.CreditInvoiceAllocation{
		{CreditAllocationAmount: d("10")},
	}
	assert.True(t, d("75.50").Equal(recomputedPaid(receiptAllocs, creditAllocs)))
	assert.True(t, recomputedPaid(nil, nil).IsZero())
}

func TestExpectedCreditBalance(t *testing.T) {
	receiptCredits := []model.ReceiptCredit{{ReceiptCreditAmount: d("50")}}
	creditAllocs := []model.CreditInvoiceAllocation{{CreditAllocationAmount: d("20")}}

	// 50 masuk − 20 terpakai
	got := expectedCreditBalance(receiptCredits, nil, creditAllocs)
	assert.True(t, d("30").Equal(got))

	// invoice overpaid menambah ekspektasi; invoice voided diabaikan
	overpaid := model.Invoice{InvoiceTotalBill: d("50"), InvoiceAmountPaid: d("100")}
	voided := model.Invoice{InvoiceTotalBill: d("50"), InvoiceAmountPaid: d("200"), InvoiceIsVoided: true}
	got = expectedCreditBalance(receiptCredits, []model.Invoice{overpaid, voided}, creditAllocs)
	assert.True(t, d("80").Equal(got))
}

func TestVerifyInvoiceBalance(t *testing.T) {
	inv := openInvoice(date(2026, 1, 10), "100", "60")
	inv.ReceiptAllocations = []model.ReceiptInvoiceAllocation{{ReceiptAllocationAmount: d("40")}}
	inv.CreditAllocations = []model.CreditInvoiceAllocation{{CreditAllocationAmount: d("20")}}

	require.NoError(t, verifyInvoiceBalance(&inv))

	// balance tersimpan menyimpang dari hasil hitung allocation
	inv.InvoiceBalance = d("55")
	err := verifyInvoiceBalance(&inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvoiceBalanceMismatch)
}
