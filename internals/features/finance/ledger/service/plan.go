// file: internals/features/finance/ledger/service/plan.go
package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

// Semua perbandingan uang pakai toleransi 0.01 (dua digit desimal).
var Tolerance = decimal.New(1, -2)

func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

func aboveTolerance(d decimal.Decimal) bool {
	return d.GreaterThan(Tolerance)
}

/* =========================================================
   NET BILL — fee lines + exemption
========================================================= */

// Bill = satu pos biaya dari sumber fee (lihat StudentDirectory).
type Bill struct {
	Name   string
	Amount decimal.Decimal
	IsFood bool
}

type ExemptionType string

const (
	ExemptionFixedAmount  ExemptionType = "fixed_amount"
	ExemptionPercentage   ExemptionType = "percentage"
	ExemptionStaffSibling ExemptionType = "staff_sibling"
)

type Exemption struct {
	Type        ExemptionType
	FixedAmount decimal.Decimal
	Percentage  decimal.Decimal
}

// computeNetBill menghitung gross dan exempted amount dari bill lines.
// Aturan staff_sibling: fee non-makan penuh + 50% fee makan, jadi
// exempted = setengah total fee makan. Exempted tidak pernah melebihi gross.
func computeNetBill(bills []Bill, ex *Exemption) (gross, exempted decimal.Decimal) {
	gross = decimal.Zero
	food := decimal.Zero
	for _, b := range bills {
		gross = gross.Add(b.Amount)
		if b.IsFood {
			food = food.Add(b.Amount)
		}
	}

	exempted = decimal.Zero
	if ex != nil {
		switch ex.Type {
		case ExemptionFixedAmount:
			exempted = ex.FixedAmount
		case ExemptionPercentage:
			exempted = gross.Mul(ex.Percentage).Div(decimal.NewFromInt(100))
		case ExemptionStaffSibling:
			exempted = food.Div(decimal.NewFromInt(2))
		}
	}
	if exempted.GreaterThan(gross) {
		exempted = gross
	}
	if exempted.IsNegative() {
		exempted = decimal.Zero
	}
	return gross.Round(2), exempted.Round(2)
}

// totalBillOf: max(0, gross − exempted) + balance brought forward.
func totalBillOf(gross, exempted, broughtForward decimal.Decimal) decimal.Decimal {
	net := gross.Sub(exempted)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return net.Add(broughtForward).Round(2)
}

/* =========================================================
   STATUS — derivasi murni, tidak menyentuh DB
========================================================= */

func statusOf(isVoided bool, balance, amountPaid decimal.Decimal, dueDate, now time.Time) model.InvoiceStatus {
	if isVoided {
		return model.InvoiceStatusVoided
	}
	if balance.LessThanOrEqual(Tolerance) {
		return model.InvoiceStatusPaid
	}
	overdue := now.After(dueDate)
	if amountPaid.GreaterThan(Tolerance) {
		if overdue {
			return model.InvoiceStatusOverdue
		}
		return model.InvoiceStatusPartiallyPaid
	}
	if overdue {
		return model.InvoiceStatusOverdue
	}
	return model.InvoiceStatusPending
}

/* =========================================================
   ALLOCATION PLAN — urutan deterministik, oldest-due first
========================================================= */

type allocationStep struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// sortInvoicesForAllocation: due date ascending, tie-break invoice id
// ascending supaya urutan deterministik.
func sortInvoicesForAllocation(invoices []model.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		if !invoices[i].InvoiceDueDate.Equal(invoices[j].InvoiceDueDate) {
			return invoices[i].InvoiceDueDate.Before(invoices[j].InvoiceDueDate)
		}
		return invoices[i].InvoiceID.String() < invoices[j].InvoiceID.String()
	})
}

// planAllocations membagi amount ke invoice secara greedy:
// min(sisa pembayaran, balance invoice) per invoice sampai habis.
// Invoice dengan balance ≤ toleransi dilewati. Sisa dikembalikan
// sebagai remainder (calon credit).
func planAllocations(amount decimal.Decimal, invoices []model.Invoice) (steps []allocationStep, remainder decimal.Decimal) {
	sortInvoicesForAllocation(invoices)

	remaining := amount
	for _, inv := range invoices {
		if !aboveTolerance(remaining) {
			break
		}
		if inv.InvoiceIsVoided || !aboveTolerance(inv.InvoiceBalance) {
			continue
		}
		applied := decimal.Min(remaining, inv.InvoiceBalance)
		steps = append(steps, allocationStep{InvoiceID: inv.InvoiceID, Amount: applied.Round(2)})
		remaining = remaining.Sub(applied)
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return steps, remaining.Round(2)
}

/* =========================================================
   FIFO / LIFO — penelusuran sumber credit
========================================================= */

// fifoSource menelusuri ReceiptCredit tertua → terbaru dan mengembalikan
// receipt pertama yang kontribusi kumulatifnya menutup amountToApply.
// Nil kalau credit bukan berasal dari receipt (mis. grant manual).
func fifoSource(credits []model.ReceiptCredit, amountToApply decimal.Decimal) *uuid.UUID {
	sort.SliceStable(credits, func(i, j int) bool {
		return credits[i].ReceiptCreditCreatedAt.Before(credits[j].ReceiptCreditCreatedAt)
	})

	cum := decimal.Zero
	for _, rc := range credits {
		cum = cum.Add(rc.ReceiptCreditAmount)
		if cum.GreaterThanOrEqual(amountToApply) {
			id := rc.ReceiptCreditReceiptID
			return &id
		}
	}
	return nil
}

type shrinkStep struct {
	Allocation model.ReceiptInvoiceAllocation
	Amount     decimal.Decimal // porsi allocation yang dikonversi jadi credit
	Full       bool            // allocation dihapus seluruhnya
}

// planAllocationShrink memilih receipt allocation terbaru → tertua sampai
// kelebihan pembayaran `over` tertutup. Allocation terakhir bisa dipotong
// sebagian. Dipakai koreksi invoice overpaid: tiap potongan dikonversi
// jadi credit ber-trace receipt asal. Pada state yang sudah dikoreksi
// (over ≤ toleransi) hasilnya kosong, jadi koreksi idempotent.
func planAllocationShrink(allocs []model.ReceiptInvoiceAllocation, over decimal.Decimal) []shrinkStep {
	sort.SliceStable(allocs, func(i, j int) bool {
		return allocs[i].ReceiptAllocationDate.After(allocs[j].ReceiptAllocationDate)
	})

	var steps []shrinkStep
	remaining := over
	for _, a := range allocs {
		if !aboveTolerance(remaining) {
			break
		}
		take := decimal.Min(remaining, a.ReceiptAllocationAmount).Round(2)
		steps = append(steps, shrinkStep{
			Allocation: a,
			Amount:     take,
			Full:       withinTolerance(take, a.ReceiptAllocationAmount),
		})
		remaining = remaining.Sub(take)
	}
	return steps
}

type unwindStep struct {
	Allocation model.CreditInvoiceAllocation
	Amount     decimal.Decimal // porsi allocation yang dibatalkan
}

// planLifoUnwind memilih CreditInvoiceAllocation terbaru → tertua sampai
// amount tertentu ter-cover. Allocation terakhir bisa dipotong sebagian.
// Dipakai saat void receipt: aplikasi credit dibongkar kebalikan dari
// urutan penerapannya.
func planLifoUnwind(allocs []model.CreditInvoiceAllocation, amount decimal.Decimal) []unwindStep {
	sort.SliceStable(allocs, func(i, j int) bool {
		return allocs[i].CreditAllocationDate.After(allocs[j].CreditAllocationDate)
	})

	var steps []unwindStep
	remaining := amount
	for _, a := range allocs {
		if !aboveTolerance(remaining) {
			break
		}
		take := decimal.Min(remaining, a.CreditAllocationAmount)
		steps = append(steps, unwindStep{Allocation: a, Amount: take.Round(2)})
		remaining = remaining.Sub(take)
	}
	return steps
}

/* =========================================================
   VERIFY — fase murni, tanpa side effect
========================================================= */

// recomputedPaid menjumlahkan allocation aktual; stored amount_paid tidak
// pernah dipercaya saat reconciliation.
func recomputedPaid(receiptAllocs []model.ReceiptInvoiceAllocation, creditAllocs []model.CreditInvoiceAllocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range receiptAllocs {
		sum = sum.Add(a.ReceiptAllocationAmount)
	}
	for _, a := range creditAllocs {
		sum = sum.Add(a.CreditAllocationAmount)
	}
	return sum.Round(2)
}

// expectedCreditBalance: Σ receipt credits + Σ overpayment invoice aktif
// (max(0, paid − total bill)) − Σ credit allocations, floor 0 di caller.
func expectedCreditBalance(
	receiptCredits []model.ReceiptCredit,
	invoices []model.Invoice,
	creditAllocs []model.CreditInvoiceAllocation,
) decimal.Decimal {
	expected := decimal.Zero
	for _, rc := range receiptCredits {
		expected = expected.Add(rc.ReceiptCreditAmount)
	}
	for _, inv := range invoices {
		if inv.InvoiceIsVoided {
			continue
		}
		over := inv.InvoiceAmountPaid.Sub(inv.InvoiceTotalBill)
		if over.GreaterThan(decimal.Zero) {
			expected = expected.Add(over)
		}
	}
	for _, a := range creditAllocs {
		expected = expected.Sub(a.CreditAllocationAmount)
	}
	return expected.Round(2)
}

// verifyInvoiceBalance memastikan balance == totalBill − Σ allocation;
// mengembalikan error invariant kalau selisih melewati toleransi.
func verifyInvoiceBalance(inv *model.Invoice) error {
	computed := inv.InvoiceTotalBill.Sub(recomputedPaid(inv.ReceiptAllocations, inv.CreditAllocations))
	if !withinTolerance(inv.InvoiceBalance, computed) {
		return balanceMismatchErr(inv.InvoiceID, inv.InvoiceBalance, computed)
	}
	if !inv.InvoiceIsVoided && inv.InvoiceBalance.LessThan(Tolerance.Neg()) {
		return balanceMismatchErr(inv.InvoiceID, inv.InvoiceBalance, computed)
	}
	return nil
}
