// file: internals/features/finance/ledger/service/errors.go
package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Taksonomi error ledger:
//   - KindValidation : ditolak sebelum persist (amount/tanggal/referensi salah)
//   - KindStateConflict : state tidak mengizinkan (sudah void, duplikat, credit kurang)
//   - KindNotFound : entitas tidak ada
//   - KindInvariant : mismatch saldo setelah komputasi — selalu fatal, tidak
//     pernah ditelan; beda dengan drift yang di-repair reconciliation.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindStateConflict
	KindNotFound
	KindInvariant
)

// LedgerError membawa konteks cukup untuk diagnosis tanpa query ulang.
// Matching pakai errors.Is terhadap sentinel di bawah (berbasis Code).
type LedgerError struct {
	Kind     ErrorKind
	Code     string
	Entity   string
	EntityID uuid.UUID
	Msg      string
}

func (e *LedgerError) Error() string {
	if e.EntityID != uuid.Nil {
		return fmt.Sprintf("%s [%s %s]: %s", e.Code, e.Entity, e.EntityID, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	return ok && t.Code == e.Code
}

/* ===================== Sentinels ===================== */

var (
	ErrInvoiceValidation      = &LedgerError{Kind: KindValidation, Code: "INVOICE_VALIDATION", Entity: "invoice"}
	ErrReceiptValidation      = &LedgerError{Kind: KindValidation, Code: "RECEIPT_VALIDATION", Entity: "receipt"}
	ErrInvalidAmount          = &LedgerError{Kind: KindValidation, Code: "INVALID_AMOUNT", Entity: "student_credit"}
	ErrCreditLimitExceeded    = &LedgerError{Kind: KindStateConflict, Code: "CREDIT_LIMIT_EXCEEDED", Entity: "student_credit"}
	ErrInsufficientCredit     = &LedgerError{Kind: KindStateConflict, Code: "INSUFFICIENT_CREDIT", Entity: "student_credit"}
	ErrDuplicateReceipt       = &LedgerError{Kind: KindStateConflict, Code: "DUPLICATE_RECEIPT", Entity: "receipt"}
	ErrStudentNotEnrolled     = &LedgerError{Kind: KindStateConflict, Code: "STUDENT_NOT_ENROLLED", Entity: "student"}
	ErrReceiptRoleForbidden   = &LedgerError{Kind: KindStateConflict, Code: "RECEIPT_ROLE_FORBIDDEN", Entity: "receipt"}
	ErrInvoiceNotFound        = &LedgerError{Kind: KindNotFound, Code: "INVOICE_NOT_FOUND", Entity: "invoice"}
	ErrReceiptNotFound        = &LedgerError{Kind: KindNotFound, Code: "RECEIPT_NOT_FOUND", Entity: "receipt"}
	ErrStudentNotFound        = &LedgerError{Kind: KindNotFound, Code: "STUDENT_NOT_FOUND", Entity: "student"}
	ErrInvoiceAlreadyVoided   = &LedgerError{Kind: KindStateConflict, Code: "INVOICE_ALREADY_VOIDED", Entity: "invoice"}
	ErrReceiptAlreadyVoided   = &LedgerError{Kind: KindStateConflict, Code: "RECEIPT_ALREADY_VOIDED", Entity: "receipt"}
	ErrInvoiceBalanceMismatch = &LedgerError{Kind: KindInvariant, Code: "INVOICE_BALANCE_MISMATCH", Entity: "invoice"}
)

/* ===================== Constructors ===================== */

func invoiceValidationErr(id uuid.UUID, msg string) error {
	return &LedgerError{Kind: KindValidation, Code: ErrInvoiceValidation.Code, Entity: "invoice", EntityID: id, Msg: msg}
}

func receiptValidationErr(id uuid.UUID, msg string) error {
	return &LedgerError{Kind: KindValidation, Code: ErrReceiptValidation.Code, Entity: "receipt", EntityID: id, Msg: msg}
}

func invalidAmountErr(studentID uuid.UUID, amount decimal.Decimal, msg string) error {
	return &LedgerError{
		Kind: KindValidation, Code: ErrInvalidAmount.Code, Entity: "student_credit", EntityID: studentID,
		Msg: fmt.Sprintf("amount=%s: %s", amount, msg),
	}
}

func creditLimitExceededErr(studentID uuid.UUID, existing, adding, limit decimal.Decimal) error {
	return &LedgerError{
		Kind: KindStateConflict, Code: ErrCreditLimitExceeded.Code, Entity: "student_credit", EntityID: studentID,
		Msg: fmt.Sprintf("existing=%s adding=%s cap=%s", existing, adding, limit),
	}
}

func insufficientCreditErr(studentID uuid.UUID, available, requested decimal.Decimal) error {
	return &LedgerError{
		Kind: KindStateConflict, Code: ErrInsufficientCredit.Code, Entity: "student_credit", EntityID: studentID,
		Msg: fmt.Sprintf("available=%s requested=%s", available, requested),
	}
}

func duplicateReceiptErr(studentID uuid.UUID, amount decimal.Decimal) error {
	return &LedgerError{
		Kind: KindStateConflict, Code: ErrDuplicateReceipt.Code, Entity: "receipt", EntityID: studentID,
		Msg: fmt.Sprintf("receipt for same student with amount=%s exists within the duplicate window", amount),
	}
}

func studentNotEnrolledErr(studentID uuid.UUID) error {
	return &LedgerError{
		Kind: KindStateConflict, Code: ErrStudentNotEnrolled.Code, Entity: "student", EntityID: studentID,
		Msg: "no active enrolment",
	}
}

func receiptRoleForbiddenErr(role string) error {
	return &LedgerError{
		Kind: KindStateConflict, Code: ErrReceiptRoleForbidden.Code, Entity: "receipt",
		Msg: fmt.Sprintf("role %q may not issue or void receipts", role),
	}
}

func notFoundErr(sentinel *LedgerError, id uuid.UUID) error {
	return &LedgerError{Kind: KindNotFound, Code: sentinel.Code, Entity: sentinel.Entity, EntityID: id, Msg: "not found"}
}

func alreadyVoidedErr(sentinel *LedgerError, id uuid.UUID) error {
	return &LedgerError{Kind: KindStateConflict, Code: sentinel.Code, Entity: sentinel.Entity, EntityID: id, Msg: "already voided"}
}

func balanceMismatchErr(invoiceID uuid.UUID, stored, computed decimal.Decimal) error {
	return &LedgerError{
		Kind: KindInvariant, Code: ErrInvoiceBalanceMismatch.Code, Entity: "invoice", EntityID: invoiceID,
		Msg: fmt.Sprintf("stored=%s computed=%s", stored, computed),
	}
}

// HTTPStatus memetakan kind ke status code untuk layer controller.
// Aman untuk error yang sudah dibungkus fmt.Errorf %w.
func HTTPStatus(err error) int {
	var le *LedgerError
	if !errors.As(err, &le) {
		return 500
	}
	switch le.Kind {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindStateConflict:
		return 409
	default:
		return 500
	}
}
