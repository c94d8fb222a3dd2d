// file: internals/features/finance/ledger/service/service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	helper "sekolahku_backend/internals/helpers"
)

/* =========================================================
   Kontrak kolaborator eksternal (lookup & notifikasi)
========================================================= */

type StudentInfo struct {
	ID            uuid.UUID
	FullName      string
	GuardianEmail string
	GuardianPhone string
}

type EnrolmentInfo struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	TermID    uuid.UUID
	Active    bool
}

// StudentDirectory = lookup student/enrolment/fee/exemption.
// Implementasi GORM-nya ada di features/school/academics.
type StudentDirectory interface {
	GetStudent(ctx context.Context, id uuid.UUID) (*StudentInfo, error)
	GetActiveEnrolment(ctx context.Context, studentID uuid.UUID) (*EnrolmentInfo, error)
	GetBillsForInvoice(ctx context.Context, studentID, termID uuid.UUID) ([]Bill, error)
	GetActiveExemption(ctx context.Context, studentID uuid.UUID) (*Exemption, error)
}

// ReceiptSummary dikirim ke notifier setelah receipt berhasil dibuat.
type ReceiptSummary struct {
	ReceiptNumber string
	StudentName   string
	GuardianEmail string
	GuardianPhone string
	AmountPaid    decimal.Decimal
	PaymentMethod string
	PaymentDate   time.Time
}

// PaymentNotifier best-effort; dipanggil fire-and-forget.
type PaymentNotifier interface {
	NotifyPayment(ctx context.Context, summary ReceiptSummary) error
}

/* =========================================================
   Service
========================================================= */

type Config struct {
	CreditCap          decimal.Decimal // plafon credit per student
	CreditCeiling      decimal.Decimal // batas absolut satu mutasi credit
	LargeCashThreshold decimal.Decimal // di atas ini cash payment di-flag
	DuplicateWindow    time.Duration   // jendela deteksi receipt duplikat
}

func ConfigFromEnv() Config {
	return Config{
		CreditCap:          configs.CreditCapPerStudent(),
		CreditCeiling:      configs.CreditAmountCeiling(),
		LargeCashThreshold: configs.LargeCashThreshold(),
		DuplicateWindow:    configs.DuplicateReceiptWindow(),
	}
}

// Service = engine billing & credit reconciliation. Semua operasi mutasi
// berjalan dalam satu transaksi + lock per student.
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	dir      StudentDirectory
	audit    *AuditRecorder
	notifier PaymentNotifier
	locks    *helper.KeyedMutex
	cfg      Config
	now      func() time.Time // injectable untuk test
}

func New(db *gorm.DB, log *zap.Logger, dir StudentDirectory, notifier PaymentNotifier, cfg Config) *Service {
	return &Service{
		db:       db,
		log:      log,
		dir:      dir,
		audit:    NewAuditRecorder(db, log),
		notifier: notifier,
		locks:    helper.NewKeyedMutex(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// withStudentTx menserialisasi operasi per student (keyed mutex) lalu
// membuka satu transaksi atomik. Lock diambil SEBELUM transaksi supaya
// read-then-write tidak balapan antar request.
func (s *Service) withStudentTx(ctx context.Context, studentID uuid.UUID, fn func(tx *gorm.DB) error) error {
	unlock := s.locks.Lock(studentID.String())
	defer unlock()
	return s.db.WithContext(ctx).Transaction(fn)
}

/* =========================================================
   Penomoran dokumen
========================================================= */

// nextDocumentNumber membuat nomor urut INV-/RCP- per tahun. Unik final
// tetap dijaga unique index; race antar instance akan gagal insert dan
// bisa di-retry oleh caller.
func nextDocumentNumber(tx *gorm.DB, table, column, prefix string, at time.Time) (string, error) {
	var count int64
	year := at.Year()
	like := fmt.Sprintf("%s-%d-%%", prefix, year)
	if err := tx.Table(table).Where(column+" LIKE ?", like).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, count+1), nil
}

func nextInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	return nextDocumentNumber(tx, "invoices", "invoice_number", "INV", at)
}

func nextReceiptNumber(tx *gorm.DB, at time.Time) (string, error) {
	return nextDocumentNumber(tx, "receipts", "receipt_number", "RCP", at)
}
