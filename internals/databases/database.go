package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	academics "sekolahku_backend/internals/features/school/academics/model"
	ledger "sekolahku_backend/internals/features/finance/ledger/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// ✅ Gunakan URL/DSN lengkap + statement_timeout
	// Catatan: kalau pakai PgBouncer, ganti host/port ke port PgBouncer (mis. 6543) dan biarkan PreferSimpleProtocol=true
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=sekolahku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// MigrateAll menjalankan AutoMigrate untuk semua model.
// Urutan: akademik dulu (referenced), baru ledger keuangan.
func MigrateAll() {
	if err := DB.AutoMigrate(
		&academics.Student{},
		&academics.Term{},
		&academics.Enrolment{},
		&academics.FeeAssignment{},
		&academics.FeeExemption{},
		&ledger.Invoice{},
		&ledger.InvoiceBill{},
		&ledger.Receipt{},
		&ledger.ReceiptInvoiceAllocation{},
		&ledger.StudentCredit{},
		&ledger.CreditTransaction{},
		&ledger.ReceiptCredit{},
		&ledger.CreditInvoiceAllocation{},
		&ledger.AuditLogEntry{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
	log.Println("✅ Migrasi selesai.")
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool keisi & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
