package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(GetEnv(key)); err == nil {
		return v
	}
	return def
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(GetEnv(key)); err == nil {
		return v
	}
	return def
}

func GetEnvDecimal(key string, def string) decimal.Decimal {
	if v, err := decimal.NewFromString(GetEnv(key)); err == nil {
		return v
	}
	d, err := decimal.NewFromString(def)
	if err != nil {
		log.Fatalf("❌ default %s untuk %s bukan angka valid: %v", def, key, err)
	}
	return d
}

// =======================
// LEDGER TUNABLES
// =======================
// Nilai default selaras dengan aturan bagian keuangan; semua bisa
// dioverride lewat ENV tanpa rebuild.

func CreditCapPerStudent() decimal.Decimal {
	return GetEnvDecimal("LEDGER_CREDIT_CAP", "100000")
}

func CreditAmountCeiling() decimal.Decimal {
	return GetEnvDecimal("LEDGER_CREDIT_CEILING", "999999999.99")
}

func LargeCashThreshold() decimal.Decimal {
	return GetEnvDecimal("LEDGER_LARGE_CASH_THRESHOLD", "5000000")
}

func DuplicateReceiptWindow() time.Duration {
	return GetEnvDuration("LEDGER_DUPLICATE_RECEIPT_WINDOW", 5*time.Minute)
}
