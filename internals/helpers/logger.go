// file: internals/helpers/logger.go
package helper

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	zapLogger *zap.Logger
	zapOnce   sync.Once
)

// InitLogger menyiapkan zap global. Production config kalau GO_ENV=production,
// selain itu development (berwarna, level debug).
func InitLogger() {
	zapOnce.Do(func() {
		var cfg zap.Config
		if os.Getenv("GO_ENV") == "production" {
			cfg = zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		var err error
		zapLogger, err = cfg.Build()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	})
}

// Logger mengembalikan zap global (lazily initialized).
func Logger() *zap.Logger {
	if zapLogger == nil {
		InitLogger()
	}
	return zapLogger
}
