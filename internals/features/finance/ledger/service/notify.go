// file: internals/features/finance/ledger/service/notify.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LogNotifier = implementasi default PaymentNotifier: hanya menulis log.
// Integrasi WA/email tinggal mengganti implementasi di wiring main.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyPayment(_ context.Context, sum ReceiptSummary) error {
	n.log.Info("📣 payment notification",
		zap.String("receipt_number", sum.ReceiptNumber),
		zap.String("student_name", sum.StudentName),
		zap.String("guardian_email", sum.GuardianEmail),
		zap.String("amount_paid", sum.AmountPaid.String()),
		zap.String("payment_method", sum.PaymentMethod),
	)
	return nil
}

// dispatchNotification mengirim notifikasi fire-and-forget. Panic atau
// error di notifier tidak boleh menyentuh alur finansial yang sudah commit.
func (s *Service) dispatchNotification(sum ReceiptSummary) {
	if s.notifier == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("notifier panic recovered", zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.NotifyPayment(ctx, sum); err != nil {
			s.log.Warn("payment notification failed",
				zap.String("receipt_number", sum.ReceiptNumber),
				zap.Error(err),
			)
		}
	}()
}
