package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"labtrack_backend/internals/features/kits/service"
)

// ExpiryJob: dipasang di cron; unit in_stock dari batch kedaluwarsa → expired
func ExpiryJob(ledger *service.Ledger, now func() time.Time, log *zap.Logger) func() {
	if now == nil {
		now = time.Now
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n, err := ledger.ExpireKits(ctx, now())
		if err != nil {
			log.Error("kit expiry failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("kit expiry", zap.Int("expired", n))
		}
	}
}
