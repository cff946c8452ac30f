package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"labtrack_backend/internals/features/users/auth/service"
)

// BlacklistCleanupJob: dipasang di cron; menghapus token blacklist yang
// expired_at-nya sudah lewat lebih dari retentionDays.
func BlacklistCleanupJob(svc *service.Service, retentionDays int, log *zap.Logger) func() {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := svc.CleanupBlacklist(ctx, retention)
		if err != nil {
			log.Error("blacklist cleanup failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("blacklist cleanup", zap.Int64("deleted", n))
		} else {
			log.Debug("blacklist cleanup: nothing to delete")
		}
	}
}
