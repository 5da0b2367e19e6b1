package housekeeping

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fleetledger/internal/logging"
	"fleetledger/internal/store"
)

// StartIdempotencyPurge runs a ticker-based worker, mirroring the teacher
// repo's fixed-interval retention worker, deleting idempotency_keys rows
// past their TTL.
func StartIdempotencyPurge(ctx context.Context, wg WaitGroup, idempotency *store.IdempotencyStore, interval time.Duration) {
	wg.SafeGo(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runPurge(ctx, idempotency)
			}
		}
	})
}

func runPurge(ctx context.Context, idempotency *store.IdempotencyStore) {
	n, err := idempotency.PurgeExpired(ctx)
	if err != nil {
		logging.Logger.Error("idempotency key purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		logging.Logger.Info("purged expired idempotency keys", zap.Int64("count", n))
	}
}

// WaitGroup is the subset of background.Tracker's SafeGo contract housekeeping needs,
// kept as an interface so this package doesn't import the background
// tracker directly.
type WaitGroup interface {
	SafeGo(fn func())
}
