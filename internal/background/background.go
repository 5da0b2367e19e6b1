package background

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"fleetledger/internal/logging"
)

// globalWaitGroup tracks every goroutine started through SafeGo (the
// idempotency purge worker; the cron-scheduled outbox drain is not tracked
// here) so shutdown can wait for them to drain instead of killing them
// mid-write.
var globalWaitGroup sync.WaitGroup

// Tracker is the package-level handle passed to components that need to
// spawn tracked goroutines without importing this package's global state
// directly.
type Tracker struct{}

func NewTracker() Tracker { return Tracker{} }

func (Tracker) SafeGo(fn func()) {
	SafeGo(fn)
}

// SafeGo runs fn in a goroutine tracked by the global wait group.
func SafeGo(fn func()) {
	globalWaitGroup.Add(1)
	go func() {
		defer globalWaitGroup.Done()
		fn()
	}()
}

// WaitForBackgroundTasks blocks until every tracked goroutine finishes, or
// timeout elapses first.
func WaitForBackgroundTasks(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		globalWaitGroup.Wait()
	}()

	select {
	case <-done:
		logging.Logger.Info("all background tasks completed")
	case <-time.After(timeout):
		logging.Logger.Warn("graceful shutdown timed out, some background tasks may have been terminated", zap.Duration("timeout", timeout))
	}
}
