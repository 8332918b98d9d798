package services

import (
	"context"
	"sync"
	"time"

	"prode-app-go/logging"
)

// StatusUpdater periodically stores derived competition statuses
type StatusUpdater struct {
	games    *GameService
	interval time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewStatusUpdater creates a new status updater
func NewStatusUpdater(games *GameService, interval time.Duration) *StatusUpdater {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatusUpdater{
		games:    games,
		interval: interval,
		logger:   logging.WithPrefix("status_updater"),
	}
}

// Start runs one sync immediately and then one per interval until Stop or ctx is done
func (u *StatusUpdater) Start(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running {
		u.logger.Warn("Already running")
		return
	}

	ctx, u.cancel = context.WithCancel(ctx)
	u.done = make(chan struct{})
	u.running = true
	u.logger.Infof("Starting with interval %v", u.interval)

	go func() {
		defer close(u.done)
		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		u.sync(ctx)
		for {
			select {
			case <-ticker.C:
				u.sync(ctx)
			case <-ctx.Done():
				u.logger.Info("Stopping")
				return
			}
		}
	}()
}

// Stop halts the updater and waits for a running sync to finish
func (u *StatusUpdater) Stop() {
	u.mu.Lock()
	if !u.running {
		u.mu.Unlock()
		return
	}
	u.running = false
	u.cancel()
	done := u.done
	u.mu.Unlock()

	<-done
}

func (u *StatusUpdater) sync(ctx context.Context) {
	start := time.Now()
	changed, err := u.games.SyncStatuses(ctx)
	if err != nil {
		if ctx.Err() == nil {
			u.logger.Errorf("Status sync failed: %v", err)
		}
		return
	}
	if changed > 0 {
		u.logger.Infof("Updated %d competition statuses in %v", changed, time.Since(start))
	}
}
