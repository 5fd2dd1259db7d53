package idempotency

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reaper periodically deletes expired idempotency records. Stores with
// native expiry (Redis) report zero deletions and the reaper is effectively
// idle.
type Reaper struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewReaper creates a reaper that purges on the given interval
func NewReaper(service *Service, interval time.Duration, logger *zap.Logger) *Reaper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Reaper{
		service:  service,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background purge loop
func (r *Reaper) Start() {
	go r.run()
	r.logger.Info("idempotency reaper started", zap.Duration("interval", r.interval))
}

// Stop terminates the purge loop and waits for it to finish
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
	r.logger.Info("idempotency reaper stopped")
}

func (r *Reaper) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.purge()
		case <-r.stopCh:
			return
		}
	}
}

func (r *Reaper) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := r.service.PurgeExpired(ctx)
	if err != nil {
		r.logger.Warn("idempotency purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		r.logger.Info("expired idempotency records purged", zap.Int64("deleted", deleted))
	}
}
