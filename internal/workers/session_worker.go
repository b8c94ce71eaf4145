package workers

import (
	"context"
	"time"

	"musicstore_admin/internal/logger"
	"musicstore_admin/internal/services"
)

// SessionWorker discards form sessions abandoned without an explicit close,
// so their preview handles still get released exactly once.
type SessionWorker struct {
	form     services.FormService
	ttl      time.Duration
	interval time.Duration
}

func NewSessionWorker(form services.FormService, ttl time.Duration) *SessionWorker {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	return &SessionWorker{
		form:     form,
		ttl:      ttl,
		interval: interval,
	}
}

// Start launches the sweep loop until the context is cancelled.
func (w *SessionWorker) Start(ctx context.Context) {
	go w.sweepLoop(ctx)
}

func (w *SessionWorker) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("session worker stopped")
			return
		case <-ticker.C:
			if swept := w.form.SweepIdle(w.ttl); swept > 0 {
				logger.Info("swept idle form sessions", "count", swept)
			}
		}
	}
}
