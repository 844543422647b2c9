package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PurgeWorker periodically finalises expired account deactivations.
type PurgeWorker struct {
	accounts AccountService
	interval time.Duration
	log      *zap.Logger
}

func NewPurgeWorker(accounts AccountService, interval time.Duration, log *zap.Logger) *PurgeWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PurgeWorker{accounts: accounts, interval: interval, log: log}
}

// Run purges once immediately and then on every tick until ctx is cancelled.
func (w *PurgeWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.purge(ctx)
	for {
		select {
		case <-ticker.C:
			w.purge(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *PurgeWorker) purge(ctx context.Context) {
	n, err := w.accounts.PurgeExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error("purge deactivated users", zap.Error(err))
		}
		return
	}
	if n > 0 {
		w.log.Info("purged deactivated users", zap.Int64("count", n))
	}
}
