// internal/app/system/workers/loginprune.go
package workers

import (
	"context"
	"sync"
	"time"

	loginstore "github.com/dalemusser/chapterhub/internal/app/store/logins"
	"go.uber.org/zap"
)

// LoginPrune is a background worker that deletes login-history records older
// than the retention window. It never touches event or post status; those
// transitions are strictly user-driven.
type LoginPrune struct {
	logins    *loginstore.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewLoginPrune creates a new login-history prune worker.
func NewLoginPrune(logins *loginstore.Store, logger *zap.Logger, interval, retention time.Duration) *LoginPrune {
	return &LoginPrune{
		logins:    logins,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background prune loop.
func (w *LoginPrune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("login history prune worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *LoginPrune) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("login history prune worker stopped")
}

func (w *LoginPrune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune()
		}
	}
}

func (w *LoginPrune) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.logins.DeleteOlderThan(ctx, time.Now().UTC().Add(-w.retention))
	if err != nil {
		w.log.Error("failed to prune login history", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("pruned login history", zap.Int64("count", count))
	}
}
