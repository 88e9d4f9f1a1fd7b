package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Runner is the engine's single serialization point. One goroutine (Run)
// owns every engine call: timer-driven refreshes, manually triggered
// refreshes, and submitted operations all execute there in order, so no
// record is ever mutated concurrently. Triggers arriving while a refresh is
// pending coalesce into a single pass instead of running concurrently.
type Runner struct {
	engine *Engine
	log    *zap.Logger

	interval       time.Duration
	refreshTimeout time.Duration

	trigger chan struct{}
	ops     chan func()
}

const (
	defaultInterval       = 30 * time.Second
	defaultRefreshTimeout = 25 * time.Second
)

// NewRunner wires a runner around an engine. interval <= 0 falls back to
// the 30 second default.
func NewRunner(e *Engine, logger *zap.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine:         e,
		log:            logger,
		interval:       interval,
		refreshTimeout: defaultRefreshTimeout,
		trigger:        make(chan struct{}, 1),
		ops:            make(chan func(), 16),
	}
}

// Run owns the engine until ctx is cancelled. Must be called exactly once,
// from its own goroutine.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			// Mark any in-flight work stale so abandoned results are
			// dropped on arrival instead of applied.
			r.engine.Invalidate()
			r.log.Info("runner: stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.trigger:
			r.refresh(ctx)
		case op := <-r.ops:
			op()
		}
	}
}

func (r *Runner) refresh(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, r.refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := r.engine.RefreshAll(rctx); err != nil {
		r.log.Error("runner: refresh failed", zap.Error(err))
		return
	}
	r.log.Debug("runner: refresh complete",
		zap.Duration("dur", time.Since(start)))
}

// TriggerRefresh requests an out-of-band refresh. Non-blocking; requests
// made while one is already pending coalesce.
func (r *Runner) TriggerRefresh() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Do runs fn against the engine on the runner goroutine and waits for it to
// finish, honoring ctx while waiting. If ctx expires after the operation is
// enqueued the operation still runs; only the wait is abandoned.
func (r *Runner) Do(ctx context.Context, fn func(*Engine)) error {
	done := make(chan struct{})
	op := func() {
		defer close(done)
		fn(r.engine)
	}

	select {
	case r.ops <- op:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
