package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/abelal/pantrylog/internal/lifecycle"
	"github.com/abelal/pantrylog/internal/metrics"
)

type sweeper interface {
	ExpirySweep(ctx context.Context, now time.Time) ([]*lifecycle.Result, error)
}

// Runner drives the periodic expiry sweep. One Runner runs one sweep at a
// time by construction (a single goroutine); the engine additionally
// serializes against manual sweep triggers.
type Runner struct {
	engine   sweeper
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewRunner(engine sweeper, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{engine: engine, interval: interval, logger: logger, now: time.Now}
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("expiry sweeper started", "interval", r.interval.String())
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Runner) sweep(ctx context.Context) {
	results, err := r.engine.ExpirySweep(ctx, r.now())
	metrics.SweepRunsTotal.Inc()
	if err != nil {
		metrics.SweepErrorsTotal.Inc()
		r.logger.Error("expiry sweep failed", "error", err, "lots_expired", len(results))
		return
	}
	metrics.SweepLotsExpiredTotal.Add(float64(len(results)))
	if len(results) > 0 {
		r.logger.Info("expiry sweep complete", "lots_expired", len(results))
	}
}
