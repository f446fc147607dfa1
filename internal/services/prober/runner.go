package prober

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eakomdo/reachprobe/internal/domain/probe"
)

type Suite interface {
	RunDefaultSuite(ctx context.Context) probe.Run
}

// Runner executes the suite once, or every Interval until ctx is done.
type Runner struct {
	Log      *zap.Logger
	Suite    Suite
	Interval time.Duration
}

func NewRunner(log *zap.Logger, suite Suite, interval time.Duration) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Log: log, Suite: suite, Interval: interval}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	run := r.Suite.RunDefaultSuite(ctx)
	r.Log.Debug("probe run finished",
		zap.Int("endpoints", len(run)),
		zap.Int("reachable", run.Reachable()),
		zap.Duration("took", time.Since(start)),
	)
}

// Run returns nil after a single run when Interval is zero, otherwise
// ctx.Err() once ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	r.tick(ctx)
	if r.Interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}
