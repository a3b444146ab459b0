package session

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/clock"
)

// Runner pumps an orchestrator from a ticker for headless play.
type Runner struct {
	o        *Orchestrator
	interval time.Duration
}

// NewRunner creates a runner pumping fps times per second.
func NewRunner(o *Orchestrator, fps int) *Runner {
	if fps <= 0 {
		fps = 60
	}
	return &Runner{o: o, interval: time.Second / time.Duration(fps)}
}

// Run pumps until the session leaves Executing/Suspended or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.o.Pump()
			if !live(r.o.State()) {
				return nil
			}
		}
	}
}

// RunVirtual drives the session on a manual clock as fast as possible,
// advancing step per frame, until it ends, limit of session time passes,
// or ctx is done. A suspended session returns immediately. The
// orchestrator must have been built with clk.
func RunVirtual(ctx context.Context, o *Orchestrator, clk *clock.Manual, step, limit time.Duration) error {
	for o.State() == Executing {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit > 0 && o.Elapsed() >= limit {
			return nil
		}
		clk.Advance(step)
		o.Pump()
	}
	return nil
}

func live(s State) bool {
	return s == Executing || s == Suspended
}
