package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/kledx/mbc20-claw/pkg/logx"
)

// WaitForWindow parses a standard 5-field cron expression and sleeps
// until its next activation. An empty spec returns immediately.
func WaitForWindow(ctx context.Context, clock Clock, spec string, log logx.Logger) error {
	if spec == "" {
		return nil
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid start window %q: %w", spec, err)
	}
	now := clock.Now()
	next := sched.Next(now)
	log.Info("waiting for start window",
		logx.String("spec", spec),
		logx.Time("next", next),
	)
	return clock.Sleep(ctx, next.Sub(now))
}
