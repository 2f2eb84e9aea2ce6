package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartCron schedules every registered job in loc and starts the scheduler.
// A run that is still going when its next tick fires is skipped.
func StartCron(ctx context.Context, loc *time.Location, logger *zap.Logger) (*cron.Cron, error) {
	cl := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	for name, j := range Jobs() {
		name, run := name, j.Run
		_, err := c.AddFunc(j.Schedule, func() {
			start := time.Now()
			if err := run(ctx); err != nil {
				logger.Error("cron job failed", zap.String("job", name), zap.Error(err))
				return
			}
			logger.Info("cron job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
		})
		if err != nil {
			return nil, fmt.Errorf("register job %s: %w", name, err)
		}
		logger.Info("cron job scheduled", zap.String("job", name), zap.String("schedule", j.Schedule), zap.String("tz", loc.String()))
	}
	c.Start()
	return c, nil
}
