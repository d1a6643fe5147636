package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/baraka/dse2db/config"
	"github.com/baraka/dse2db/scheduler"
)

// Cron runs the scheduler loop until the context is cancelled.
func Cron(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %s: %w", cfg.Scheduler.Timezone, err)
	}

	sched := scheduler.New(
		newDaily(cfg, db),
		newLive(cfg, db),
		db,
		loc,
		cfg.Scheduler.Interval.Std(),
		cfg.Scheduler.DailyStart,
		cfg.Scheduler.DailyEnd,
	)

	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
