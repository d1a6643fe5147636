package cmd

import (
	"context"
	"fmt"

	"github.com/baraka/dse2db/config"
	"github.com/baraka/dse2db/metrics"
	"github.com/baraka/dse2db/workflow"
)

// Daily runs the daily summary ingestion once.
func Daily(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := newDaily(cfg, db).Run(ctx)
	if err != nil {
		return err
	}
	metrics.ObserveRun("daily", result.Status, result.StockCount, "stocks")

	if result.Status == workflow.StatusFailed {
		return fmt.Errorf("daily ingestion failed: %s", result.Message)
	}
	return nil
}
