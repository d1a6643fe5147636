package cmd

import (
	"context"
	"fmt"

	"github.com/baraka/dse2db/config"
	"github.com/baraka/dse2db/metrics"
	"github.com/baraka/dse2db/workflow"
)

// Live fetches and stores one live quote snapshot, evaluating alerts.
func Live(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := newLive(cfg, db).Run(ctx)
	if err != nil {
		return err
	}
	metrics.ObserveRun("live", result.Status, result.StockCount, "quotes")

	if result.Status == workflow.StatusFailed {
		return fmt.Errorf("live ingestion failed: %s", result.Message)
	}
	return nil
}
