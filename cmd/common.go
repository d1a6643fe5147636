// Package cmd holds the entry points behind the CLI subcommands.
package cmd

import (
	"context"
	"fmt"

	"github.com/baraka/dse2db/alerts"
	"github.com/baraka/dse2db/config"
	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/scrape"
	"github.com/baraka/dse2db/workflow"
)

// openStore connects the configured driver and ensures the schema exists.
// Callers own Close.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	db, err := database.NewStore(cfg.DBConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	if err := db.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func newFetcher(cfg *config.Config) *scrape.Client {
	return scrape.NewClient(cfg.Source.BaseURL, cfg.Source.LivePath, cfg.Source.Timeout.Std())
}

func newDaily(cfg *config.Config, db database.Store) *workflow.DailyPipeline {
	return workflow.NewDailyPipeline(newFetcher(cfg), db, nil, nil)
}

func newLive(cfg *config.Config, db database.Store) *workflow.LivePipeline {
	checker := alerts.NewChecker(db, nil, nil)
	return workflow.NewLivePipeline(newFetcher(cfg), db, nil, checker)
}
