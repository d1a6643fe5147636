package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/baraka/dse2db/cmd"
	"github.com/baraka/dse2db/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfgPath string
	var cfg *config.Config

	var rootCmd = &cobra.Command{
		Use:           "dse2db",
		Short:         "Load DSE market data to DuckDB or ClickHouse",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file path (optional)")

	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Init(ctx, cfg)
		},
	}

	var dailyCmd = &cobra.Command{
		Use:   "daily",
		Short: "Ingest today's market summary once",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Daily(ctx, cfg)
		},
	}

	var liveCmd = &cobra.Command{
		Use:   "live",
		Short: "Ingest one live quote snapshot and check alerts",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Live(ctx, cfg)
		},
	}

	var cronCmd = &cobra.Command{
		Use:   "cron",
		Short: "Run the scheduler loop for daily and live ingestion",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Cron(ctx, cfg)
		},
	}

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Serve(ctx, cfg)
		},
	}

	var datesCmd = &cobra.Command{
		Use:   "dates",
		Short: "List stored trading days, newest first",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Dates(ctx, cfg)
		},
	}

	var output, format, dateTag, symbol string
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export stored market data to parquet or CSV",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Export(ctx, cfg, output, format, dateTag, symbol)
		},
	}
	exportCmd.Flags().StringVar(&output, "output", "", "output directory")
	exportCmd.Flags().StringVar(&format, "format", "parquet", "export format: parquet or csv")
	exportCmd.Flags().StringVar(&dateTag, "date", "", "export a single trading day, e.g. 7Feb2026")
	exportCmd.Flags().StringVar(&symbol, "symbol", "", "export one symbol's history")
	exportCmd.MarkFlagRequired("output")

	var alertSymbol, condition, token string
	var target float64
	var alertCmd = &cobra.Command{
		Use:   "alert",
		Short: "Create a price alert",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.CreateAlert(ctx, cfg, alertSymbol, target, condition, token)
		},
	}
	alertCmd.Flags().StringVar(&alertSymbol, "symbol", "", "instrument symbol")
	alertCmd.Flags().Float64Var(&target, "target", 0, "target price in TZS")
	alertCmd.Flags().StringVar(&condition, "condition", "", "trigger condition: ABOVE or BELOW")
	alertCmd.Flags().StringVar(&token, "token", "", "push delivery token (optional)")
	alertCmd.MarkFlagRequired("symbol")
	alertCmd.MarkFlagRequired("target")
	alertCmd.MarkFlagRequired("condition")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(alertCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
