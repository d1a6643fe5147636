package cmd

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/alerts"
	"github.com/baraka/dse2db/config"
)

// CreateAlert registers a new price alert.
func CreateAlert(ctx context.Context, cfg *config.Config, symbol string, target float64, condition, token string) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	alert, err := alerts.Create(ctx, db, alerts.CreateAlertInput{
		Symbol:      symbol,
		TargetPrice: target,
		Condition:   condition,
		FCMToken:    token,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("id", alert.ID).
		Str("symbol", alert.Symbol).
		Float64("target", alert.TargetPrice).
		Str("condition", alert.Condition).
		Msg("alert created")
	return nil
}
