package cmd

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/config"
)

// Init connects the configured store and creates every table.
func Init(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Str("uri", cfg.Database.URI).Msg("schema initialized")
	return nil
}
