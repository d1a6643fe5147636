package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/config"
	"github.com/baraka/dse2db/server"
)

// Serve runs the HTTP API until the context is cancelled.
func Serve(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(cfg.Server.Addr, newDaily(cfg, db), newLive(cfg, db), db, cfg.Production())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown failed")
		}
		return nil
	}
}
