package cmd

import (
	"context"

	"github.com/baraka/dse2db/config"
	"github.com/baraka/dse2db/export"
)

// Export writes stored rows to parquet or CSV files. With a dateTag it
// exports that day, with a symbol that symbol's history, otherwise every
// stored day.
func Export(ctx context.Context, cfg *config.Config, dir, format, dateTag, symbol string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	exp, err := export.New(db, dir, f)
	if err != nil {
		return err
	}

	switch {
	case dateTag != "":
		return exp.Day(ctx, dateTag)
	case symbol != "":
		return exp.Symbol(ctx, symbol)
	default:
		return exp.All(ctx)
	}
}
