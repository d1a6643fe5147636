package cmd

import (
	"context"
	"fmt"

	"github.com/baraka/dse2db/config"
)

// Dates prints every stored trading day tag, newest first.
func Dates(ctx context.Context, cfg *config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	dates, err := db.ListDates(ctx)
	if err != nil {
		return err
	}
	for _, tag := range dates {
		fmt.Println(tag)
	}
	return nil
}
