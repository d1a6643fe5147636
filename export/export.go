// Package export dumps stored market data to parquet or CSV files for
// offline analysis.
package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/utils"
)

type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatParquet, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Exporter reads stored rows back out of the Store and writes them to
// files, one file per day or per symbol.
type Exporter struct {
	store database.Store
	dir   string
	fmt   Format
}

func New(store database.Store, dir string, format Format) (*Exporter, error) {
	if err := utils.CheckOutputDir(dir); err != nil {
		return nil, err
	}
	return &Exporter{store: store, dir: dir, fmt: format}, nil
}

// Day writes one trading day's stock rows to <dir>/<dateTag>.<format>.
func (e *Exporter) Day(ctx context.Context, dateTag string) error {
	records, err := e.store.DailyStocks(ctx, dateTag)
	if err != nil {
		return fmt.Errorf("load daily stocks for %s: %w", dateTag, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no stored rows for %s", dateTag)
	}
	return e.writeFile(dateTag, records)
}

// Symbol writes one symbol's full history to <dir>/<symbol>.<format>.
func (e *Exporter) Symbol(ctx context.Context, symbol string) error {
	records, err := e.store.SymbolHistory(ctx, symbol)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", symbol, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no stored rows for %s", symbol)
	}
	return e.writeFile(symbol, records)
}

// All writes every trading day, one file per day.
func (e *Exporter) All(ctx context.Context) error {
	dates, err := e.store.ListDates(ctx)
	if err != nil {
		return fmt.Errorf("list dates: %w", err)
	}
	for _, tag := range dates {
		if err := e.Day(ctx, tag); err != nil {
			return err
		}
	}
	log.Info().Int("days", len(dates)).Str("dir", e.dir).Msg("export complete")
	return nil
}

func (e *Exporter) writeFile(name string, records []model.InstrumentRecord) error {
	path := filepath.Join(e.dir, fmt.Sprintf("%s.%s", name, e.fmt))

	switch e.fmt {
	case FormatParquet:
		w, err := utils.NewParquetWriter[model.InstrumentRecord](path)
		if err != nil {
			return err
		}
		if err := w.Write(records); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		return w.Close()
	case FormatCSV:
		w, err := utils.NewCSVWriter[model.InstrumentRecord](path)
		if err != nil {
			return err
		}
		if err := w.Write(records); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		return w.Close()
	default:
		return fmt.Errorf("unsupported export format: %s", e.fmt)
	}
}
