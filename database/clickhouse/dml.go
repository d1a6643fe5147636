package clickhouse

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/parse"
)

func asRows[T any](xs []T) []interface{} {
	out := make([]interface{}, len(xs))
	for i := range xs {
		out[i] = xs[i]
	}
	return out
}

// insertBatched loads rows through the column-batch protocol: one prepared
// INSERT per flush, flushed every maxOps rows. Each flush is atomic on the
// server; cross-flush atomicity is approximated by write ordering (see
// package comment).
func (d *Driver) insertBatched(ctx context.Context, meta *model.TableMeta, rows []interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s)",
		meta.TableName, strings.Join(meta.ColumnNames(), ", "))

	for start := 0; start < len(rows); start += d.maxOps {
		end := min(start+d.maxOps, len(rows))

		tx, err := d.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin batch for %s: %w", meta.TableName, err)
		}
		stmt, err := tx.PreparexContext(ctx, query)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("prepare batch for %s: %w", meta.TableName, err)
		}

		for _, row := range rows[start:end] {
			if _, err := stmt.ExecContext(ctx, meta.FieldValues(row)...); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("append row to %s: %w", meta.TableName, err)
			}
		}

		stmt.Close()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("flush batch to %s: %w", meta.TableName, err)
		}
	}
	return nil
}

func (d *Driver) HasTradingDay(ctx context.Context, dateTag string) (bool, error) {
	var n uint64
	query := fmt.Sprintf("SELECT count() FROM %s WHERE date_tag = ?", model.TableTradingDays.TableName)
	if err := d.db.GetContext(ctx, &n, query, dateTag); err != nil {
		return false, fmt.Errorf("check trading day %s: %w", dateTag, err)
	}
	return n > 0, nil
}

func (d *Driver) SaveTradingDay(ctx context.Context, day model.TradingDay, records []model.InstrumentRecord) error {
	if err := d.insertBatched(ctx, model.TableDailyStocks, asRows(records)); err != nil {
		return err
	}
	if err := d.insertBatched(ctx, model.TableSymbolHistory, asRows(records)); err != nil {
		return err
	}

	metas := make([]model.SymbolMeta, len(records))
	for i, r := range records {
		metas[i] = model.SymbolMeta{Symbol: r.Symbol, LastUpdated: day.ImportedAt}
	}
	if err := d.insertBatched(ctx, model.TableSymbols, asRows(metas)); err != nil {
		return err
	}

	// day header and index go last so an interrupted import never
	// surfaces as a complete day
	if err := d.insertBatched(ctx, model.TableTradingDays, asRows([]model.TradingDay{day})); err != nil {
		return err
	}
	idx := []model.DateIndexEntry{{DateTag: day.DateTag, AddedAt: day.ImportedAt}}
	return d.insertBatched(ctx, model.TableDateIndex, asRows(idx))
}

func (d *Driver) ListDates(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT date_tag FROM %s", model.TableDateIndex.TableName)

	var tags []string
	if err := d.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}

	parse.SortTagsDesc(tags)
	return tags, nil
}

func (d *Driver) DailyStocks(ctx context.Context, dateTag string) ([]model.InstrumentRecord, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE date_tag = ? ORDER BY symbol",
		model.TableDailyStocks.TableName)

	var records []model.InstrumentRecord
	if err := d.db.SelectContext(ctx, &records, query, dateTag); err != nil {
		return nil, fmt.Errorf("query daily stocks for %s: %w", dateTag, err)
	}
	return records, nil
}

func (d *Driver) SymbolHistory(ctx context.Context, symbol string) ([]model.InstrumentRecord, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE symbol = ?",
		model.TableSymbolHistory.TableName)

	var records []model.InstrumentRecord
	if err := d.db.SelectContext(ctx, &records, query, symbol); err != nil {
		return nil, fmt.Errorf("query history for %s: %w", symbol, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return parse.TagBefore(records[i].DateTag, records[j].DateTag)
	})
	return records, nil
}

func (d *Driver) AllSymbols(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT symbol FROM %s ORDER BY symbol", model.TableSymbols.TableName)

	var symbols []string
	if err := d.db.SelectContext(ctx, &symbols, query); err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	return symbols, nil
}

func (d *Driver) SaveLiveQuotes(ctx context.Context, quotes []model.LiveQuote) error {
	return d.insertBatched(ctx, model.TableLiveQuotes, asRows(quotes))
}

func (d *Driver) CreateAlert(ctx context.Context, alert model.Alert) error {
	return d.insertBatched(ctx, model.TableAlerts, asRows([]model.Alert{alert}))
}

func (d *Driver) ActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE status = ?", model.TableAlerts.TableName)

	var alerts []model.Alert
	if err := d.db.SelectContext(ctx, &alerts, query, model.AlertActive); err != nil {
		return nil, fmt.Errorf("query active alerts: %w", err)
	}
	return alerts, nil
}

func (d *Driver) MarkAlertTriggered(ctx context.Context, id string, price float64, at time.Time) error {
	// lightweight mutation; alert volume is tiny
	query := fmt.Sprintf(
		"ALTER TABLE %s UPDATE status = ?, triggered_at = ?, triggered_price = ? WHERE id = ?",
		model.TableAlerts.TableName)

	if _, err := d.db.ExecContext(ctx, query, model.AlertTriggered, at, price, id); err != nil {
		return fmt.Errorf("mark alert %s triggered: %w", id, err)
	}
	return nil
}

func (d *Driver) SaveNotifications(ctx context.Context, notes []model.Notification) error {
	return d.insertBatched(ctx, model.TableNotifications, asRows(notes))
}
