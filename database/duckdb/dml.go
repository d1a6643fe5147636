package duckdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/parse"
)

// asRows widens a typed slice for the generic insert path.
func asRows[T any](xs []T) []interface{} {
	out := make([]interface{}, len(xs))
	for i := range xs {
		out[i] = xs[i]
	}
	return out
}

// insertChunked binds rows into multi-row INSERT statements of at most
// maxOps rows each, inside the caller's transaction. Chunking is a bind
// limit workaround, not a unit of atomicity.
func (d *Driver) insertChunked(ctx context.Context, tx *sqlx.Tx, meta *model.TableMeta, rows []interface{}) error {
	cols := strings.Join(meta.ColumnNames(), ", ")

	for start := 0; start < len(rows); start += d.maxOps {
		end := min(start+d.maxOps, len(rows))
		chunk := rows[start:end]

		groups := make([]string, len(chunk))
		args := make([]interface{}, 0, len(chunk)*len(meta.Columns))
		for i, row := range chunk {
			groups[i] = meta.Placeholders()
			args = append(args, meta.FieldValues(row)...)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			meta.TableName, cols, strings.Join(groups, ", "))
		if meta.MergeByKey {
			query += mergeClause(meta)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", meta.TableName, err)
		}
	}
	return nil
}

// mergeClause upserts non-key columns on key conflict.
func mergeClause(meta *model.TableMeta) string {
	keys := make(map[string]struct{}, len(meta.OrderByKey))
	for _, k := range meta.OrderByKey {
		keys[k] = struct{}{}
	}

	var sets []string
	for _, col := range meta.Columns {
		if _, isKey := keys[col.Name]; isKey {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", col.Name, col.Name))
	}
	if len(sets) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(meta.OrderByKey, ", "))
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(meta.OrderByKey, ", "), strings.Join(sets, ", "))
}

func (d *Driver) HasTradingDay(ctx context.Context, dateTag string) (bool, error) {
	var n int
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE date_tag = ?", model.TableTradingDays.TableName)
	if err := d.db.GetContext(ctx, &n, query, dateTag); err != nil {
		return false, fmt.Errorf("check trading day %s: %w", dateTag, err)
	}
	return n > 0, nil
}

func (d *Driver) SaveTradingDay(ctx context.Context, day model.TradingDay, records []model.InstrumentRecord) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trading day write: %w", err)
	}
	defer tx.Rollback()

	if err := d.insertChunked(ctx, tx, model.TableDailyStocks, asRows(records)); err != nil {
		return err
	}
	if err := d.insertChunked(ctx, tx, model.TableSymbolHistory, asRows(records)); err != nil {
		return err
	}

	metas := make([]model.SymbolMeta, len(records))
	for i, r := range records {
		metas[i] = model.SymbolMeta{Symbol: r.Symbol, LastUpdated: day.ImportedAt}
	}
	if err := d.insertChunked(ctx, tx, model.TableSymbols, asRows(metas)); err != nil {
		return err
	}

	// day header and index go last: an aborted write must not leave the
	// day discoverable
	if err := d.insertChunked(ctx, tx, model.TableTradingDays, asRows([]model.TradingDay{day})); err != nil {
		return err
	}
	idx := []model.DateIndexEntry{{DateTag: day.DateTag, AddedAt: day.ImportedAt}}
	if err := d.insertChunked(ctx, tx, model.TableDateIndex, asRows(idx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trading day %s: %w", day.DateTag, err)
	}
	return nil
}

func (d *Driver) ListDates(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT date_tag FROM %s", model.TableDateIndex.TableName)

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
	query := fmt.Sprintf("SELECT symbol FROM %s ORDER BY symbol", model.TableSymbols.TableName)

	var symbols []string
	if err := d.db.SelectContext(ctx, &symbols, query); err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	return symbols, nil
}

func (d *Driver) SaveLiveQuotes(ctx context.Context, quotes []model.LiveQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin quote write: %w", err)
	}
	defer tx.Rollback()

	if err := d.insertChunked(ctx, tx, model.TableLiveQuotes, asRows(quotes)); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *Driver) CreateAlert(ctx context.Context, alert model.Alert) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin alert write: %w", err)
	}
	defer tx.Rollback()

	if err := d.insertChunked(ctx, tx, model.TableAlerts, asRows([]model.Alert{alert})); err != nil {
		return err
	}
	return tx.Commit()
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
	query := fmt.Sprintf(
		"UPDATE %s SET status = ?, triggered_at = ?, triggered_price = ? WHERE id = ?",
		model.TableAlerts.TableName)

	if _, err := d.db.ExecContext(ctx, query, model.AlertTriggered, at, price, id); err != nil {
		return fmt.Errorf("mark alert %s triggered: %w", id, err)
	}
	return nil
}

func (d *Driver) SaveNotifications(ctx context.Context, notes []model.Notification) error {
	if len(notes) == 0 {
		return nil
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notification write: %w", err)
	}
	defer tx.Rollback()

	if err := d.insertChunked(ctx, tx, model.TableNotifications, asRows(notes)); err != nil {
		return err
	}
	return tx.Commit()
}
