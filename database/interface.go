// Package database defines the storage contract for the ingestion pipeline
// and selects a concrete driver for it. Every driver persists the same
// logical collections: the daily snapshot, the per-symbol history fan-out,
// the per-symbol parents, the date index, live quotes and alerts.
package database

import (
	"context"
	"time"

	"github.com/baraka/dse2db/model"
)

type Store interface {
	Connect() error
	Close() error

	InitSchema(ctx context.Context) error

	// HasTradingDay is the idempotency guard: the source page only ever
	// shows the current day, so a tag that already exists is never a
	// correction and must not be overwritten.
	HasTradingDay(ctx context.Context, dateTag string) (bool, error)

	// SaveTradingDay commits one day as a single logical write: per-day
	// stock rows, the per-symbol history fan-out, a merge-update of each
	// symbol parent, the day header, and the date-index append. The day
	// header and index land last so a failed write never leaves a partial
	// day discoverable.
	SaveTradingDay(ctx context.Context, day model.TradingDay, records []model.InstrumentRecord) error

	// ListDates returns every known DateTag, newest first.
	ListDates(ctx context.Context) ([]string, error)
	DailyStocks(ctx context.Context, dateTag string) ([]model.InstrumentRecord, error)
	SymbolHistory(ctx context.Context, symbol string) ([]model.InstrumentRecord, error)
	AllSymbols(ctx context.Context) ([]string, error)

	SaveLiveQuotes(ctx context.Context, quotes []model.LiveQuote) error

	CreateAlert(ctx context.Context, alert model.Alert) error
	ActiveAlerts(ctx context.Context) ([]model.Alert, error)
	MarkAlertTriggered(ctx context.Context, id string, price float64, at time.Time) error
	SaveNotifications(ctx context.Context, notes []model.Notification) error
}
