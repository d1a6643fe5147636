package model

import "time"

// RawRow is one equity-table row as extracted from the page: cleaned cell
// text in source column order. Discarded once typed.
type RawRow []string

// Cell positions in the DSE equity table.
const (
	CellSymbol = iota
	CellOpen
	CellPrevClose
	CellClose
	CellHigh
	CellLow
	CellChange
	CellTurnover
	CellDeals
	CellOutstandingBid
	CellOutstandingOffer
	CellVolume
	CellMcap

	RawRowCells = 13
)

// Cell returns the cell at position i, or "" when the row is short.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// TypedRow is a RawRow after numeric normalization, before metric
// derivation. Zero means "not reported", not a true zero price.
type TypedRow struct {
	Symbol           string
	Open             float64
	PrevClose        float64
	Close            float64
	High             float64
	Low              float64
	Change           string // original text, kept for display
	Turnover         float64
	Deals            float64
	OutstandingBid   float64
	OutstandingOffer float64
	Volume           float64
	Mcap             float64 // TZS billions
}

// InstrumentRecord is one symbol's raw and derived metrics for one trading
// day. Created fresh each run and never mutated after persistence.
type InstrumentRecord struct {
	DateTag          string  `db:"date_tag"           parquet:"date_tag,dict"`
	Symbol           string  `db:"symbol"             parquet:"symbol,dict"`
	Open             float64 `db:"open"               parquet:"open"`
	PrevClose        float64 `db:"prev_close"         parquet:"prev_close"`
	Close            float64 `db:"close"              parquet:"close"`
	High             float64 `db:"high"               parquet:"high"`
	Low              float64 `db:"low"                parquet:"low"`
	Change           string  `db:"change"             parquet:"change"`
	ChangeValue      float64 `db:"change_value"       parquet:"change_value"`
	Turnover         float64 `db:"turnover"           parquet:"turnover"`
	Deals            float64 `db:"deals"              parquet:"deals"`
	OutstandingBid   float64 `db:"outstanding_bid"    parquet:"outstanding_bid"`
	OutstandingOffer float64 `db:"outstanding_offer"  parquet:"outstanding_offer"`
	Volume           float64 `db:"volume"             parquet:"volume"`
	Mcap             float64 `db:"mcap"               parquet:"mcap"`
	HighLowSpread    float64 `db:"high_low_spread"    parquet:"high_low_spread"`
	VolPerDeal       float64 `db:"vol_per_deal"       parquet:"vol_per_deal"`
	TurnoverPerDeal  float64 `db:"turnover_per_deal"  parquet:"turnover_per_deal"`
	TurnoverPerMcap  float64 `db:"turnover_per_mcap"  parquet:"turnover_per_mcap"`
	TurnoverPercent  float64 `db:"turnover_percent"   parquet:"turnover_percent"`
	ChangePerVol     float64 `db:"change_per_vol"     parquet:"change_per_vol"`
	BidOfferRatio    float64 `db:"bid_offer_ratio"    parquet:"bid_offer_ratio"`
}

// TradingDay aggregates all instruments for one DateTag. Immutable once
// written; a second import of the same tag is a no-op.
type TradingDay struct {
	DateTag    string    `db:"date_tag"`
	ImportedAt time.Time `db:"imported_at" type:"datetime"`
	StockCount int64     `db:"stock_count"`
}

// SymbolMeta is the per-symbol parent document: merge-updated on every day
// the symbol appears, other fields untouched.
type SymbolMeta struct {
	Symbol      string    `db:"symbol"`
	LastUpdated time.Time `db:"last_updated" type:"datetime"`
}

// DateIndexEntry is one member of the append-only set of known DateTags.
type DateIndexEntry struct {
	DateTag string    `db:"date_tag"`
	AddedAt time.Time `db:"added_at" type:"datetime"`
}

// LiveQuote is one normalized entry from the intraday price feed. Price is
// the published board price and Change the delta against it; the current
// trading price is Price + Change.
type LiveQuote struct {
	Symbol    string    `db:"symbol"`
	Price     float64   `db:"price"`
	Change    float64   `db:"change"`
	FetchedAt time.Time `db:"fetched_at" type:"datetime"`
}

// Current returns the effective trading price.
func (q LiveQuote) Current() float64 {
	return q.Price + q.Change
}

// Alert condition and status values.
const (
	ConditionAbove = "ABOVE"
	ConditionBelow = "BELOW"

	AlertActive    = "ACTIVE"
	AlertTriggered = "TRIGGERED"
)

// Alert is a price alert rule checked against the live feed.
type Alert struct {
	ID             string     `db:"id"`
	Symbol         string     `db:"symbol"`
	TargetPrice    float64    `db:"target_price"`
	Condition      string     `db:"condition"`
	Status         string     `db:"status"`
	FCMToken       string     `db:"fcm_token"`
	CreatedAt      time.Time  `db:"created_at" type:"datetime"`
	TriggeredAt    *time.Time `db:"triggered_at" type:"datetime"`
	TriggeredPrice float64    `db:"triggered_price"`
}

// Notification is the stored history row for a triggered alert.
type Notification struct {
	ID        string    `db:"id"`
	AlertID   string    `db:"alert_id"`
	Symbol    string    `db:"symbol"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at" type:"datetime"`
}

// PushMessage is the push-notification payload contract consumed by the
// delivery side. Delivery itself is out of scope here.
type PushMessage struct {
	Token        string           `json:"token"`
	Notification PushNotification `json:"notification"`
	Data         PushData         `json:"data"`
}

type PushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type PushData struct {
	Type    string `json:"type"` // always "PRICE_ALERT"
	Symbol  string `json:"symbol"`
	AlertID string `json:"alertId"`
	Price   string `json:"price"`
}
