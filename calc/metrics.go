// Package calc derives the per-instrument analytical metrics from one
// trading day's raw rows. Pure arithmetic over already-typed data; it
// cannot fail.
package calc

import (
	"strings"

	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/parse"
)

// mcapScale converts market cap from the published TZS billions to base
// currency units so the turnover/mcap ratio is dimensionless.
const mcapScale = 1e9

// sentinelSymbols are header/footer artifacts of the source table, not
// instruments. They are excluded from aggregation and from output.
var sentinelSymbols = map[string]struct{}{
	"Total": {},
	"Co.":   {},
}

func isSentinel(symbol string) bool {
	_, ok := sentinelSymbols[symbol]
	return ok
}

// Deriver computes InstrumentRecords for a trading day. Symbols are
// resolved through the injected normalizer before they become document
// keys.
type Deriver struct {
	symbols *parse.SymbolNormalizer
}

func NewDeriver(symbols *parse.SymbolNormalizer) *Deriver {
	if symbols == nil {
		symbols = parse.NewSymbolNormalizer(nil)
	}
	return &Deriver{symbols: symbols}
}

// TypeRows converts extracted rows into typed rows. Short rows are padded
// with empty cells, which type to zero ("not reported").
func TypeRows(rows []model.RawRow) []model.TypedRow {
	typed := make([]model.TypedRow, 0, len(rows))
	for _, r := range rows {
		typed = append(typed, model.TypedRow{
			Symbol:           r.Cell(model.CellSymbol),
			Open:             parse.Number(r.Cell(model.CellOpen)),
			PrevClose:        parse.Number(r.Cell(model.CellPrevClose)),
			Close:            parse.Number(r.Cell(model.CellClose)),
			High:             parse.Number(r.Cell(model.CellHigh)),
			Low:              parse.Number(r.Cell(model.CellLow)),
			Change:           r.Cell(model.CellChange),
			Turnover:         parse.Number(r.Cell(model.CellTurnover)),
			Deals:            parse.Number(r.Cell(model.CellDeals)),
			OutstandingBid:   parse.Number(r.Cell(model.CellOutstandingBid)),
			OutstandingOffer: parse.Number(r.Cell(model.CellOutstandingOffer)),
			Volume:           parse.Number(r.Cell(model.CellVolume)),
			Mcap:             parse.Number(r.Cell(model.CellMcap)),
		})
	}
	return typed
}

// DeriveMetrics computes the derived fields for every non-sentinel row.
// First pass aggregates the day's total turnover; second pass computes the
// per-row ratios against it. Every ratio is 0, never NaN or Inf, when its
// denominator is 0: zero deals is a valid "no trading" state.
func (d *Deriver) DeriveMetrics(dateTag string, rows []model.TypedRow) []model.InstrumentRecord {
	var dayTotalTurnover float64
	for _, r := range rows {
		sym := strings.TrimSpace(r.Symbol)
		if sym == "" || isSentinel(sym) {
			continue
		}
		dayTotalTurnover += r.Turnover
	}

	records := make([]model.InstrumentRecord, 0, len(rows))
	bySymbol := make(map[string]int, len(rows))
	for _, r := range rows {
		sym := strings.TrimSpace(r.Symbol)
		if sym == "" || isSentinel(sym) {
			continue
		}

		symbol := d.symbols.Normalize(sym)
		if symbol == "" {
			// cannot be a document key
			continue
		}

		rec := model.InstrumentRecord{
			DateTag:          dateTag,
			Symbol:           symbol,
			Open:             r.Open,
			PrevClose:        r.PrevClose,
			Close:            r.Close,
			High:             r.High,
			Low:              r.Low,
			Change:           r.Change,
			ChangeValue:      parse.SignedChange(r.Change),
			Turnover:         r.Turnover,
			Deals:            r.Deals,
			OutstandingBid:   r.OutstandingBid,
			OutstandingOffer: r.OutstandingOffer,
			Volume:           r.Volume,
			Mcap:             r.Mcap,
		}

		rec.HighLowSpread = r.High - r.Low
		if r.Deals > 0 {
			rec.VolPerDeal = r.Volume / r.Deals
			rec.TurnoverPerDeal = r.Turnover / r.Deals
		}
		if r.Mcap > 0 {
			rec.TurnoverPerMcap = r.Turnover / (r.Mcap * mcapScale)
		}
		if dayTotalTurnover > 0 {
			rec.TurnoverPercent = r.Turnover / dayTotalTurnover * 100
		}
		if r.Volume > 0 {
			rec.ChangePerVol = rec.ChangeValue / r.Volume
		}
		if r.OutstandingOffer > 0 {
			rec.BidOfferRatio = r.OutstandingBid / r.OutstandingOffer
		}

		// aliasing can land two source rows on one canonical symbol
		// during a rename transition; last row wins, as a keyed
		// overwrite would
		if i, seen := bySymbol[symbol]; seen {
			records[i] = rec
			continue
		}
		bySymbol[symbol] = len(records)
		records = append(records, rec)
	}

	return records
}
