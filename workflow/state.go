package workflow

import (
	"context"
	"time"

	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/scrape"
)

// Fetcher supplies the remote inputs of the pipelines. *scrape.Client is
// the production implementation; tests substitute fakes.
type Fetcher interface {
	SummaryPage(ctx context.Context) (string, error)
	LivePrices(ctx context.Context) ([]scrape.LiveQuoteItem, error)
}

// RunState is the shared scratch space stages read and write. Each run
// gets a fresh one.
type RunState struct {
	Now time.Time

	// daily pipeline
	Page    *scrape.Page
	RawDate string
	DateTag string
	Exists  bool
	Rows    []model.RawRow
	Records []model.InstrumentRecord

	// live pipeline
	Quotes    []model.LiveQuote
	Prices    map[string]float64
	Triggered int
}

// Result status values reported by pipeline runs.
const (
	StatusCreated       = "created"
	StatusAlreadyExists = "already-exists"
	StatusFailed        = "failed"
)

// Result is the outward-facing outcome of one pipeline run.
type Result struct {
	Status     string `json:"status"`
	DateTag    string `json:"dateTag,omitempty"`
	StockCount int    `json:"stockCount"`
	Message    string `json:"message,omitempty"`
}
