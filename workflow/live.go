package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/parse"
)

// AlertChecker evaluates active price alerts against current prices and
// returns how many fired. alerts.Checker is the production implementation.
type AlertChecker interface {
	Check(ctx context.Context, prices map[string]float64) (int, error)
}

// LivePipeline ingests the live quote feed: fetch, normalize symbols,
// persist the snapshot and evaluate price alerts against current prices.
type LivePipeline struct {
	fetcher Fetcher
	store   database.Store
	symbols *parse.SymbolNormalizer
	checker AlertChecker
}

// NewLivePipeline builds a live ingestion run. checker may be nil, in
// which case alert evaluation is skipped.
func NewLivePipeline(fetcher Fetcher, store database.Store, symbols *parse.SymbolNormalizer, checker AlertChecker) *LivePipeline {
	if symbols == nil {
		symbols = parse.NewSymbolNormalizer(nil)
	}
	return &LivePipeline{fetcher: fetcher, store: store, symbols: symbols, checker: checker}
}

func (p *LivePipeline) tasks() map[string]*Task {
	return map[string]*Task{
		"fetch_feed": {
			Name:     "fetch_feed",
			Executor: p.fetchFeed,
			OnError:  ErrorModeStop,
		},
		"normalize": {
			Name:      "normalize",
			DependsOn: []string{"fetch_feed"},
			Executor:  p.normalize,
			OnError:   ErrorModeStop,
		},
		"persist_quotes": {
			Name:      "persist_quotes",
			DependsOn: []string{"normalize"},
			Executor:  p.persistQuotes,
			OnError:   ErrorModeStop,
		},
		"check_alerts": {
			Name:      "check_alerts",
			DependsOn: []string{"persist_quotes"},
			Executor:  p.checkAlerts,
			SkipIf: func(ctx context.Context, db database.Store, st *RunState) bool {
				return p.checker == nil
			},
			// still have a fresh snapshot stored if alert evaluation fails
			OnError: ErrorModeSkip,
		},
	}
}

// Run fetches and stores one live snapshot.
func (p *LivePipeline) Run(ctx context.Context) (*Result, error) {
	st := &RunState{Now: time.Now()}
	exec := NewTaskExecutor(p.store, p.tasks())

	names := []string{"fetch_feed", "normalize", "persist_quotes", "check_alerts"}
	report, err := exec.Run(ctx, names, st)
	if err != nil {
		return nil, err
	}

	if failed := report.Failed(); failed != nil {
		log.Error().Str("task", report.FailedTask).Msg(failed.Message)
		return &Result{Status: StatusFailed, Message: failed.Message}, nil
	}
	if r := report.Results["check_alerts"]; r != nil && r.State == StateFailed {
		log.Warn().Err(r.Error).Msg("alert evaluation failed")
	}

	log.Info().Int("quotes", len(st.Quotes)).Int("triggered", st.Triggered).Msg("live snapshot stored")
	return &Result{Status: StatusCreated, StockCount: len(st.Quotes)}, nil
}

func (p *LivePipeline) fetchFeed(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	items, err := p.fetcher.LivePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch error: %v", err)
	}

	quotes := make([]model.LiveQuote, 0, len(items))
	for _, item := range items {
		quotes = append(quotes, model.LiveQuote{
			Symbol:    item.Company,
			Price:     parse.Number(item.Price),
			Change:    parse.SignedChange(item.Change),
			FetchedAt: st.Now,
		})
	}
	st.Quotes = quotes
	return &TaskResult{State: StateCompleted, Rows: len(quotes)}, nil
}

func (p *LivePipeline) normalize(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	prices := make(map[string]float64, len(st.Quotes))
	for i := range st.Quotes {
		st.Quotes[i].Symbol = p.symbols.Normalize(st.Quotes[i].Symbol)
		prices[st.Quotes[i].Symbol] = st.Quotes[i].Current()
	}
	st.Prices = prices
	return &TaskResult{State: StateCompleted, Rows: len(prices)}, nil
}

func (p *LivePipeline) persistQuotes(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	if len(st.Quotes) == 0 {
		return &TaskResult{State: StateCompleted, Message: "empty feed"}, nil
	}
	if err := db.SaveLiveQuotes(ctx, st.Quotes); err != nil {
		return nil, err
	}
	return &TaskResult{State: StateCompleted, Rows: len(st.Quotes)}, nil
}

func (p *LivePipeline) checkAlerts(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	triggered, err := p.checker.Check(ctx, st.Prices)
	if err != nil {
		return nil, err
	}
	st.Triggered = triggered
	return &TaskResult{State: StateCompleted, Rows: triggered}, nil
}
