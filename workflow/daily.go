package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/calc"
	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/model"
	"github.com/baraka/dse2db/parse"
	"github.com/baraka/dse2db/scrape"
)

// DailyPipeline ingests one published market summary: fetch the page,
// resolve its trading date, bail out if that date is already stored,
// otherwise extract the equity table, derive per-instrument metrics and
// persist everything as one trading day.
type DailyPipeline struct {
	fetcher Fetcher
	store   database.Store
	tagger  *parse.DateTagger
	deriver *calc.Deriver
}

func NewDailyPipeline(fetcher Fetcher, store database.Store, tagger *parse.DateTagger, deriver *calc.Deriver) *DailyPipeline {
	if tagger == nil {
		tagger = parse.NewDateTagger(nil)
	}
	if deriver == nil {
		deriver = calc.NewDeriver(nil)
	}
	return &DailyPipeline{fetcher: fetcher, store: store, tagger: tagger, deriver: deriver}
}

func (p *DailyPipeline) tasks() map[string]*Task {
	skipExisting := func(ctx context.Context, db database.Store, st *RunState) bool {
		return st.Exists
	}

	return map[string]*Task{
		"fetch": {
			Name:     "fetch",
			Executor: p.fetchPage,
			OnError:  ErrorModeStop,
		},
		"parse_date": {
			Name:      "parse_date",
			DependsOn: []string{"fetch"},
			Executor:  p.parseDate,
			OnError:   ErrorModeStop,
		},
		"check_existing": {
			Name:      "check_existing",
			DependsOn: []string{"parse_date"},
			Executor:  p.checkExisting,
			OnError:   ErrorModeStop,
		},
		"extract_rows": {
			Name:      "extract_rows",
			DependsOn: []string{"check_existing"},
			Executor:  p.extractRows,
			SkipIf:    skipExisting,
			OnError:   ErrorModeStop,
		},
		"derive": {
			Name:      "derive",
			DependsOn: []string{"extract_rows"},
			Executor:  p.deriveMetrics,
			SkipIf:    skipExisting,
			OnError:   ErrorModeStop,
		},
		"persist": {
			Name:      "persist",
			DependsOn: []string{"derive"},
			Executor:  p.persist,
			SkipIf:    skipExisting,
			OnError:   ErrorModeStop,
		},
	}
}

// Run executes the daily ingestion once and reports its outcome. Stage
// failures surface in the Result message, not the error return.
func (p *DailyPipeline) Run(ctx context.Context) (*Result, error) {
	st := &RunState{Now: time.Now()}
	exec := NewTaskExecutor(p.store, p.tasks())

	names := []string{"fetch", "parse_date", "check_existing", "extract_rows", "derive", "persist"}
	report, err := exec.Run(ctx, names, st)
	if err != nil {
		return nil, err
	}

	if failed := report.Failed(); failed != nil {
		log.Error().Str("task", report.FailedTask).Str("dateTag", st.DateTag).Msg(failed.Message)
		return &Result{Status: StatusFailed, DateTag: st.DateTag, Message: failed.Message}, nil
	}

	if st.Exists {
		log.Info().Str("dateTag", st.DateTag).Msg("trading day already stored")
		return &Result{Status: StatusAlreadyExists, DateTag: st.DateTag}, nil
	}

	log.Info().Str("dateTag", st.DateTag).Int("stocks", len(st.Records)).Msg("trading day stored")
	return &Result{Status: StatusCreated, DateTag: st.DateTag, StockCount: len(st.Records)}, nil
}

func (p *DailyPipeline) fetchPage(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	body, err := p.fetcher.SummaryPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch error: %v", err)
	}
	page, err := scrape.ParsePage(body)
	if err != nil {
		return nil, err
	}
	st.Page = page
	return &TaskResult{State: StateCompleted}, nil
}

func (p *DailyPipeline) parseDate(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	rawDate, err := st.Page.SummaryDate()
	if err != nil {
		return nil, err
	}
	tag, err := p.tagger.FormatDateTag(rawDate)
	if err != nil {
		return nil, err
	}
	st.RawDate = rawDate
	st.DateTag = tag
	return &TaskResult{State: StateCompleted, Message: tag}, nil
}

func (p *DailyPipeline) checkExisting(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	exists, err := db.HasTradingDay(ctx, st.DateTag)
	if err != nil {
		return nil, err
	}
	st.Exists = exists
	return &TaskResult{State: StateCompleted}, nil
}

func (p *DailyPipeline) extractRows(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	rows, err := st.Page.EquityRows()
	if err != nil {
		return nil, err
	}
	st.Rows = rows
	return &TaskResult{State: StateCompleted, Rows: len(rows)}, nil
}

func (p *DailyPipeline) deriveMetrics(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	typed := calc.TypeRows(st.Rows)
	st.Records = p.deriver.DeriveMetrics(st.DateTag, typed)
	return &TaskResult{State: StateCompleted, Rows: len(st.Records)}, nil
}

func (p *DailyPipeline) persist(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
	day := model.TradingDay{
		DateTag:    st.DateTag,
		ImportedAt: st.Now,
		StockCount: int64(len(st.Records)),
	}
	if err := db.SaveTradingDay(ctx, day, st.Records); err != nil {
		return nil, err
	}
	return &TaskResult{State: StateCompleted, Rows: len(st.Records)}, nil
}
