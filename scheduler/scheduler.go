// Package scheduler drives the pipelines on a clock: the daily ingestion
// inside its evening publication window, the live ingestion during market
// hours.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/alerts"
	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/metrics"
	"github.com/baraka/dse2db/parse"
	"github.com/baraka/dse2db/workflow"
)

// Scheduler ticks at a fixed interval and decides which pipelines are due.
type Scheduler struct {
	daily *workflow.DailyPipeline
	live  *workflow.LivePipeline
	store database.Store

	loc       *time.Location
	interval  time.Duration
	startHour int
	endHour   int

	now func() time.Time
}

func New(daily *workflow.DailyPipeline, live *workflow.LivePipeline, store database.Store, loc *time.Location, interval time.Duration, startHour, endHour int) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Scheduler{
		daily:     daily,
		live:      live,
		store:     store,
		loc:       loc,
		interval:  interval,
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled, ticking every interval. The first
// tick happens immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", s.interval).
		Str("timezone", s.loc.String()).
		Int("dailyStart", s.startHour).
		Int("dailyEnd", s.endHour).
		Msg("scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().In(s.loc)

	if s.inDailyWindow(now) {
		s.runDaily(ctx, now)
	}
	if alerts.InTradingWindow(now) {
		s.runLive(ctx)
	}
}

func (s *Scheduler) inDailyWindow(t time.Time) bool {
	return t.Hour() >= s.startHour && t.Hour() <= s.endHour
}

// runDaily ingests today's summary if it is not stored yet. A missing
// day late in the window on a weekday usually means the exchange page
// was never updated.
func (s *Scheduler) runDaily(ctx context.Context, now time.Time) {
	todayTag := parse.DayTag(now)
	exists, err := s.store.HasTradingDay(ctx, todayTag)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: trading day lookup failed")
		return
	}
	if exists {
		return
	}

	if now.Hour() >= s.endHour && isWeekday(now) {
		log.Warn().Str("dateTag", todayTag).Msg("trading day still missing near end of publication window")
	}

	result, err := s.daily.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: daily run error")
		return
	}
	metrics.ObserveRun("daily", result.Status, result.StockCount, "stocks")
}

func (s *Scheduler) runLive(ctx context.Context) {
	result, err := s.live.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: live run error")
		return
	}
	metrics.ObserveRun("live", result.Status, result.StockCount, "quotes")
}

func isWeekday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}
