// Package alerts evaluates price alerts against live quotes and records
// the notifications they produce.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/metrics"
	"github.com/baraka/dse2db/model"
)

// Trading window bounds, minutes from midnight local time.
const (
	windowOpenMinute  = 9 * 60  // 09:00
	windowCloseMinute = 17 * 60 // 17:00, buffered past the 16:00 close
)

// InTradingWindow reports whether t falls inside the Monday-Friday
// 09:00-17:00 window during which alerts are evaluated. The extra hour
// past the exchange close covers late feed updates.
func InTradingWindow(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= windowOpenMinute && minute <= windowCloseMinute
}

// Checker evaluates active alerts against a price snapshot. Each alert
// fires at most once: triggering flips it to TRIGGERED so the next run
// no longer sees it.
type Checker struct {
	store    database.Store
	notifier Notifier
	now      func() time.Time
}

// NewChecker builds a Checker. notifier may be nil to skip delivery;
// now may be nil to use the wall clock.
func NewChecker(store database.Store, notifier Notifier, now func() time.Time) *Checker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &Checker{store: store, notifier: notifier, now: now}
}

// Check evaluates every active alert against prices and returns how many
// triggered. Outside the trading window it does nothing.
func (c *Checker) Check(ctx context.Context, prices map[string]float64) (int, error) {
	now := c.now()
	if !InTradingWindow(now) {
		log.Debug().Time("at", now).Msg("outside trading window, skipping alert check")
		return 0, nil
	}

	active, err := c.store.ActiveAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active alerts: %w", err)
	}
	if len(active) == 0 {
		return 0, nil
	}

	var notes []model.Notification
	triggered := 0
	for _, alert := range active {
		price, ok := prices[alert.Symbol]
		if !ok {
			continue
		}
		if !conditionMet(alert, price) {
			continue
		}

		if err := c.store.MarkAlertTriggered(ctx, alert.ID, price, now); err != nil {
			log.Error().Err(err).Str("alertId", alert.ID).Msg("failed to mark alert triggered")
			continue
		}
		triggered++

		msg := buildPushMessage(alert, price)
		if err := c.notifier.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Str("alertId", alert.ID).Msg("push delivery failed")
		}

		notes = append(notes, model.Notification{
			ID:        uuid.NewString(),
			AlertID:   alert.ID,
			Symbol:    alert.Symbol,
			Title:     msg.Notification.Title,
			Body:      msg.Notification.Body,
			Price:     price,
			CreatedAt: now,
		})

		log.Info().
			Str("symbol", alert.Symbol).
			Str("condition", alert.Condition).
			Float64("target", alert.TargetPrice).
			Float64("price", price).
			Msg("price alert triggered")
	}

	if triggered > 0 {
		metrics.AlertsTriggered.Add(float64(triggered))
	}
	if len(notes) > 0 {
		if err := c.store.SaveNotifications(ctx, notes); err != nil {
			return triggered, fmt.Errorf("save notifications: %w", err)
		}
	}
	return triggered, nil
}

func conditionMet(alert model.Alert, price float64) bool {
	switch alert.Condition {
	case model.ConditionAbove:
		return price >= alert.TargetPrice
	case model.ConditionBelow:
		return price <= alert.TargetPrice
	default:
		return false
	}
}

func buildPushMessage(alert model.Alert, price float64) model.PushMessage {
	direction := "risen above"
	if alert.Condition == model.ConditionBelow {
		direction = "fallen below"
	}
	return model.PushMessage{
		Token: alert.FCMToken,
		Notification: model.PushNotification{
			Title: fmt.Sprintf("%s Price Alert", alert.Symbol),
			Body: fmt.Sprintf("%s has %s your target of %.2f TZS. Current price: %.2f TZS",
				alert.Symbol, direction, alert.TargetPrice, price),
		},
		Data: model.PushData{
			Type:    "PRICE_ALERT",
			Symbol:  alert.Symbol,
			AlertID: alert.ID,
			Price:   fmt.Sprintf("%v", price),
		},
	}
}
