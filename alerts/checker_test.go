package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baraka/dse2db/metrics"
	"github.com/baraka/dse2db/model"
)

// alertStore implements the alert-facing slice of database.Store.
type alertStore struct {
	alerts        []model.Alert
	notifications []model.Notification
}

func (s *alertStore) Connect() error                       { return nil }
func (s *alertStore) Close() error                         { return nil }
func (s *alertStore) InitSchema(ctx context.Context) error { return nil }
func (s *alertStore) HasTradingDay(ctx context.Context, dateTag string) (bool, error) {
	return false, nil
}
func (s *alertStore) SaveTradingDay(ctx context.Context, day model.TradingDay, records []model.InstrumentRecord) error {
	return nil
}
func (s *alertStore) ListDates(ctx context.Context) ([]string, error) { return nil, nil }
func (s *alertStore) DailyStocks(ctx context.Context, dateTag string) ([]model.InstrumentRecord, error) {
	return nil, nil
}
func (s *alertStore) SymbolHistory(ctx context.Context, symbol string) ([]model.InstrumentRecord, error) {
	return nil, nil
}
func (s *alertStore) AllSymbols(ctx context.Context) ([]string, error)                  { return nil, nil }
func (s *alertStore) SaveLiveQuotes(ctx context.Context, quotes []model.LiveQuote) error { return nil }

func (s *alertStore) CreateAlert(ctx context.Context, alert model.Alert) error {
	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *alertStore) ActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	var out []model.Alert
	for _, a := range s.alerts {
		if a.Status == model.AlertActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *alertStore) MarkAlertTriggered(ctx context.Context, id string, price float64, at time.Time) error {
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Status = model.AlertTriggered
			s.alerts[i].TriggeredPrice = price
			s.alerts[i].TriggeredAt = &at
		}
	}
	return nil
}

func (s *alertStore) SaveNotifications(ctx context.Context, notes []model.Notification) error {
	s.notifications = append(s.notifications, notes...)
	return nil
}

type captureNotifier struct {
	sent []model.PushMessage
}

func (n *captureNotifier) Send(ctx context.Context, msg model.PushMessage) error {
	n.sent = append(n.sent, msg)
	return nil
}

// tradingWednesday is a weekday timestamp inside the alert window.
var tradingWednesday = time.Date(2026, time.February, 4, 11, 0, 0, 0, time.UTC)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestInTradingWindow(t *testing.T) {
	assert.True(t, InTradingWindow(time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)), "Monday 09:00")
	assert.True(t, InTradingWindow(time.Date(2026, time.February, 6, 17, 0, 0, 0, time.UTC)), "Friday 17:00")
	assert.False(t, InTradingWindow(time.Date(2026, time.February, 2, 8, 59, 0, 0, time.UTC)), "before open")
	assert.False(t, InTradingWindow(time.Date(2026, time.February, 2, 17, 1, 0, 0, time.UTC)), "after buffer")
	assert.False(t, InTradingWindow(time.Date(2026, time.February, 7, 11, 0, 0, 0, time.UTC)), "Saturday")
	assert.False(t, InTradingWindow(time.Date(2026, time.February, 8, 11, 0, 0, 0, time.UTC)), "Sunday")
}

func TestCheckTriggersAbove(t *testing.T) {
	store := &alertStore{alerts: []model.Alert{{
		ID: "a1", Symbol: "CRDB", TargetPrice: 1200, Condition: model.ConditionAbove,
		Status: model.AlertActive, FCMToken: "tok-1",
	}}}
	notifier := &captureNotifier{}
	c := NewChecker(store, notifier, fixedNow(tradingWednesday))

	n, err := c.Check(context.Background(), map[string]float64{"CRDB": 1210})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, model.AlertTriggered, store.alerts[0].Status)
	assert.Equal(t, 1210.0, store.alerts[0].TriggeredPrice)
	require.NotNil(t, store.alerts[0].TriggeredAt)

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Equal(t, "tok-1", msg.Token)
	assert.Equal(t, "CRDB Price Alert", msg.Notification.Title)
	assert.Contains(t, msg.Notification.Body, "risen above")
	assert.Equal(t, "PRICE_ALERT", msg.Data.Type)
	assert.Equal(t, "a1", msg.Data.AlertID)
	assert.Equal(t, "1210", msg.Data.Price)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, "a1", store.notifications[0].AlertID)
	assert.Equal(t, 1210.0, store.notifications[0].Price)
}

func TestCheckTriggersBelow(t *testing.T) {
	store := &alertStore{alerts: []model.Alert{{
		ID: "a2", Symbol: "NMB", TargetPrice: 5000, Condition: model.ConditionBelow,
		Status: model.AlertActive,
	}}}
	c := NewChecker(store, nil, fixedNow(tradingWednesday))

	n, err := c.Check(context.Background(), map[string]float64{"NMB": 4900})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.AlertTriggered, store.alerts[0].Status)
}

func TestCheckExactTargetTriggers(t *testing.T) {
	store := &alertStore{alerts: []model.Alert{{
		ID: "a3", Symbol: "CRDB", TargetPrice: 1210, Condition: model.ConditionAbove,
		Status: model.AlertActive,
	}}}
	c := NewChecker(store, nil, fixedNow(tradingWednesday))

	n, err := c.Check(context.Background(), map[string]float64{"CRDB": 1210})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCheckNotMet(t *testing.T) {
	store := &alertStore{alerts: []model.Alert{{
		ID: "a4", Symbol: "CRDB", TargetPrice: 1300, Condition: model.ConditionAbove,
		Status: model.AlertActive,
	}}}
	c := NewChecker(store, nil, fixedNow(tradingWednesday))

	n, err := c.Check(context.Background(), map[string]float64{"CRDB": 1210})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, model.AlertActive, store.alerts[0].Status)
	assert.Empty(t, store.notifications)
}

func TestCheckSymbolNotInSnapshot(t *testing.T) {
	store := &alertStore{alerts: []model.Alert{{
		ID: "a5", Symbol: "TBL", TargetPrice: 100, Condition: model.ConditionBelow,
		Status: model.AlertActive,
	}}}
	c := NewChecker(store, nil, fixedNow(tradingWednesday))

	n, err := c.Check(context.Background(), map[string]float64{"CRDB": 1210})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckOutsideWindow(t *testing.T) {
	store := &alertStore{alerts: []model.Alert{{
		ID: "a6", Symbol: "CRDB", TargetPrice: 1200, Condition: model.ConditionAbove,
		Status: model.AlertActive,
	}}}
	saturday := time.Date(2026, time.February, 7, 11, 0, 0, 0, time.UTC)
	c := NewChecker(store, nil, fixedNow(saturday))

	n, err := c.Check(context.Background(), map[string]float64{"CRDB": 1210})
	require.NoError(t, err)
	assert.Zero(t, n, "weekend check must be a no-op")
	assert.Equal(t, model.AlertActive, store.alerts[0].Status)
}

func TestCheckCountsTriggeredAlerts(t *testing.T) {
	before := testutil.ToFloat64(metrics.AlertsTriggered)

	store := &alertStore{alerts: []model.Alert{
		{ID: "m1", Symbol: "CRDB", TargetPrice: 1200, Condition: model.ConditionAbove, Status: model.AlertActive},
		{ID: "m2", Symbol: "NMB", TargetPrice: 5000, Condition: model.ConditionBelow, Status: model.AlertActive},
		{ID: "m3", Symbol: "TBL", TargetPrice: 99999, Condition: model.ConditionAbove, Status: model.AlertActive},
	}}
	c := NewChecker(store, nil, fixedNow(tradingWednesday))

	n, err := c.Check(context.Background(), map[string]float64{"CRDB": 1210, "NMB": 4900, "TBL": 10})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.AlertsTriggered))
}

func TestCreateAlert(t *testing.T) {
	store := &alertStore{}

	alert, err := Create(context.Background(), store, CreateAlertInput{
		Symbol:      " crdb ",
		TargetPrice: 1250,
		Condition:   model.ConditionAbove,
		FCMToken:    "tok",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "CRDB", alert.Symbol, "symbol uppercased and trimmed")
	assert.Equal(t, model.AlertActive, alert.Status)
	require.Len(t, store.alerts, 1)
}

func TestCreateAlertValidation(t *testing.T) {
	store := &alertStore{}

	_, err := Create(context.Background(), store, CreateAlertInput{TargetPrice: 100, Condition: "ABOVE"})
	assert.Error(t, err, "symbol required")

	_, err = Create(context.Background(), store, CreateAlertInput{Symbol: "CRDB", Condition: "ABOVE"})
	assert.Error(t, err, "target must be positive")

	_, err = Create(context.Background(), store, CreateAlertInput{Symbol: "CRDB", TargetPrice: -5, Condition: "ABOVE"})
	assert.Error(t, err)

	_, err = Create(context.Background(), store, CreateAlertInput{Symbol: "CRDB", TargetPrice: 100, Condition: "SIDEWAYS"})
	assert.Error(t, err)

	assert.Empty(t, store.alerts)
}
