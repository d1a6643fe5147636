package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baraka/dse2db/model"
)

type stubStore struct {
	dates []string
}

func (s *stubStore) Connect() error                       { return nil }
func (s *stubStore) Close() error                         { return nil }
func (s *stubStore) InitSchema(ctx context.Context) error { return nil }
func (s *stubStore) HasTradingDay(ctx context.Context, dateTag string) (bool, error) {
	return false, nil
}
func (s *stubStore) SaveTradingDay(ctx context.Context, day model.TradingDay, records []model.InstrumentRecord) error {
	return nil
}
func (s *stubStore) ListDates(ctx context.Context) ([]string, error) { return s.dates, nil }
func (s *stubStore) DailyStocks(ctx context.Context, dateTag string) ([]model.InstrumentRecord, error) {
	return nil, nil
}
func (s *stubStore) SymbolHistory(ctx context.Context, symbol string) ([]model.InstrumentRecord, error) {
	return nil, nil
}
func (s *stubStore) AllSymbols(ctx context.Context) ([]string, error)                   { return nil, nil }
func (s *stubStore) SaveLiveQuotes(ctx context.Context, quotes []model.LiveQuote) error { return nil }
func (s *stubStore) CreateAlert(ctx context.Context, alert model.Alert) error           { return nil }
func (s *stubStore) ActiveAlerts(ctx context.Context) ([]model.Alert, error)            { return nil, nil }
func (s *stubStore) MarkAlertTriggered(ctx context.Context, id string, price float64, at time.Time) error {
	return nil
}
func (s *stubStore) SaveNotifications(ctx context.Context, notes []model.Notification) error {
	return nil
}

func TestHealthz(t *testing.T) {
	srv := New(":0", nil, nil, &stubStore{}, false)

	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDates(t *testing.T) {
	srv := New(":0", nil, nil, &stubStore{dates: []string{"9Feb2026", "7Feb2026"}}, false)

	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dates", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Dates []string `json:"dates"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"9Feb2026", "7Feb2026"}, body.Dates)
	assert.Equal(t, 2, body.Count)
}

func TestRunEndpointsForbiddenInProduction(t *testing.T) {
	srv := New(":0", nil, nil, &stubStore{}, true)

	for _, path := range []string{"/api/v1/run/daily", "/api/v1/run/live"} {
		rec := httptest.NewRecorder()
		srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestRunEndpointsRejectGet(t *testing.T) {
	srv := New(":0", nil, nil, &stubStore{}, false)

	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/run/daily", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsExposed(t *testing.T) {
	srv := New(":0", nil, nil, &stubStore{}, false)

	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
