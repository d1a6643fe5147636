// Package server exposes the pipelines over HTTP: manual trigger
// endpoints, a date listing, a health probe and Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/baraka/dse2db/database"
	"github.com/baraka/dse2db/metrics"
	"github.com/baraka/dse2db/workflow"
)

type Server struct {
	daily      *workflow.DailyPipeline
	live       *workflow.LivePipeline
	store      database.Store
	production bool

	http *http.Server
}

func New(addr string, daily *workflow.DailyPipeline, live *workflow.LivePipeline, store database.Store, production bool) *Server {
	s := &Server{daily: daily, live: live, store: store, production: production}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/run/daily", s.handleRunDaily).Methods(http.MethodPost)
	api.HandleFunc("/run/live", s.handleRunLive).Methods(http.MethodPost)
	api.HandleFunc("/dates", s.handleDates).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a manual run waits for the pipeline
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Manual triggers are disabled in production, where the scheduler owns
// the pipelines.
func (s *Server) guardProduction(w http.ResponseWriter) bool {
	if s.production {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "manual runs disabled in production"})
		return false
	}
	return true
}

func (s *Server) handleRunDaily(w http.ResponseWriter, r *http.Request) {
	if !s.guardProduction(w) {
		return
	}
	result, err := s.daily.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	metrics.ObserveRun("daily", result.Status, result.StockCount, "stocks")

	code := http.StatusOK
	if result.Status == workflow.StatusFailed {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, result)
}

func (s *Server) handleRunLive(w http.ResponseWriter, r *http.Request) {
	if !s.guardProduction(w) {
		return
	}
	result, err := s.live.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	metrics.ObserveRun("live", result.Status, result.StockCount, "quotes")

	code := http.StatusOK
	if result.Status == workflow.StatusFailed {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, result)
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.store.ListDates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": dates, "count": len(dates)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
