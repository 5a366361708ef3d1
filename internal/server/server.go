// Package server exposes the dashboard over HTTP. All computation lives in
// the dashboard service; handlers only decode requests, call through and
// encode results.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/equitylab/equity-navigator/internal/dashboard"
	"github.com/equitylab/equity-navigator/internal/events"
	"github.com/equitylab/equity-navigator/internal/export"
	"github.com/equitylab/equity-navigator/internal/i18n"
	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
	"github.com/equitylab/equity-navigator/pkg/marketdata/provider"
)

// Server hosts the dashboard API.
type Server struct {
	config   Config
	service  *dashboard.Service
	client   *marketdata.Client
	log      *logger.Logger
	http     *http.Server
	upgrader websocket.Upgrader
}

// NewServer wires the full service stack from the config.
func NewServer(config Config, log *logger.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	dataProvider, err := provider.NewProvider(config.Provider, config.PolygonAPIKey)
	if err != nil {
		return nil, err
	}

	bundle, err := i18n.NewBundle()
	if err != nil {
		return nil, err
	}

	client := marketdata.NewClient(dataProvider, log)
	annotator := events.NewAnnotator(events.NewYahooEventSource(), log)
	service := dashboard.NewService(client, annotator, bundle, log).WithBenchmark(config.Benchmark)

	s := &Server{
		config:  config,
		service: service,
		client:  client,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Routes builds the HTTP router.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodPost)
	api.HandleFunc("/chart", s.handleChart).Methods(http.MethodPost)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/portfolio", s.handlePortfolio).Methods(http.MethodPost)
	api.HandleFunc("/schema", s.handleSchema).Methods(http.MethodGet)

	router.HandleFunc("/ws/live", s.handleLive)

	return router
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server listening", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// dashboardRequest is the AppState plus the raw ticker input form: a comma
// or space separated string, used when the caller has not split it already.
type dashboardRequest struct {
	types.AppState
	TickersInput string `json:"tickers_input,omitempty"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req dashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidState, "failed to decode state", err))

		return
	}

	state := req.AppState
	if len(state.Tickers) == 0 && req.TickersInput != "" {
		state.Tickers = types.ParseTickers(req.TickersInput)
	}

	view, err := s.service.Render(r.Context(), state)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, view)
}

// chartRequest scopes a render to one ticker.
type chartRequest struct {
	State  types.AppState `json:"state"`
	Ticker string         `json:"ticker"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidState, "failed to decode request", err))

		return
	}

	if req.Ticker == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidTicker, "ticker is required"))

		return
	}

	req.State.Tickers = []string{req.Ticker}

	view, err := s.service.Render(r.Context(), req.State)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if len(view.Tickers) == 0 {
		s.writeError(w, errors.Newf(errors.ErrCodeFetchFailed, "no data for %s", req.Ticker))

		return
	}

	s.writeJSON(w, http.StatusOK, view.Tickers[0])
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidState, "failed to decode request", err))

		return
	}

	if req.Ticker == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidTicker, "ticker is required"))

		return
	}

	req.State.Tickers = []string{req.Ticker}
	if err := req.State.Validate(); err != nil {
		s.writeError(w, err)

		return
	}

	timespan, err := marketdata.FromTimeframe(req.State.Timeframe)
	if err != nil {
		s.writeError(w, err)

		return
	}

	series, err := s.client.Fetch(r.Context(), req.Ticker, req.State.Start, req.State.End, timespan)
	if err != nil {
		s.writeError(w, err)

		return
	}

	results, err := s.service.ComputeResults(r.Context(), req.State, series)
	if err != nil {
		s.writeError(w, err)

		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s_%s.csv", req.Ticker, req.State.Timeframe)))

	if err := export.WriteCSV(w, series, results); err != nil {
		s.log.Error("csv export failed mid-stream", zap.Error(err))
	}
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	var state types.AppState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidState, "failed to decode state", err))

		return
	}

	summary, err := s.service.Portfolio(r.Context(), state)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	state := types.AppState{}

	schemaJSON, err := state.GenerateSchemaJSON()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeUnknown, "failed to generate schema", err))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(schemaJSON))
}

// liveQuote is one frame of the live quote stream.
type liveQuote struct {
	Ticker string    `json:"ticker"`
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// handleLive streams the latest bar of the requested ticker over a
// websocket, polling the provider at the configured interval.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidTicker, "ticker is required"))

		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))

		return
	}
	defer conn.Close()

	interval := s.config.LiveInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	poll := time.NewTicker(interval)
	defer poll.Stop()

	// Reader goroutine notices the peer going away.
	closed := make(chan struct{})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		bar, err := s.client.Latest(r.Context(), ticker, marketdata.TimespanOneMinute)
		if err != nil {
			s.log.Warn("live quote poll failed", zap.String("ticker", ticker), zap.Error(err))

			return true
		}

		quote := liveQuote{
			Ticker: ticker,
			Time:   bar.Time,
			Close:  bar.Close,
			Volume: bar.Volume,
		}

		if err := conn.WriteJSON(quote); err != nil {
			return false
		}

		return true
	}

	if !send() {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-poll.C:
			if !send() {
				return
			}
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse is the wire shape of every API error.
type errorResponse struct {
	Error string           `json:"error"`
	Code  errors.ErrorCode `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.HasCode(err, errors.ErrCodeFetchFailed),
		errors.HasCode(err, errors.ErrCodeEventFetchFailed):
		status = http.StatusBadGateway
	case errors.HasCode(err, errors.ErrCodeIndicatorNotFound):
		status = http.StatusNotFound
	case errors.IsFormulaError(err),
		errors.HasCode(err, errors.ErrCodeInvalidState),
		errors.HasCode(err, errors.ErrCodeInvalidDateRange),
		errors.HasCode(err, errors.ErrCodeInvalidTicker),
		errors.HasCode(err, errors.ErrCodeInvalidWindow),
		errors.HasCode(err, errors.ErrCodeInvalidType),
		errors.HasCode(err, errors.ErrCodeInvalidParameter),
		errors.HasCode(err, errors.ErrCodeInvalidTimespan):
		status = http.StatusBadRequest
	}

	s.writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  errors.GetCode(err),
	})
}
