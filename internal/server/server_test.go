package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/equitylab/equity-navigator/internal/dashboard"
	"github.com/equitylab/equity-navigator/internal/i18n"
	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

type stubProvider struct {
	series map[string]*types.PriceSeries
}

func (p *stubProvider) Name() marketdata.ProviderType {
	return marketdata.ProviderType("stub")
}

func (p *stubProvider) Fetch(_ context.Context, ticker string, _, _ time.Time, _ marketdata.Timespan) (*types.PriceSeries, error) {
	series, ok := p.series[ticker]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "no data for %s", ticker)
	}

	return series, nil
}

type ServerTestSuite struct {
	suite.Suite
	provider *stubProvider
	server   *Server
	ts       *httptest.Server
	start    time.Time
	end      time.Time
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.provider = &stubProvider{series: make(map[string]*types.PriceSeries)}
	s.start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s.end = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	bundle, err := i18n.NewBundle()
	s.Require().NoError(err)

	log := logger.NewNop()
	client := marketdata.NewClient(s.provider, log)
	service := dashboard.NewService(client, nil, bundle, log).WithBenchmark("")

	config := DefaultConfig()
	config.LiveInterval = 10 * time.Millisecond

	s.server = &Server{
		config:   config,
		service:  service,
		client:   client,
		log:      log,
		upgrader: websocket.Upgrader{},
	}
	s.ts = httptest.NewServer(s.server.Routes())
}

func (s *ServerTestSuite) TearDownTest() {
	s.ts.Close()
}

func (s *ServerTestSuite) seed(ticker string, closes ...float64) {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   s.start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	series, err := types.NewPriceSeries(ticker, "1d", bars)
	s.Require().NoError(err)
	s.provider.series[ticker] = series
}

func (s *ServerTestSuite) state(tickers ...string) types.AppState {
	return types.AppState{
		Tickers:   tickers,
		Start:     s.start,
		End:       s.end,
		Timeframe: types.TimeframeDaily,
		ChartType: types.ChartTypeLine,
	}
}

func (s *ServerTestSuite) post(path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.ts.URL+path, "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)

	return resp
}

func (s *ServerTestSuite) TestDashboardEndpoint() {
	s.seed("AAPL", 100, 102, 104)

	resp := s.post("/api/dashboard", s.state("AAPL"))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var view dashboard.View
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&view))
	s.Require().Len(view.Tickers, 1)
	s.Equal("AAPL", view.Tickers[0].Ticker)
	s.InDelta(104, view.Tickers[0].Metrics.LastClose, 1e-9)
}

func (s *ServerTestSuite) TestDashboardInvalidState() {
	resp := s.post("/api/dashboard", types.AppState{})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var apiErr errorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&apiErr))
	s.Equal(errors.ErrCodeInvalidState, apiErr.Code)
}

func (s *ServerTestSuite) TestDashboardBadFormulaKeepsChart() {
	s.seed("AAPL", 100, 102)

	state := s.state("AAPL")
	state.Overlay = "close +"

	resp := s.post("/api/dashboard", state)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var view dashboard.View
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&view))
	s.NotEmpty(view.FormulaError)
	s.Require().Len(view.Tickers, 1)
	s.Empty(view.Tickers[0].Chart.Overlays)
}

func (s *ServerTestSuite) TestDashboardTickersInputString() {
	s.seed("AAPL", 100, 102)
	s.seed("MSFT", 200, 202)

	resp := s.post("/api/dashboard", map[string]any{
		"tickers_input": "aapl, msft",
		"start":         s.start,
		"end":           s.end,
		"timeframe":     "daily",
		"chart_type":    "line",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var view dashboard.View
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&view))
	s.Require().Len(view.Tickers, 2)
	s.Equal("AAPL", view.Tickers[0].Ticker)
	s.Equal("MSFT", view.Tickers[1].Ticker)
}

func (s *ServerTestSuite) TestExportBadFormulaRejected() {
	s.seed("AAPL", 100, 102)

	state := s.state("AAPL")
	state.Overlay = "close +"

	resp := s.post("/api/export", map[string]any{
		"state":  state,
		"ticker": "AAPL",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestChartEndpoint() {
	s.seed("AAPL", 100, 102, 104)

	resp := s.post("/api/chart", map[string]any{
		"state":  s.state("AAPL"),
		"ticker": "AAPL",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var view dashboard.TickerView
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&view))
	s.Equal("AAPL", view.Ticker)
}

func (s *ServerTestSuite) TestChartMissingTicker() {
	resp := s.post("/api/chart", map[string]any{"state": s.state("AAPL")})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestChartUnknownTickerIsBadGateway() {
	resp := s.post("/api/chart", map[string]any{
		"state":  s.state("BAD"),
		"ticker": "BAD",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadGateway, resp.StatusCode)
}

func (s *ServerTestSuite) TestExportEndpoint() {
	s.seed("AAPL", 100, 102, 104)

	state := s.state("AAPL")
	state.Indicators = []types.IndicatorSelection{
		{Type: types.IndicatorTypeSMA, Params: []any{2}},
	}

	resp := s.post("/api/export", map[string]any{
		"state":  state,
		"ticker": "AAPL",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/csv", resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "AAPL_daily.csv")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	s.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Require().Len(lines, 4)
	s.Equal("timestamp,open,high,low,close,volume,sma_2", lines[0])
}

func (s *ServerTestSuite) TestPortfolioEndpoint() {
	s.seed("AAPL", 100, 110, 120)

	state := s.state("AAPL")
	state.Portfolio = []types.Holding{{Ticker: "AAPL", Quantity: decimal.NewFromInt(3)}}

	resp := s.post("/api/portfolio", state)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var summary types.PortfolioSummary
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&summary))
	s.Equal("360", summary.TotalValue.String())
}

func (s *ServerTestSuite) TestPortfolioWithoutHoldings() {
	resp := s.post("/api/portfolio", s.state("AAPL"))
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestSchemaEndpoint() {
	resp, err := http.Get(s.ts.URL + "/api/schema")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var schema map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&schema))
	s.Equal("dashboard-state", schema["title"])

	properties, ok := schema["properties"].(map[string]any)
	s.Require().True(ok)
	s.Contains(properties, "tickers")
	s.Contains(properties, "chart_type")
}

func (s *ServerTestSuite) TestLiveStream() {
	s.seed("AAPL", 100, 102, 104)

	wsURL := "ws" + strings.TrimPrefix(s.ts.URL, "http") + "/ws/live?ticker=AAPL"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)

	defer resp.Body.Close()
	defer conn.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))

	var quote liveQuote
	s.Require().NoError(conn.ReadJSON(&quote))
	s.Equal("AAPL", quote.Ticker)
	s.InDelta(104, quote.Close, 1e-9)
}
