// Package dashboard turns one state snapshot into the full render payload:
// fetched series, indicator columns, overlay column, event markers, key
// metrics and the portfolio summary. Fetch failures are isolated per ticker
// and a rejected overlay formula is reported inline; bad state or indicator
// params fail the whole render.
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/equitylab/equity-navigator/internal/chart"
	"github.com/equitylab/equity-navigator/internal/events"
	"github.com/equitylab/equity-navigator/internal/i18n"
	"github.com/equitylab/equity-navigator/internal/indicator"
	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/overlay"
	"github.com/equitylab/equity-navigator/internal/portfolio"
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

// DefaultBenchmark is the series beta is measured against.
const DefaultBenchmark = "SPY"

// Metrics are the per-ticker key figures shown above the chart.
type Metrics struct {
	LastClose     float64 `json:"last_close"`
	PeriodChange  float64 `json:"period_change_pct"`
	PeriodHigh    float64 `json:"period_high"`
	PeriodLow     float64 `json:"period_low"`
	AverageVolume float64 `json:"average_volume"`
}

// TickerView is everything rendered for one ticker.
type TickerView struct {
	Ticker  string         `json:"ticker"`
	Metrics Metrics        `json:"metrics"`
	Chart   *chart.Payload `json:"chart"`
}

// View is the full dashboard render.
type View struct {
	Tickers  []*TickerView     `json:"tickers"`
	Failures map[string]string `json:"failures,omitempty"`
	// FormulaError carries a rejected overlay formula's message. The base
	// charts render without the overlay column; nothing else is affected.
	FormulaError string                  `json:"formula_error,omitempty"`
	Portfolio    *types.PortfolioSummary `json:"portfolio,omitempty"`
}

// Service wires the collaborators behind one dashboard render.
type Service struct {
	client    *marketdata.Client
	registry  indicator.Registry
	evaluator *overlay.Evaluator
	annotator *events.Annotator
	bundle    *i18n.Bundle
	benchmark string
	log       *logger.Logger
}

// NewService creates the dashboard service. The annotator may be nil, in
// which case charts carry no event markers.
func NewService(client *marketdata.Client, annotator *events.Annotator, bundle *i18n.Bundle, log *logger.Logger) *Service {
	return &Service{
		client:    client,
		registry:  indicator.DefaultRegistry(),
		evaluator: overlay.NewEvaluator(),
		annotator: annotator,
		bundle:    bundle,
		benchmark: DefaultBenchmark,
		log:       log,
	}
}

// WithBenchmark overrides the beta benchmark ticker.
func (s *Service) WithBenchmark(ticker string) *Service {
	s.benchmark = ticker

	return s
}

// Render produces the view for one state snapshot.
func (s *Service) Render(ctx context.Context, state types.AppState) (*View, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	timespan, err := marketdata.FromTimeframe(state.Timeframe)
	if err != nil {
		return nil, err
	}

	data, failures := s.client.FetchMulti(ctx, state.Tickers, state.Start, state.End, timespan)

	view := &View{
		Tickers:  []*TickerView{},
		Failures: map[string]string{},
	}

	for ticker, fetchErr := range failures {
		view.Failures[ticker] = s.localizeFetchFailure(state.Language, ticker, fetchErr)
	}

	overlayRejected := false

	for _, ticker := range state.Tickers {
		series, ok := data[ticker]
		if !ok {
			continue
		}

		results, err := s.computeIndicators(state, series)
		if err != nil {
			return nil, err
		}

		// A bad formula is surfaced inline; the base chart still renders.
		// The formula is the same for every ticker, so one rejection stops
		// further attempts.
		if state.Overlay != "" && !overlayRejected {
			result, err := s.evaluator.Evaluate(ctx, state.Overlay, series)
			if err != nil {
				overlayRejected = true
				view.FormulaError = err.Error()

				if s.log != nil {
					s.log.Warn("overlay formula rejected", zap.Error(err))
				}
			} else {
				results = append(results, result)
			}
		}

		tickerView, err := s.renderTicker(ctx, state, series, results)
		if err != nil {
			return nil, err
		}

		view.Tickers = append(view.Tickers, tickerView)
	}

	if len(state.Portfolio) > 0 {
		summary, err := s.Portfolio(ctx, state)
		if err != nil {
			if s.log != nil {
				s.log.Warn("portfolio summary unavailable", zap.Error(err))
			}
		} else {
			view.Portfolio = summary
		}
	}

	return view, nil
}

// Portfolio values the state's holdings over the state's date range. Unlike
// Render, errors propagate so the portfolio endpoint can report them.
func (s *Service) Portfolio(ctx context.Context, state types.AppState) (*types.PortfolioSummary, error) {
	if len(state.Portfolio) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "state has no holdings")
	}

	timeframe := state.Timeframe
	if timeframe == "" {
		timeframe = types.TimeframeDaily
	}

	timespan, err := marketdata.FromTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(state.Portfolio))
	for _, holding := range state.Portfolio {
		tickers = append(tickers, holding.Ticker)
	}

	data, failures := s.client.FetchMulti(ctx, tickers, state.Start, state.End, timespan)

	if s.log != nil {
		for ticker, fetchErr := range failures {
			s.log.Warn("portfolio holding could not be fetched",
				zap.String("ticker", ticker),
				zap.Error(fetchErr))
		}
	}

	var benchmark *types.PriceSeries

	if s.benchmark != "" {
		series, err := s.client.Fetch(ctx, s.benchmark, state.Start, state.End, timespan)
		if err == nil {
			benchmark = series
		} else if s.log != nil {
			s.log.Warn("benchmark unavailable, beta omitted",
				zap.String("ticker", s.benchmark),
				zap.Error(err))
		}
	}

	return portfolio.Summarize(state.Portfolio, data, benchmark)
}

// ComputeResults runs the selected indicators and the overlay formula over
// one series. Results come back in selection order, overlay last. Every
// error propagates; Render isolates formula errors itself, the export path
// wants them fatal.
func (s *Service) ComputeResults(ctx context.Context, state types.AppState, series *types.PriceSeries) ([]types.IndicatorResult, error) {
	results, err := s.computeIndicators(state, series)
	if err != nil {
		return nil, err
	}

	if state.Overlay != "" {
		result, err := s.evaluator.Evaluate(ctx, state.Overlay, series)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

// computeIndicators resolves each selection through the registry and runs it.
func (s *Service) computeIndicators(state types.AppState, series *types.PriceSeries) ([]types.IndicatorResult, error) {
	var results []types.IndicatorResult

	for _, selection := range state.Indicators {
		ind, err := s.registry.Get(selection.Type)
		if err != nil {
			return nil, err
		}

		if err := ind.Config(selection.Params...); err != nil {
			return nil, err
		}

		computed, err := ind.Compute(series)
		if err != nil {
			return nil, err
		}

		results = append(results, computed...)
	}

	return results, nil
}

func (s *Service) renderTicker(ctx context.Context, state types.AppState, series *types.PriceSeries, results []types.IndicatorResult) (*TickerView, error) {
	var annotations []types.EventAnnotation

	if s.annotator != nil {
		annotated, err := s.annotator.Annotate(ctx, series, state.Start, state.End)
		if err != nil {
			// Markers are decoration; a dead events collaborator must not
			// take the chart down with it.
			if s.log != nil {
				s.log.Warn("skipping event markers",
					zap.String("ticker", series.Ticker),
					zap.Error(err))
			}

			annotated = nil
		}

		annotations = annotated
	}

	return &TickerView{
		Ticker:  series.Ticker,
		Metrics: computeMetrics(series),
		Chart:   chart.Build(series, state.ChartType, results, annotations),
	}, nil
}

func (s *Service) localizeFetchFailure(lang, ticker string, err error) string {
	if s.bundle == nil {
		return err.Error()
	}

	return s.bundle.Tf(lang, "fetch_failed", "ticker", ticker)
}

func computeMetrics(series *types.PriceSeries) Metrics {
	first := series.Bars[0]
	last := series.Bars[series.Len()-1]

	metrics := Metrics{
		LastClose: last.Close,
		PeriodLow: first.Low,
	}

	if first.Close != 0 {
		metrics.PeriodChange = (last.Close/first.Close - 1) * 100
	}

	var volume float64

	for _, bar := range series.Bars {
		if bar.High > metrics.PeriodHigh {
			metrics.PeriodHigh = bar.High
		}

		if bar.Low < metrics.PeriodLow {
			metrics.PeriodLow = bar.Low
		}

		volume += bar.Volume
	}

	metrics.AverageVolume = volume / float64(series.Len())

	return metrics
}
