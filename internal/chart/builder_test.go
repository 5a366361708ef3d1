package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/equitylab/equity-navigator/internal/types"
)

type BuilderTestSuite struct {
	suite.Suite
	series *types.PriceSeries
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

func (s *BuilderTestSuite) SetupTest() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 101, 102, 101, 103}

	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 + i*100),
		}
	}

	series, err := types.NewPriceSeries("AAPL", "1d", bars)
	s.Require().NoError(err)
	s.series = series
}

func result(name string, values ...float64) types.IndicatorResult {
	r := types.NewIndicatorResult(name, len(values))
	for i, v := range values {
		r.Set(i, v)
	}

	return r
}

func (s *BuilderTestSuite) TestPriceAndVolumeColumns() {
	payload := Build(s.series, types.ChartTypeCandlestick, nil, nil)

	s.Equal("AAPL", payload.Ticker)
	s.Equal(types.ChartTypeCandlestick, payload.ChartType)
	s.Len(payload.Times, 5)
	s.Equal(s.series.Closes(), payload.Price.Close)
	s.Equal(s.series.Volumes(), payload.Volume)
	s.Empty(payload.Overlays)
	s.Empty(payload.Panels)
}

func (s *BuilderTestSuite) TestOverlayAndPanelRouting() {
	results := []types.IndicatorResult{
		result("sma_3", 0, 0, 101, 101.33, 102),
		result("rsi_14", 0, 0, 0, 55, 60),
		result("macd", 0, 0, 0, 0.5, 0.7),
		result("macd_signal", 0, 0, 0, 0.4, 0.5),
		result("stoch_k", 0, 0, 0, 80, 85),
		result("atr_14", 0, 0, 0, 1.5, 1.6),
		result("vwap", 100, 100.5, 101, 101.2, 101.8),
	}

	payload := Build(s.series, types.ChartTypeLine, results, nil)

	overlayNames := make([]string, 0, len(payload.Overlays))
	for _, trace := range payload.Overlays {
		overlayNames = append(overlayNames, trace.Name)
	}

	s.Equal([]string{"sma_3", "vwap"}, overlayNames)

	panelNames := make([]string, 0, len(payload.Panels))
	for _, panel := range payload.Panels {
		panelNames = append(panelNames, panel.Name)
	}

	s.Equal([]string{"atr", "macd", "rsi", "stochastic"}, panelNames)

	for _, panel := range payload.Panels {
		if panel.Name == "macd" {
			s.Len(panel.Traces, 2)
		}
	}
}

func (s *BuilderTestSuite) TestNoValueRendersAsNil() {
	r := types.NewIndicatorResult("sma_3", 5)
	r.Set(2, 101)
	r.Set(3, 101.3333333333)
	r.Set(4, 102)

	payload := Build(s.series, types.ChartTypeLine, []types.IndicatorResult{r}, nil)

	s.Require().Len(payload.Overlays, 1)
	values := payload.Overlays[0].Values
	s.Require().Len(values, 5)
	s.Nil(values[0])
	s.Nil(values[1])
	s.Require().NotNil(values[2])
	s.InDelta(101, *values[2], 1e-9)
}

func (s *BuilderTestSuite) TestMarkersPinToBarClose() {
	annotation := types.NewEventAnnotation(s.series.Bars[1].Time, "Earnings (2024-01-03)", types.EventKindEarnings)

	payload := Build(s.series, types.ChartTypeLine, nil, []types.EventAnnotation{annotation})

	s.Require().Len(payload.Markers, 1)
	marker := payload.Markers[0]
	s.Equal(annotation.ID, marker.ID)
	s.Equal(types.EventKindEarnings, marker.Kind)
	s.InDelta(101, marker.Price, 1e-9)
}
