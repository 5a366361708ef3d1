package types

import (
	"time"

	"github.com/equitylab/equity-navigator/pkg/errors"
)

// Bar is a single OHLCV record for one time bar.
type Bar struct {
	Time   time.Time `json:"time" csv:"time"`
	Open   float64   `json:"open" csv:"open"`
	High   float64   `json:"high" csv:"high"`
	Low    float64   `json:"low" csv:"low"`
	Close  float64   `json:"close" csv:"close"`
	Volume float64   `json:"volume" csv:"volume"`
}

// TypicalPrice returns (high + low + close) / 3, the price used by VWAP.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// PriceSeries is an immutable, time-ordered sequence of bars for one ticker.
// Construct it with NewPriceSeries so ordering invariants hold; the bar slice
// must not be mutated afterwards.
type PriceSeries struct {
	Ticker   string `json:"ticker"`
	Interval string `json:"interval"`
	Bars     []Bar  `json:"bars"`
}

// NewPriceSeries validates that timestamps are strictly increasing with no
// duplicates and returns the series. The bars slice is taken over by the
// series and must not be modified by the caller.
func NewPriceSeries(ticker, interval string, bars []Bar) (*PriceSeries, error) {
	if ticker == "" {
		return nil, errors.New(errors.ErrCodeInvalidTicker, "ticker must not be empty")
	}

	for i := 1; i < len(bars); i++ {
		if bars[i].Time.Equal(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeDuplicateTimestamp, "duplicate timestamp %s at index %d", bars[i].Time, i)
		}

		if bars[i].Time.Before(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeUnorderedSeries, "timestamp %s at index %d is before its predecessor", bars[i].Time, i)
		}
	}

	return &PriceSeries{
		Ticker:   ticker,
		Interval: interval,
		Bars:     bars,
	}, nil
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the close column as a new slice.
func (s *PriceSeries) Closes() []float64 {
	return s.column(func(b Bar) float64 { return b.Close })
}

// Opens returns the open column as a new slice.
func (s *PriceSeries) Opens() []float64 {
	return s.column(func(b Bar) float64 { return b.Open })
}

// Highs returns the high column as a new slice.
func (s *PriceSeries) Highs() []float64 {
	return s.column(func(b Bar) float64 { return b.High })
}

// Lows returns the low column as a new slice.
func (s *PriceSeries) Lows() []float64 {
	return s.column(func(b Bar) float64 { return b.Low })
}

// Volumes returns the volume column as a new slice.
func (s *PriceSeries) Volumes() []float64 {
	return s.column(func(b Bar) float64 { return b.Volume })
}

// Timestamps returns the time column as a new slice.
func (s *PriceSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Time
	}

	return out
}

func (s *PriceSeries) column(f func(Bar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = f(b)
	}

	return out
}
