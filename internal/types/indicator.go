package types

import (
	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeSMA                  IndicatorType = "sma"
	IndicatorTypeEMA                  IndicatorType = "ema"
	IndicatorTypeRSI                  IndicatorType = "rsi"
	IndicatorTypeMACD                 IndicatorType = "macd"
	IndicatorTypeBollingerBands       IndicatorType = "bollinger_bands"
	IndicatorTypeStochasticOscillator IndicatorType = "stochastic_oscillator"
	IndicatorTypeATR                  IndicatorType = "atr"
	IndicatorTypeVWAP                 IndicatorType = "vwap"
	IndicatorTypeIchimokuCloud        IndicatorType = "ichimoku_cloud"
	IndicatorTypeOverlay              IndicatorType = "overlay"
)

// IndicatorResult is a named derived series aligned index-for-index with its
// source PriceSeries. Positions without enough lookback hold None, never a
// fabricated number.
type IndicatorResult struct {
	Name   string
	Values []optional.Option[float64]
}

// NewIndicatorResult creates an all-None result of the given length.
func NewIndicatorResult(name string, length int) IndicatorResult {
	values := make([]optional.Option[float64], length)
	for i := range values {
		values[i] = optional.None[float64]()
	}

	return IndicatorResult{
		Name:   name,
		Values: values,
	}
}

// Len returns the length of the result series.
func (r IndicatorResult) Len() int {
	return len(r.Values)
}

// Set stores a defined value at index i.
func (r IndicatorResult) Set(i int, v float64) {
	r.Values[i] = optional.Some(v)
}

// At returns the value at index i and whether it is defined.
func (r IndicatorResult) At(i int) (float64, bool) {
	if i < 0 || i >= len(r.Values) || r.Values[i].IsNone() {
		return 0, false
	}

	return r.Values[i].Unwrap(), true
}

// DefinedCount returns the number of defined positions.
func (r IndicatorResult) DefinedCount() int {
	n := 0

	for _, v := range r.Values {
		if v.IsSome() {
			n++
		}
	}

	return n
}

// LeadingNoValue returns the number of consecutive None positions at the
// start of the series.
func (r IndicatorResult) LeadingNoValue() int {
	for i, v := range r.Values {
		if v.IsSome() {
			return i
		}
	}

	return len(r.Values)
}
