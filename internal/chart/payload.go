// Package chart builds renderer-agnostic chart payloads from price series,
// indicator results and event annotations. The payload carries plain arrays
// keyed by timestamp so any front end can plot it; nothing in here knows how
// to draw.
package chart

import (
	"time"

	"github.com/equitylab/equity-navigator/internal/types"
)

// Trace is one named value series aligned to the payload timestamps. A nil
// entry means the value is undefined at that bar and must render as a gap,
// never as zero.
type Trace struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// PriceTrace carries the OHLC columns for the price panel. Line and area
// chart types read only Close; candlestick reads all four.
type PriceTrace struct {
	Open  []float64 `json:"open"`
	High  []float64 `json:"high"`
	Low   []float64 `json:"low"`
	Close []float64 `json:"close"`
}

// Panel is a sub-chart rendered below the price panel, such as RSI or MACD.
type Panel struct {
	Name   string  `json:"name"`
	Traces []Trace `json:"traces"`
}

// Marker is an event annotation pinned to a bar on the price panel.
type Marker struct {
	ID    string          `json:"id"`
	Time  time.Time       `json:"time"`
	Label string          `json:"label"`
	Kind  types.EventKind `json:"kind"`
	Price float64         `json:"price"`
}

// Payload is the full chart description for one ticker.
type Payload struct {
	Ticker    string          `json:"ticker"`
	Interval  string          `json:"interval"`
	ChartType types.ChartType `json:"chart_type"`
	Times     []time.Time     `json:"times"`
	Price     PriceTrace      `json:"price"`
	Volume    []float64       `json:"volume"`
	Overlays  []Trace         `json:"overlays"`
	Panels    []Panel         `json:"panels"`
	Markers   []Marker        `json:"markers"`
}
