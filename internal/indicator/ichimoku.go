package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// Ichimoku implements the Ichimoku Cloud with the standard 9/26/52 windows.
//
// Conversion and base lines are rolling highest-high/lowest-low midpoints.
// The leading spans are shifted forward by the base window; shifted
// positions that fall past the end of the series are dropped so every line
// stays index-aligned with its source. The lagging span is close shifted
// backward by the base window, leaving the final stretch undefined.
type Ichimoku struct {
	conversionWindow int
	baseWindow       int
	spanBWindow      int
}

// NewIchimoku creates a new Ichimoku indicator with the 9/26/52 windows.
func NewIchimoku() Indicator {
	return &Ichimoku{
		conversionWindow: 9,
		baseWindow:       26,
		spanBWindow:      52,
	}
}

// Name returns the name of the indicator.
func (ic *Ichimoku) Name() types.IndicatorType {
	return types.IndicatorTypeIchimokuCloud
}

// Config configures the Ichimoku windows. Expected parameters:
// conversionWindow (int), baseWindow (int), spanBWindow (int).
func (ic *Ichimoku) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: conversionWindow (int), baseWindow (int), spanBWindow (int)")
	}

	conversion, err := parsePositiveInt(params[0], "conversionWindow")
	if err != nil {
		return err
	}

	base, err := parsePositiveInt(params[1], "baseWindow")
	if err != nil {
		return err
	}

	spanB, err := parsePositiveInt(params[2], "spanBWindow")
	if err != nil {
		return err
	}

	ic.conversionWindow = conversion
	ic.baseWindow = base
	ic.spanBWindow = spanB

	return nil
}

// Compute derives the five Ichimoku lines.
func (ic *Ichimoku) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	highs := series.Highs()
	lows := series.Lows()

	conversion := midpoint(highs, lows, ic.conversionWindow)
	base := midpoint(highs, lows, ic.baseWindow)

	spanARaw := noneSeries(series.Len())
	for i := range spanARaw {
		c, cErr := conversion[i].Take()
		b, bErr := base[i].Take()

		if cErr == nil && bErr == nil {
			spanARaw[i] = optional.Some((c + b) / 2)
		}
	}

	spanA := shiftForward(spanARaw, ic.baseWindow)
	spanB := shiftForward(midpoint(highs, lows, ic.spanBWindow), ic.baseWindow)
	lagging := shiftBackward(someSeries(series.Closes()), ic.baseWindow)

	return []types.IndicatorResult{
		{Name: "ichimoku_conversion", Values: conversion},
		{Name: "ichimoku_base", Values: base},
		{Name: "ichimoku_span_a", Values: spanA},
		{Name: "ichimoku_span_b", Values: spanB},
		{Name: "ichimoku_lagging", Values: lagging},
	}, nil
}

// midpoint is (rolling highest high + rolling lowest low) / 2.
func midpoint(highs, lows []float64, window int) []optional.Option[float64] {
	highest := rollingMax(highs, window)
	lowest := rollingMin(lows, window)

	out := noneSeries(len(highs))

	for i := range out {
		h, hErr := highest[i].Take()
		l, lErr := lowest[i].Take()

		if hErr == nil && lErr == nil {
			out[i] = optional.Some((h + l) / 2)
		}
	}

	return out
}

func shiftForward(values []optional.Option[float64], offset int) []optional.Option[float64] {
	out := noneSeries(len(values))

	for i := range values {
		if i-offset >= 0 {
			out[i] = values[i-offset]
		}
	}

	return out
}

func shiftBackward(values []optional.Option[float64], offset int) []optional.Option[float64] {
	out := noneSeries(len(values))

	for i := range values {
		if i+offset < len(values) {
			out[i] = values[i+offset]
		}
	}

	return out
}
