package indicator

import (
	"fmt"
	"math"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// ATR implements the Average True Range as the simple moving average of the
// True Range, where TR = max(high-low, |high-prevClose|, |low-prevClose|).
// The first bar has no previous close, so its TR is high-low.
type ATR struct {
	window int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATR{
		window: 14, // Default window
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config configures the ATR indicator. Expected parameters: window (int).
func (a *ATR) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: window (int)")
	}

	window, err := parsePositiveInt(params[0], "window")
	if err != nil {
		return err
	}

	a.window = window

	return nil
}

// Compute derives the ATR series.
func (a *ATR) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	trueRange := make([]float64, series.Len())

	for i, bar := range series.Bars {
		tr := bar.High - bar.Low

		if i > 0 {
			prevClose := series.Bars[i-1].Close
			tr = math.Max(tr, math.Abs(bar.High-prevClose))
			tr = math.Max(tr, math.Abs(bar.Low-prevClose))
		}

		trueRange[i] = tr
	}

	result := types.IndicatorResult{
		Name:   fmt.Sprintf("atr_%d", a.window),
		Values: rollingMean(trueRange, a.window),
	}

	return []types.IndicatorResult{result}, nil
}
