package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// BollingerBands implements Bollinger Bands: middle = SMA(window), upper and
// lower = middle +/- k * rolling standard deviation.
type BollingerBands struct {
	window int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default
// configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		window: 20,  // Default window
		stdDev: 2.0, // Default standard deviation multiplier
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters:
// window (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: window (int), stdDev (float64)")
	}

	window, err := parsePositiveInt(params[0], "window")
	if err != nil {
		return err
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.window = window
	bb.stdDev = stdDev

	return nil
}

// Compute derives the middle, upper and lower band series.
func (bb *BollingerBands) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	closes := series.Closes()
	middle := rollingMean(closes, bb.window)
	std := rollingStdDev(closes, bb.window)

	upper := noneSeries(len(closes))
	lower := noneSeries(len(closes))

	for i := range closes {
		m, mErr := middle[i].Take()
		sd, sdErr := std[i].Take()

		if mErr == nil && sdErr == nil {
			upper[i] = optional.Some(m + bb.stdDev*sd)
			lower[i] = optional.Some(m - bb.stdDev*sd)
		}
	}

	prefix := fmt.Sprintf("bb_%d", bb.window)

	return []types.IndicatorResult{
		{Name: prefix + "_middle", Values: middle},
		{Name: prefix + "_upper", Values: upper},
		{Name: prefix + "_lower", Values: lower},
	}, nil
}
