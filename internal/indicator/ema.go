package indicator

import (
	"fmt"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// EMA implements the Exponential Moving Average over the close column.
//
// The value at position window-1 is seeded with SMA(window); later positions
// follow close*alpha + prev*(1-alpha) with alpha = 2/(window+1). Positions
// before the seed carry no value.
type EMA struct {
	window int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		window: 20, // Default window
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: window (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: window (int)")
	}

	window, err := parsePositiveInt(params[0], "window")
	if err != nil {
		return err
	}

	e.window = window

	return nil
}

// Compute derives the EMA series.
func (e *EMA) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	result := types.IndicatorResult{
		Name:   fmt.Sprintf("ema_%d", e.window),
		Values: emaOptional(someSeries(series.Closes()), e.window),
	}

	return []types.IndicatorResult{result}, nil
}
