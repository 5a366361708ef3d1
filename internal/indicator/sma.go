package indicator

import (
	"fmt"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// SMA implements the Simple Moving Average over the close column.
type SMA struct {
	window int
}

// NewSMA creates a new SMA indicator with default configuration.
func NewSMA() Indicator {
	return &SMA{
		window: 20, // Default window
	}
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config configures the SMA indicator. Expected parameters: window (int).
func (s *SMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: window (int)")
	}

	window, err := parsePositiveInt(params[0], "window")
	if err != nil {
		return err
	}

	s.window = window

	return nil
}

// Compute returns the trailing mean of close over the configured window. The
// first window-1 positions carry no value.
func (s *SMA) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	result := types.IndicatorResult{
		Name:   fmt.Sprintf("sma_%d", s.window),
		Values: rollingMean(series.Closes(), s.window),
	}

	return []types.IndicatorResult{result}, nil
}
