// Package indicator implements the technical indicators of the dashboard as
// pure computations over an immutable price series. Every indicator produces
// result series exactly as long as its input; positions the lookback window
// cannot cover hold an explicit no-value marker. A series shorter than the
// minimum window yields an all-no-value result, never an error.
package indicator

import (
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// Indicator is a configurable, side-effect-free computation over a price
// series. Compute never mutates the input and returns one result series per
// output line (MACD has three, Ichimoku five).
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Config configures the indicator parameters.
	Config(params ...any) error
	// Compute derives the indicator's output series from the given price series.
	Compute(series *types.PriceSeries) ([]types.IndicatorResult, error)
}

// New creates an indicator of the given type with default parameters.
func New(name types.IndicatorType) (Indicator, error) {
	switch name {
	case types.IndicatorTypeSMA:
		return NewSMA(), nil
	case types.IndicatorTypeEMA:
		return NewEMA(), nil
	case types.IndicatorTypeRSI:
		return NewRSI(), nil
	case types.IndicatorTypeMACD:
		return NewMACD(), nil
	case types.IndicatorTypeBollingerBands:
		return NewBollingerBands(), nil
	case types.IndicatorTypeStochasticOscillator:
		return NewStochastic(), nil
	case types.IndicatorTypeATR:
		return NewATR(), nil
	case types.IndicatorTypeVWAP:
		return NewVWAP(), nil
	case types.IndicatorTypeIchimokuCloud:
		return NewIchimoku(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator type %q", name)
	}
}

// DefaultRegistry returns a registry with every built-in indicator registered.
func DefaultRegistry() Registry {
	registry := NewRegistry()

	for _, name := range []types.IndicatorType{
		types.IndicatorTypeSMA,
		types.IndicatorTypeEMA,
		types.IndicatorTypeRSI,
		types.IndicatorTypeMACD,
		types.IndicatorTypeBollingerBands,
		types.IndicatorTypeStochasticOscillator,
		types.IndicatorTypeATR,
		types.IndicatorTypeVWAP,
		types.IndicatorTypeIchimokuCloud,
	} {
		name := name

		// Names are unique here, registration cannot fail.
		_ = registry.Register(name, func() Indicator {
			ind, _ := New(name)

			return ind
		})
	}

	return registry
}

func requireSeries(series *types.PriceSeries) error {
	if series == nil {
		return errors.New(errors.ErrCodeEmptySeries, "price series is nil")
	}

	return nil
}

// parsePositiveInt converts a variadic Config parameter into a positive int,
// accepting float64 the way YAML and JSON decoders deliver numbers.
func parsePositiveInt(param any, name string) (int, error) {
	value, ok := param.(int)
	if !ok {
		valueFloat, ok := param.(float64)
		if !ok {
			return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int or float64", name)
		}

		value = int(valueFloat)
	}

	if value <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidWindow, "%s must be a positive integer, got %d", name, value)
	}

	return value, nil
}
