package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// Stochastic implements the Stochastic Oscillator.
//
// %K = 100 * (close - lowest low) / (highest high - lowest low) over the
// lookback window; %D is the SMA of %K over the smoothing window. A window
// where highest high equals lowest low has no defined %K.
type Stochastic struct {
	kWindow int
	dWindow int
}

// NewStochastic creates a new Stochastic Oscillator with the standard 14/3
// windows.
func NewStochastic() Indicator {
	return &Stochastic{
		kWindow: 14,
		dWindow: 3,
	}
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOscillator
}

// Config configures the oscillator. Expected parameters: kWindow (int),
// dWindow (int).
func (s *Stochastic) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: kWindow (int), dWindow (int)")
	}

	kWindow, err := parsePositiveInt(params[0], "kWindow")
	if err != nil {
		return err
	}

	dWindow, err := parsePositiveInt(params[1], "dWindow")
	if err != nil {
		return err
	}

	s.kWindow = kWindow
	s.dWindow = dWindow

	return nil
}

// Compute derives the %K and %D series.
func (s *Stochastic) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	closes := series.Closes()
	lowestLow := rollingMin(series.Lows(), s.kWindow)
	highestHigh := rollingMax(series.Highs(), s.kWindow)

	k := noneSeries(len(closes))

	for i := range closes {
		low, lowErr := lowestLow[i].Take()
		high, highErr := highestHigh[i].Take()

		if lowErr != nil || highErr != nil || high == low {
			continue
		}

		k[i] = optional.Some(100 * (closes[i] - low) / (high - low))
	}

	d := rollingMeanOptional(k, s.dWindow)

	return []types.IndicatorResult{
		{Name: "stoch_k", Values: k},
		{Name: "stoch_d", Values: d},
	}, nil
}
