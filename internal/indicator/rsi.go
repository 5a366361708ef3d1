package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// RSI implements the Relative Strength Index with Wilder smoothing.
//
// The seed averages cover the first `window` close-to-close changes, so the
// first defined value sits at index `window` (window+1 bars). When the
// average loss is zero the result is 100; values are always within [0, 100].
type RSI struct {
	window int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		window: 14, // Default window
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: window (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: window (int)")
	}

	window, err := parsePositiveInt(params[0], "window")
	if err != nil {
		return err
	}

	r.window = window

	return nil
}

// Compute derives the RSI series.
func (r *RSI) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	closes := series.Closes()
	values := noneSeries(len(closes))

	if len(closes) > r.window {
		var avgGain, avgLoss float64

		for i := 1; i <= r.window; i++ {
			change := closes[i] - closes[i-1]
			if change > 0 {
				avgGain += change
			} else {
				avgLoss -= change
			}
		}

		avgGain /= float64(r.window)
		avgLoss /= float64(r.window)
		values[r.window] = optional.Some(rsiValue(avgGain, avgLoss))

		for i := r.window + 1; i < len(closes); i++ {
			change := closes[i] - closes[i-1]

			gain, loss := 0.0, 0.0
			if change > 0 {
				gain = change
			} else {
				loss = -change
			}

			avgGain = (avgGain*float64(r.window-1) + gain) / float64(r.window)
			avgLoss = (avgLoss*float64(r.window-1) + loss) / float64(r.window)
			values[i] = optional.Some(rsiValue(avgGain, avgLoss))
		}
	}

	result := types.IndicatorResult{
		Name:   fmt.Sprintf("rsi_%d", r.window),
		Values: values,
	}

	return []types.IndicatorResult{result}, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
