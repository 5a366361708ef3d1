package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// VWAP implements the Volume Weighted Average Price: cumulative typical
// price times volume over cumulative volume, reset at each trading-session
// boundary. Sessions are calendar days in the bar's own timezone, so a daily
// series effectively resets every bar while intraday series accumulate
// within the day.
type VWAP struct{}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() Indicator {
	return &VWAP{}
}

// Name returns the name of the indicator.
func (v *VWAP) Name() types.IndicatorType {
	return types.IndicatorTypeVWAP
}

// Config accepts no parameters.
func (v *VWAP) Config(params ...any) error {
	if len(params) != 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects no parameters")
	}

	return nil
}

// Compute derives the VWAP series. A position with zero cumulative session
// volume carries no value.
func (v *VWAP) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	values := noneSeries(series.Len())

	var cumPV, cumVolume float64

	for i, bar := range series.Bars {
		if i > 0 && !sameSession(series.Bars[i-1], bar) {
			cumPV, cumVolume = 0, 0
		}

		cumPV += bar.TypicalPrice() * bar.Volume
		cumVolume += bar.Volume

		if cumVolume > 0 {
			values[i] = optional.Some(cumPV / cumVolume)
		}
	}

	result := types.IndicatorResult{
		Name:   "vwap",
		Values: values,
	}

	return []types.IndicatorResult{result}, nil
}

func sameSession(a, b types.Bar) bool {
	ay, am, ad := a.Time.Date()
	by, bm, bd := b.Time.Date()

	return ay == by && am == bm && ad == bd
}
