package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// MACD implements Moving Average Convergence Divergence.
//
// The MACD line is EMA(fast) - EMA(slow) of close, the signal line is
// EMA(signal) of the MACD line, and the histogram is their difference. Each
// line carries no value until its own lookback is covered.
type MACD struct {
	fast   int
	slow   int
	signal int
}

// NewMACD creates a new MACD indicator with the standard 12/26/9 windows.
func NewMACD() Indicator {
	return &MACD{
		fast:   12,
		slow:   26,
		signal: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fast (int),
// slow (int), signal (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fast (int), slow (int), signal (int)")
	}

	fast, err := parsePositiveInt(params[0], "fast")
	if err != nil {
		return err
	}

	slow, err := parsePositiveInt(params[1], "slow")
	if err != nil {
		return err
	}

	signal, err := parsePositiveInt(params[2], "signal")
	if err != nil {
		return err
	}

	if fast >= slow {
		return errors.Newf(errors.ErrCodeInvalidWindow, "fast window %d must be smaller than slow window %d", fast, slow)
	}

	m.fast = fast
	m.slow = slow
	m.signal = signal

	return nil
}

// Compute derives the MACD, signal and histogram series.
func (m *MACD) Compute(series *types.PriceSeries) ([]types.IndicatorResult, error) {
	if err := requireSeries(series); err != nil {
		return nil, err
	}

	closes := someSeries(series.Closes())
	fastEMA := emaOptional(closes, m.fast)
	slowEMA := emaOptional(closes, m.slow)

	macdLine := noneSeries(len(closes))
	for i := range macdLine {
		f, fErr := fastEMA[i].Take()
		s, sErr := slowEMA[i].Take()

		if fErr == nil && sErr == nil {
			macdLine[i] = optional.Some(f - s)
		}
	}

	signalLine := emaOptional(macdLine, m.signal)

	histogram := noneSeries(len(closes))
	for i := range histogram {
		mv, mErr := macdLine[i].Take()
		sv, sErr := signalLine[i].Take()

		if mErr == nil && sErr == nil {
			histogram[i] = optional.Some(mv - sv)
		}
	}

	return []types.IndicatorResult{
		{Name: "macd", Values: macdLine},
		{Name: "macd_signal", Values: signalLine},
		{Name: "macd_histogram", Values: histogram},
	}, nil
}
