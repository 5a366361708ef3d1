package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// Timespan is the bar granularity of a fetched series.
type Timespan string

const (
	TimespanOneMinute      Timespan = "1m"
	TimespanFifteenMinutes Timespan = "15m"
	TimespanOneHour        Timespan = "1h"
	TimespanOneDay         Timespan = "1d"
	TimespanOneWeek        Timespan = "1w"
	TimespanOneMonth       Timespan = "1M"
)

// FromTimeframe maps a dashboard timeframe to the provider granularity
// backing it.
func FromTimeframe(timeframe types.Timeframe) (Timespan, error) {
	switch timeframe {
	case types.TimeframeDaily:
		return TimespanOneDay, nil
	case types.TimeframeWeekly:
		return TimespanOneWeek, nil
	case types.TimeframeMonthly:
		return TimespanOneMonth, nil
	case types.TimeframeIntraday:
		return TimespanFifteenMinutes, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unknown timeframe %q", timeframe)
	}
}

// Multiplier returns the polygon aggregate multiplier for the timespan.
func (t Timespan) Multiplier() int {
	switch t {
	case TimespanFifteenMinutes:
		return 15
	default:
		return 1
	}
}

// PolygonTimespan maps the timespan onto the polygon aggregate unit.
func (t Timespan) PolygonTimespan() models.Timespan {
	switch t {
	case TimespanOneMinute, TimespanFifteenMinutes:
		return models.Minute
	case TimespanOneHour:
		return models.Hour
	case TimespanOneWeek:
		return models.Week
	case TimespanOneMonth:
		return models.Month
	default:
		return models.Day
	}
}

// YahooInterval maps the timespan onto the Yahoo chart API interval string.
func (t Timespan) YahooInterval() string {
	switch t {
	case TimespanOneMinute:
		return "1m"
	case TimespanFifteenMinutes:
		return "15m"
	case TimespanOneHour:
		return "1h"
	case TimespanOneWeek:
		return "1wk"
	case TimespanOneMonth:
		return "1mo"
	default:
		return "1d"
	}
}
