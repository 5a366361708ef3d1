// Package events maps corporate actions (splits, dividends, earnings) onto
// the trading-day timeline of a price series so charts can annotate them.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/types"
)

// DefaultTolerance is how far an event date may sit from the nearest trading
// day before the event is dropped.
const DefaultTolerance = 72 * time.Hour

// EventSource supplies raw corporate-action data for a ticker.
type EventSource interface {
	// FetchEvents returns the raw events for the ticker within [start, end].
	FetchEvents(ctx context.Context, ticker string, start, end time.Time) ([]types.CorporateEvent, error)
}

// Annotator filters events to a date range and snaps each one to the nearest
// trading-day timestamp present in the price series. Events with no bar
// within the tolerance are silently omitted.
type Annotator struct {
	source    EventSource
	tolerance time.Duration
	log       *logger.Logger
}

// NewAnnotator creates an annotator with the default tolerance.
func NewAnnotator(source EventSource, log *logger.Logger) *Annotator {
	return &Annotator{
		source:    source,
		tolerance: DefaultTolerance,
		log:       log,
	}
}

// WithTolerance overrides the snap tolerance.
func (a *Annotator) WithTolerance(tolerance time.Duration) *Annotator {
	a.tolerance = tolerance

	return a
}

// Annotate fetches events for the series' ticker and maps them onto its
// timeline. Fetch failures propagate; match failures only drop the event.
func (a *Annotator) Annotate(ctx context.Context, series *types.PriceSeries, start, end time.Time) ([]types.EventAnnotation, error) {
	if series == nil || series.Len() == 0 {
		return nil, nil
	}

	events, err := a.source.FetchEvents(ctx, series.Ticker, start, end)
	if err != nil {
		return nil, err
	}

	timestamps := series.Timestamps()
	annotations := make([]types.EventAnnotation, 0, len(events))

	for _, event := range events {
		if event.Date.Before(start) || event.Date.After(end) {
			continue
		}

		snapped, ok := nearestWithin(timestamps, event.Date, a.tolerance)
		if !ok {
			if a.log != nil {
				a.log.Debug("dropping event with no trading day close enough",
					zap.String("ticker", series.Ticker),
					zap.Time("date", event.Date),
					zap.String("label", event.Label))
			}

			continue
		}

		annotations = append(annotations, types.NewEventAnnotation(snapped, event.Label, event.Kind))
	}

	return annotations, nil
}

// nearestWithin finds the timestamp closest to target, requiring the gap to
// stay within tolerance. Timestamps are in ascending order.
func nearestWithin(timestamps []time.Time, target time.Time, tolerance time.Duration) (time.Time, bool) {
	lo, hi := 0, len(timestamps)
	for lo < hi {
		mid := (lo + hi) / 2
		if timestamps[mid].Before(target) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	best := time.Time{}
	bestGap := tolerance + 1

	for _, i := range []int{lo - 1, lo} {
		if i < 0 || i >= len(timestamps) {
			continue
		}

		gap := timestamps[i].Sub(target)
		if gap < 0 {
			gap = -gap
		}

		if gap < bestGap {
			best = timestamps[i]
			bestGap = gap
		}
	}

	if bestGap > tolerance {
		return time.Time{}, false
	}

	return best, true
}
