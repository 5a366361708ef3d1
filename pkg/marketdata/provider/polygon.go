package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

// PolygonProvider fetches aggregates from the Polygon REST API.
type PolygonProvider struct {
	client *polygon.Client
}

// NewPolygonProvider creates a polygon-backed provider.
func NewPolygonProvider(apiKey string) (marketdata.Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "apiKey is required")
	}

	return &PolygonProvider{
		client: polygon.New(apiKey),
	}, nil
}

// Name implements marketdata.Provider.
func (p *PolygonProvider) Name() marketdata.ProviderType {
	return marketdata.ProviderPolygon
}

// Fetch implements Provider.
func (p *PolygonProvider) Fetch(ctx context.Context, ticker string, start, end time.Time, timespan marketdata.Timespan) (*types.PriceSeries, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: timespan.Multiplier(),
		Timespan:   timespan.PolygonTimespan(),
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var bars []types.Bar

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.Bar{
			Time:   time.Time(agg.Timestamp),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, iter.Err(), "failed to fetch %s from polygon", ticker)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "polygon returned no data for %s", ticker)
	}

	series, err := types.NewPriceSeries(ticker, string(timespan), bars)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "polygon returned an invalid series for %s", ticker)
	}

	return series, nil
}
