// Package marketdata is the boundary to the external market data
// collaborators. A Client wraps one Provider with the session-scoped series
// cache; fetches are synchronous and surface failures immediately, with no
// retry or backoff.
package marketdata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderYahoo   ProviderType = "yahoo"
)

// Provider fetches historical price series for a ticker and date range.
type Provider interface {
	// Name returns the provider type.
	Name() ProviderType
	// Fetch downloads the series for the given ticker and date range.
	// example:
	// Fetch(ctx, "AAPL", time.Date(2024, 1, 1, ...), time.Date(2024, 6, 1, ...), TimespanOneDay)
	Fetch(ctx context.Context, ticker string, start, end time.Time, timespan Timespan) (*types.PriceSeries, error)
}

// Client wraps a provider with the session cache.
type Client struct {
	provider Provider
	cache    *SeriesCache
	log      *logger.Logger
}

// NewClient creates a client around the given provider.
func NewClient(provider Provider, log *logger.Logger) *Client {
	return &Client{
		provider: provider,
		cache:    NewSeriesCache(),
		log:      log,
	}
}

// Cache exposes the session cache, mainly for tests and resets.
func (c *Client) Cache() *SeriesCache {
	return c.cache
}

// Fetch returns the series for the ticker and range, consulting the session
// cache first.
func (c *Client) Fetch(ctx context.Context, ticker string, start, end time.Time, timespan Timespan) (*types.PriceSeries, error) {
	key := Key(ticker, start, end, timespan)

	if series, ok := c.cache.Get(key); ok {
		return series, nil
	}

	series, err := c.provider.Fetch(ctx, ticker, start, end, timespan)
	if err != nil {
		return nil, err
	}

	c.cache.Put(key, series)

	return series, nil
}

// FetchMulti fetches every ticker, isolating failures: a failing ticker
// lands in the error map and the rest proceed.
func (c *Client) FetchMulti(ctx context.Context, tickers []string, start, end time.Time, timespan Timespan) (map[string]*types.PriceSeries, map[string]error) {
	data := make(map[string]*types.PriceSeries)
	failures := make(map[string]error)

	for _, ticker := range tickers {
		series, err := c.Fetch(ctx, ticker, start, end, timespan)
		if err != nil {
			if c.log != nil {
				c.log.Warn("excluding ticker after fetch failure",
					zap.String("ticker", ticker),
					zap.Error(err))
			}

			failures[ticker] = err

			continue
		}

		data[ticker] = series
	}

	return data, failures
}

// Latest fetches the most recent bar for the ticker by pulling the last
// trading week at the given granularity.
func (c *Client) Latest(ctx context.Context, ticker string, timespan Timespan) (types.Bar, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	series, err := c.provider.Fetch(ctx, ticker, start, end, timespan)
	if err != nil {
		return types.Bar{}, err
	}

	if series.Len() == 0 {
		return types.Bar{}, errors.Newf(errors.ErrCodeFetchFailed, "no recent bars for %s", ticker)
	}

	return series.Bars[series.Len()-1], nil
}
