package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

// YahooProvider fetches bars from the Yahoo Finance public chart API. It
// needs no API key, which makes it the default provider.
type YahooProvider struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooProvider creates a Yahoo-backed provider with a 30s HTTP timeout.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

// Name implements marketdata.Provider.
func (y *YahooProvider) Name() marketdata.ProviderType {
	return marketdata.ProviderYahoo
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch implements Provider.
func (y *YahooProvider) Fetch(ctx context.Context, ticker string, start, end time.Time, timespan marketdata.Timespan) (*types.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&period1=%d&period2=%d",
		y.BaseURL, url.PathEscape(ticker), timespan.YahooInterval(), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to build chart request", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch %s from yahoo", ticker)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "chart request for %s returned status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to read chart response", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to parse chart response for %s", ticker)
	}

	if chart.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "chart request for %s failed: %s", ticker, chart.Chart.Error.Description)
	}

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "yahoo returned no data for %s", ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]types.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		// Yahoo pads missing bars with nulls; skip them entirely.
		if at(quote.Close, i) == nil {
			continue
		}

		bars = append(bars, types.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   toFloat(at(quote.Open, i)),
			High:   toFloat(at(quote.High, i)),
			Low:    toFloat(at(quote.Low, i)),
			Close:  toFloat(at(quote.Close, i)),
			Volume: toFloat(at(quote.Volume, i)),
		})
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "yahoo returned no data for %s", ticker)
	}

	series, err := types.NewPriceSeries(ticker, string(timespan), bars)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "yahoo returned an invalid series for %s", ticker)
	}

	return series, nil
}

func at(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}

	return values[i]
}

func toFloat(v any) float64 {
	if v == nil {
		return 0
	}

	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
