package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// YahooEventSource fetches splits and dividends from the Yahoo Finance
// public chart API.
type YahooEventSource struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooEventSource creates a source with a 30s HTTP timeout.
func NewYahooEventSource() *YahooEventSource {
	return &YahooEventSource{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

// yahooEventsChart is the response structure from the Yahoo chart API when
// events are requested.
type yahooEventsChart struct {
	Chart struct {
		Result []struct {
			Events struct {
				Splits map[string]struct {
					Date       int64  `json:"date"`
					SplitRatio string `json:"splitRatio"`
				} `json:"splits"`
				Dividends map[string]struct {
					Date   int64   `json:"date"`
					Amount float64 `json:"amount"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchEvents implements EventSource.
func (y *YahooEventSource) FetchEvents(ctx context.Context, ticker string, start, end time.Time) ([]types.CorporateEvent, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&events=div%%2Csplit&period1=%d&period2=%d",
		y.BaseURL, url.PathEscape(ticker), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEventFetchFailed, "failed to build events request", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeEventFetchFailed, err, "failed to fetch events for %s", ticker)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeEventFetchFailed, "events request for %s returned status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEventFetchFailed, "failed to read events response", err)
	}

	var chart yahooEventsChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to parse events response for %s", ticker)
	}

	if chart.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeEventFetchFailed, "events request for %s failed: %s", ticker, chart.Chart.Error.Description)
	}

	events := []types.CorporateEvent{}

	for _, result := range chart.Chart.Result {
		for _, split := range result.Events.Splits {
			events = append(events, types.CorporateEvent{
				Date:  time.Unix(split.Date, 0).UTC(),
				Label: fmt.Sprintf("Split: %s", split.SplitRatio),
				Kind:  types.EventKindSplit,
			})
		}

		for _, dividend := range result.Events.Dividends {
			events = append(events, types.CorporateEvent{
				Date:  time.Unix(dividend.Date, 0).UTC(),
				Label: fmt.Sprintf("Dividend: %.4f", dividend.Amount),
				Kind:  types.EventKindDividend,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return events, nil
}
