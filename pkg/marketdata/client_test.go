package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// fakeProvider serves canned series and counts fetches so cache behavior is
// observable.
type fakeProvider struct {
	series map[string]*types.PriceSeries
	errs   map[string]error
	calls  int
}

func (f *fakeProvider) Name() ProviderType {
	return ProviderType("fake")
}

func (f *fakeProvider) Fetch(_ context.Context, ticker string, _, _ time.Time, _ Timespan) (*types.PriceSeries, error) {
	f.calls++

	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}

	series, ok := f.series[ticker]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "no data for %s", ticker)
	}

	return series, nil
}

type ClientTestSuite struct {
	suite.Suite
	provider *fakeProvider
	client   *Client
	start    time.Time
	end      time.Time
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.provider = &fakeProvider{
		series: make(map[string]*types.PriceSeries),
		errs:   make(map[string]error),
	}
	s.client = NewClient(s.provider, nil)
	s.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.end = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func (s *ClientTestSuite) seed(ticker string, closes ...float64) *types.PriceSeries {
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   s.start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	series, err := types.NewPriceSeries(ticker, string(TimespanOneDay), bars)
	s.Require().NoError(err)

	s.provider.series[ticker] = series

	return series
}

func (s *ClientTestSuite) TestFetchCachesSeries() {
	want := s.seed("AAPL", 100, 101, 102)

	got, err := s.client.Fetch(context.Background(), "AAPL", s.start, s.end, TimespanOneDay)
	s.Require().NoError(err)
	s.Equal(want, got)
	s.Equal(1, s.provider.calls)

	// Second identical request is served from the cache.
	got, err = s.client.Fetch(context.Background(), "AAPL", s.start, s.end, TimespanOneDay)
	s.Require().NoError(err)
	s.Equal(want, got)
	s.Equal(1, s.provider.calls)
	s.Equal(1, s.client.Cache().Len())
}

func (s *ClientTestSuite) TestFetchDistinctRangesMissCache() {
	s.seed("AAPL", 100, 101)

	_, err := s.client.Fetch(context.Background(), "AAPL", s.start, s.end, TimespanOneDay)
	s.Require().NoError(err)

	_, err = s.client.Fetch(context.Background(), "AAPL", s.start, s.end.AddDate(0, 1, 0), TimespanOneDay)
	s.Require().NoError(err)
	s.Equal(2, s.provider.calls)
}

func (s *ClientTestSuite) TestFetchErrorNotCached() {
	s.provider.errs["MSFT"] = errors.New(errors.ErrCodeFetchFailed, "rate limited")

	_, err := s.client.Fetch(context.Background(), "MSFT", s.start, s.end, TimespanOneDay)
	s.Require().Error(err)
	s.Equal(0, s.client.Cache().Len())
}

func (s *ClientTestSuite) TestFetchMultiIsolatesFailures() {
	s.seed("AAPL", 100, 101)
	s.seed("GOOG", 200, 201)
	s.provider.errs["BAD"] = errors.New(errors.ErrCodeFetchFailed, "unknown ticker")

	data, failures := s.client.FetchMulti(context.Background(), []string{"AAPL", "BAD", "GOOG"}, s.start, s.end, TimespanOneDay)

	s.Len(data, 2)
	s.Contains(data, "AAPL")
	s.Contains(data, "GOOG")
	s.Len(failures, 1)
	s.True(errors.IsFetchError(failures["BAD"]))
}

func (s *ClientTestSuite) TestLatestReturnsLastBar() {
	series := s.seed("AAPL", 100, 101, 102)

	bar, err := s.client.Latest(context.Background(), "AAPL", TimespanOneDay)
	s.Require().NoError(err)
	s.Equal(series.Bars[2], bar)
}

func (s *ClientTestSuite) TestLatestFailsForUnknownTicker() {
	_, err := s.client.Latest(context.Background(), "NOPE", TimespanOneDay)
	s.Require().Error(err)
	s.True(errors.IsFetchError(err))
}
