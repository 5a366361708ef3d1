package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

type CSVTestSuite struct {
	suite.Suite
	series *types.PriceSeries
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVTestSuite))
}

func (s *CSVTestSuite) SetupTest() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	closes := []float64{100.25, 101.333333333333, 99.875, 102.5}

	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1.25,
			Low:    c - 1.25,
			Close:  c,
			Volume: float64(100000 + i),
		}
	}

	series, err := types.NewPriceSeries("AAPL", "1d", bars)
	s.Require().NoError(err)
	s.series = series
}

func (s *CSVTestSuite) TestRoundTrip() {
	sma := types.NewIndicatorResult("sma_3", 4)
	sma.Set(2, 100.48611111111101)
	sma.Set(3, 101.2361111111111)

	rsi := types.NewIndicatorResult("rsi_14", 4)

	var buf bytes.Buffer
	s.Require().NoError(WriteCSV(&buf, s.series, []types.IndicatorResult{sma, rsi}))

	series, results, err := ReadCSV(&buf, "AAPL", "1d")
	s.Require().NoError(err)

	s.Require().Equal(s.series.Len(), series.Len())

	for i, bar := range series.Bars {
		want := s.series.Bars[i]
		s.True(bar.Time.Equal(want.Time))
		s.InDelta(want.Open, bar.Open, 1e-9)
		s.InDelta(want.High, bar.High, 1e-9)
		s.InDelta(want.Low, bar.Low, 1e-9)
		s.InDelta(want.Close, bar.Close, 1e-9)
		s.InDelta(want.Volume, bar.Volume, 1e-9)
	}

	s.Require().Len(results, 2)
	s.Equal("sma_3", results[0].Name)
	s.Equal(2, results[0].LeadingNoValue())

	v, ok := results[0].At(2)
	s.Require().True(ok)
	s.InDelta(100.48611111111101, v, 1e-9)

	s.Equal("rsi_14", results[1].Name)
	s.Equal(0, results[1].DefinedCount())
}

func (s *CSVTestSuite) TestNoValueIsEmptyCell() {
	sma := types.NewIndicatorResult("sma_3", 4)
	sma.Set(2, 101)

	var buf bytes.Buffer
	s.Require().NoError(WriteCSV(&buf, s.series, []types.IndicatorResult{sma}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Require().Len(lines, 5)
	s.Equal("timestamp,open,high,low,close,volume,sma_3", lines[0])
	s.True(strings.HasSuffix(lines[1], ","), lines[1])
	s.True(strings.HasSuffix(lines[3], ",101"), lines[3])
}

func (s *CSVTestSuite) TestMismatchedResultRejected() {
	short := types.NewIndicatorResult("sma_3", 2)

	var buf bytes.Buffer
	err := WriteCSV(&buf, s.series, []types.IndicatorResult{short})
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeSeriesMismatch))
}

func (s *CSVTestSuite) TestEmptySeriesRejected() {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil, nil)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeExportFailed))
}

func (s *CSVTestSuite) TestReadRejectsBadHeader() {
	_, _, err := ReadCSV(strings.NewReader("time,o,h,l,c,v\n"), "AAPL", "1d")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeImportFailed))
}

func (s *CSVTestSuite) TestReadRejectsBadNumber() {
	csv := "timestamp,open,high,low,close,volume\n" +
		"2024-01-02T00:00:00Z,100,101,99,abc,1000\n"

	_, _, err := ReadCSV(strings.NewReader(csv), "AAPL", "1d")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeImportFailed))
}

func (s *CSVTestSuite) TestReadRejectsUnorderedRows() {
	csv := "timestamp,open,high,low,close,volume\n" +
		"2024-01-03T00:00:00Z,100,101,99,100,1000\n" +
		"2024-01-02T00:00:00Z,100,101,99,100,1000\n"

	_, _, err := ReadCSV(strings.NewReader(csv), "AAPL", "1d")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeImportFailed))
}
