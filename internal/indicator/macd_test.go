package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) monotonicSeries(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 0.5*float64(i)
	}

	return closes
}

func (suite *MACDTestSuite) TestLineAlignmentAndLookback() {
	series := seriesFromCloses(suite.T(), suite.monotonicSeries(60))

	macd := NewMACD()
	suite.NoError(macd.Config(3, 6, 4))

	results, err := macd.Compute(series)
	suite.NoError(err)
	suite.Len(results, 3)

	line, signal, histogram := results[0], results[1], results[2]
	suite.Equal("macd", line.Name)
	suite.Equal("macd_signal", signal.Name)
	suite.Equal("macd_histogram", histogram.Name)

	suite.Equal(60, line.Len())
	suite.Equal(60, signal.Len())
	suite.Equal(60, histogram.Len())

	// MACD defined once the slow EMA is (index slow-1); signal needs a
	// further signal-1 defined MACD values.
	suite.Equal(5, line.LeadingNoValue())
	suite.Equal(8, signal.LeadingNoValue())
	suite.Equal(8, histogram.LeadingNoValue())
}

func (suite *MACDTestSuite) TestHistogramIsLineMinusSignal() {
	series := seriesFromCloses(suite.T(), []float64{
		10, 10.4, 10.1, 10.9, 11.3, 10.8, 11.6, 12.0, 11.4, 12.2,
		12.6, 12.1, 12.9, 13.4, 12.8, 13.7, 14.1, 13.6, 14.4, 14.9,
	})

	macd := NewMACD()
	suite.NoError(macd.Config(3, 6, 4))

	results, err := macd.Compute(series)
	suite.NoError(err)

	line, signal, histogram := results[0], results[1], results[2]

	for i := 0; i < line.Len(); i++ {
		h, hOK := histogram.At(i)
		if !hOK {
			continue
		}

		l, lOK := line.At(i)
		s, sOK := signal.At(i)
		suite.True(lOK)
		suite.True(sOK)
		suite.InDelta(l-s, h, 1e-9)
	}
}

func (suite *MACDTestSuite) TestConfigRejectsFastNotBelowSlow() {
	macd := NewMACD()
	suite.Error(macd.Config(26, 12, 9))
	suite.Error(macd.Config(12, 12, 9))
	suite.NoError(macd.Config(12, 26, 9))
}

func (suite *MACDTestSuite) TestShortSeriesAllNoValue() {
	series := seriesFromCloses(suite.T(), []float64{10, 11, 12})

	macd := NewMACD()

	results, err := macd.Compute(series)
	suite.NoError(err)

	for _, r := range results {
		suite.Equal(0, r.DefinedCount())
		suite.Equal(3, r.Len())
	}
}
