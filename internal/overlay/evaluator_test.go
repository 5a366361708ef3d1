package overlay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

type EvaluatorTestSuite struct {
	suite.Suite

	evaluator *Evaluator
	series    *types.PriceSeries
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (suite *EvaluatorTestSuite) SetupTest() {
	suite.evaluator = NewEvaluator()

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []types.Bar{
		{Time: base, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: base.AddDate(0, 0, 1), Open: 11, High: 13, Low: 10, Close: 12, Volume: 200},
		{Time: base.AddDate(0, 0, 2), Open: 12, High: 14, Low: 11, Close: 13, Volume: 0},
	}

	series, err := types.NewPriceSeries("AAPL", "1d", bars)
	require.NoError(suite.T(), err)

	suite.series = series
}

func (suite *EvaluatorTestSuite) TestArithmeticOverColumns() {
	result, err := suite.evaluator.Evaluate(context.Background(), "(high + low) / 2", suite.series)
	suite.NoError(err)
	suite.Equal(ResultName, result.Name)
	suite.Equal(3, result.Len())

	want := []float64{10.5, 11.5, 12.5}
	for i, w := range want {
		v, ok := result.At(i)
		suite.True(ok)
		suite.InDelta(w, v, 1e-9)
	}
}

func (suite *EvaluatorTestSuite) TestFunctions() {
	result, err := suite.evaluator.Evaluate(context.Background(), "max(close - open, 0) + abs(low - open)", suite.series)
	suite.NoError(err)

	v, ok := result.At(0)
	suite.True(ok)
	suite.InDelta(2.0, v, 1e-9)
}

func (suite *EvaluatorTestSuite) TestUnknownColumnIsFormulaError() {
	_, err := suite.evaluator.Evaluate(context.Background(), "foo * 2", suite.series)
	suite.Error(err)
	suite.Equal(errors.ErrCodeFormulaUnknownColumn, errors.GetCode(err))
	suite.True(errors.IsFormulaError(err))
}

func (suite *EvaluatorTestSuite) TestSyntaxErrorIsFormulaError() {
	_, err := suite.evaluator.Evaluate(context.Background(), "close +* 2", suite.series)
	suite.Error(err)
	suite.Equal(errors.ErrCodeFormulaSyntax, errors.GetCode(err))
	suite.True(errors.IsFormulaError(err))
}

func (suite *EvaluatorTestSuite) TestEmptyFormula() {
	_, err := suite.evaluator.Evaluate(context.Background(), "  ", suite.series)
	suite.Error(err)
	suite.Equal(errors.ErrCodeFormulaSyntax, errors.GetCode(err))
}

func (suite *EvaluatorTestSuite) TestNonNumericResult() {
	_, err := suite.evaluator.Evaluate(context.Background(), "close > open", suite.series)
	suite.Error(err)
	suite.Equal(errors.ErrCodeFormulaNonNumeric, errors.GetCode(err))
}

func (suite *EvaluatorTestSuite) TestDivisionByZeroYieldsNoValue() {
	// The third bar has zero volume; its position carries the no-value
	// marker while the others stay defined.
	result, err := suite.evaluator.Evaluate(context.Background(), "close / volume", suite.series)
	suite.NoError(err)

	_, ok := result.At(0)
	suite.True(ok)

	_, ok = result.At(2)
	suite.False(ok)
}

func (suite *EvaluatorTestSuite) TestSourceSeriesUntouched() {
	before := suite.series.Closes()

	_, err := suite.evaluator.Evaluate(context.Background(), "close * 2", suite.series)
	suite.NoError(err)
	suite.Equal(before, suite.series.Closes())
}
