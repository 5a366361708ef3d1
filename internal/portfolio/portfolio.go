// Package portfolio values the virtual portfolio against fetched price
// series and derives its risk measures. Money math runs on decimals; return
// statistics run on floats.
package portfolio

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// TradingDaysPerYear annualizes daily return statistics.
const TradingDaysPerYear = 252

// Summarize values the holdings at each series' last close and derives
// volatility and, when a benchmark series is given, beta. Holdings whose
// ticker is missing from data are skipped silently; the caller decides how
// to surface fetch failures.
func Summarize(holdings []types.Holding, data map[string]*types.PriceSeries, benchmark *types.PriceSeries) (*types.PortfolioSummary, error) {
	if len(holdings) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "portfolio has no holdings")
	}

	summary := &types.PortfolioSummary{
		Positions:  []types.PortfolioPosition{},
		TotalValue: decimal.Zero,
	}

	valued := make([]types.Holding, 0, len(holdings))

	for _, holding := range holdings {
		series, ok := data[holding.Ticker]
		if !ok || series.Len() == 0 {
			continue
		}

		lastPrice := decimal.NewFromFloat(series.Bars[series.Len()-1].Close)
		value := holding.Quantity.Mul(lastPrice)

		summary.Positions = append(summary.Positions, types.PortfolioPosition{
			Ticker:    holding.Ticker,
			Quantity:  holding.Quantity,
			LastPrice: lastPrice,
			Value:     value,
		})
		summary.TotalValue = summary.TotalValue.Add(value)
		valued = append(valued, holding)
	}

	if len(summary.Positions) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "no holdings could be valued")
	}

	hundred := decimal.NewFromInt(100)

	for i := range summary.Positions {
		if !summary.TotalValue.IsZero() {
			summary.Positions[i].Allocation = summary.Positions[i].Value.Div(summary.TotalValue).Mul(hundred)
		}
	}

	values := valueSeries(valued, data)
	returns := dailyReturns(values)

	if vol, ok := annualizedVolatility(returns); ok {
		summary.Volatility = &vol
	}

	if benchmark != nil {
		if beta, ok := betaAgainst(valued, data, benchmark); ok {
			summary.Beta = &beta
		}
	}

	return summary, nil
}

// valueSeries builds the portfolio value at every timestamp shared by all
// valued holdings, oldest first.
func valueSeries(holdings []types.Holding, data map[string]*types.PriceSeries) []float64 {
	timestamps := commonTimestamps(holdings, data)
	if len(timestamps) == 0 {
		return nil
	}

	return valuesAt(holdings, data, timestamps)
}

func commonTimestamps(holdings []types.Holding, data map[string]*types.PriceSeries) []int64 {
	counts := make(map[int64]int)

	for _, holding := range holdings {
		for _, bar := range data[holding.Ticker].Bars {
			counts[bar.Time.Unix()]++
		}
	}

	var shared []int64

	for ts, n := range counts {
		if n == len(holdings) {
			shared = append(shared, ts)
		}
	}

	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	return shared
}

// dailyReturns converts a value series into simple period returns. Bars with
// a zero starting value yield no return observation.
func dailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(values)-1)

	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}

		returns = append(returns, values[i]/values[i-1]-1)
	}

	return returns
}

// annualizedVolatility is the sample standard deviation of the returns
// scaled by the square root of the trading year.
func annualizedVolatility(returns []float64) (float64, bool) {
	if len(returns) < 2 {
		return 0, false
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}

	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear), true
}

// betaAgainst regresses the portfolio returns on the benchmark returns over
// their shared timestamps.
func betaAgainst(holdings []types.Holding, data map[string]*types.PriceSeries, benchmark *types.PriceSeries) (float64, bool) {
	withBenchmark := append(append([]types.Holding{}, holdings...), types.Holding{
		Ticker:   benchmark.Ticker,
		Quantity: decimal.NewFromInt(1),
	})

	merged := make(map[string]*types.PriceSeries, len(data)+1)
	for ticker, series := range data {
		merged[ticker] = series
	}

	merged[benchmark.Ticker] = benchmark

	timestamps := commonTimestamps(withBenchmark, merged)
	if len(timestamps) < 3 {
		return 0, false
	}

	portfolioValues := valuesAt(holdings, data, timestamps)
	benchmarkValues := valuesAt([]types.Holding{{Ticker: benchmark.Ticker, Quantity: decimal.NewFromInt(1)}},
		map[string]*types.PriceSeries{benchmark.Ticker: benchmark}, timestamps)

	portfolioReturns := dailyReturns(portfolioValues)
	benchmarkReturns := dailyReturns(benchmarkValues)

	if len(portfolioReturns) != len(benchmarkReturns) || len(benchmarkReturns) < 2 {
		return 0, false
	}

	covariance, variance := covVar(portfolioReturns, benchmarkReturns)
	if variance == 0 {
		return 0, false
	}

	return covariance / variance, true
}

// valuesAt prices the holdings at each of the given timestamps.
func valuesAt(holdings []types.Holding, data map[string]*types.PriceSeries, timestamps []int64) []float64 {
	closeAt := make(map[string]map[int64]float64, len(holdings))

	for _, holding := range holdings {
		byTime := make(map[int64]float64)
		for _, bar := range data[holding.Ticker].Bars {
			byTime[bar.Time.Unix()] = bar.Close
		}

		closeAt[holding.Ticker] = byTime
	}

	values := make([]float64, len(timestamps))

	for i, ts := range timestamps {
		total := 0.0
		for _, holding := range holdings {
			qty, _ := holding.Quantity.Float64()
			total += qty * closeAt[holding.Ticker][ts]
		}

		values[i] = total
	}

	return values
}

func covVar(a, b []float64) (float64, float64) {
	n := float64(len(a))

	meanA, meanB := 0.0, 0.0
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}

	meanA /= n
	meanB /= n

	covariance, variance := 0.0, 0.0
	for i := range a {
		covariance += (a[i] - meanA) * (b[i] - meanB)
		variance += (b[i] - meanB) * (b[i] - meanB)
	}

	covariance /= n - 1
	variance /= n - 1

	return covariance, variance
}
