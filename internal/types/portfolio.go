package types

import (
	"github.com/shopspring/decimal"
)

// Holding is one ticker + quantity pair of the virtual portfolio.
type Holding struct {
	Ticker   string          `json:"ticker" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PortfolioPosition is a valued holding.
type PortfolioPosition struct {
	Ticker     string          `json:"ticker"`
	Quantity   decimal.Decimal `json:"quantity"`
	LastPrice  decimal.Decimal `json:"last_price"`
	Value      decimal.Decimal `json:"value"`
	Allocation decimal.Decimal `json:"allocation_pct"`
}

// PortfolioSummary is the valuation and risk section of the dashboard.
type PortfolioSummary struct {
	Positions  []PortfolioPosition `json:"positions"`
	TotalValue decimal.Decimal     `json:"total_value"`
	// Volatility is the annualized standard deviation of mean daily returns.
	// None when fewer than two return observations exist.
	Volatility *float64 `json:"volatility,omitempty"`
	// Beta is measured against the benchmark series. None when the benchmark
	// overlap is too short or has zero variance.
	Beta *float64 `json:"beta,omitempty"`
}
