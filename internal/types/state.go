package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/equitylab/equity-navigator/pkg/errors"
)

type ChartType string

const (
	ChartTypeLine        ChartType = "line"
	ChartTypeArea        ChartType = "area"
	ChartTypeCandlestick ChartType = "candlestick"
)

type Timeframe string

const (
	TimeframeDaily    Timeframe = "daily"
	TimeframeWeekly   Timeframe = "weekly"
	TimeframeMonthly  Timeframe = "monthly"
	TimeframeIntraday Timeframe = "intraday"
)

// IndicatorSelection is one indicator the user enabled, with its parameters.
type IndicatorSelection struct {
	Type   IndicatorType `json:"type" yaml:"type" validate:"required"`
	Params []any         `json:"params,omitempty" yaml:"params,omitempty"`
}

// AppState is the full input of one dashboard interaction. Each interaction
// produces a new snapshot; nothing here is shared or mutated between requests.
type AppState struct {
	Tickers    []string             `json:"tickers" validate:"required,min=1,dive,required"`
	Start      time.Time            `json:"start" validate:"required"`
	End        time.Time            `json:"end" validate:"required"`
	Timeframe  Timeframe            `json:"timeframe" validate:"required,oneof=daily weekly monthly intraday"`
	ChartType  ChartType            `json:"chart_type" validate:"required,oneof=line area candlestick"`
	Indicators []IndicatorSelection `json:"indicators,omitempty"`
	Overlay    string               `json:"overlay,omitempty"`
	Portfolio  []Holding            `json:"portfolio,omitempty"`
	Language   string               `json:"language,omitempty"`
}

// Validate checks the state using go-playground/validator plus the date
// range ordering, which tags cannot express.
func (s AppState) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidState, "invalid application state", err)
	}

	if s.End.Before(s.Start) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "end date %s is before start date %s",
			s.End.Format(time.DateOnly), s.Start.Format(time.DateOnly))
	}

	return nil
}

// ParseTickers splits a comma or space separated ticker input into uppercase
// symbols, dropping empty entries.
func ParseTickers(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	tickers := make([]string, 0, len(fields))

	for _, f := range fields {
		t := strings.ToUpper(strings.TrimSpace(f))
		if t != "" {
			tickers = append(tickers, t)
		}
	}

	return tickers
}
