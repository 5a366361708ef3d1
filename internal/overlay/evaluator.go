// Package overlay evaluates user-supplied formula strings against a price
// series, producing one derived series per formula. Evaluation is a
// restricted arithmetic expression language: formulas can only read the
// series columns and call a handful of math helpers, so a formula can never
// reach surrounding state, the filesystem, or the network.
package overlay

import (
	"context"
	"math"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/moznion/go-optional"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

// ResultName is the name derived overlay series are published under.
const ResultName = "overlay"

// Columns lists the recognized column identifiers.
var Columns = []string{"open", "high", "low", "close", "volume"}

// Evaluator compiles and evaluates overlay formulas.
type Evaluator struct {
	lang gval.Language
}

// NewEvaluator creates an evaluator with the arithmetic-only language.
func NewEvaluator() *Evaluator {
	lang := gval.NewLanguage(
		gval.Arithmetic(),
		gval.Function("abs", math.Abs),
		gval.Function("sqrt", math.Sqrt),
		gval.Function("log", math.Log),
		gval.Function("min", math.Min),
		gval.Function("max", math.Max),
	)

	return &Evaluator{lang: lang}
}

// Evaluate runs the formula against every bar of the series and returns the
// derived series, index-aligned with the source. The source series is never
// modified. Any parse failure, reference to an unrecognized column, or
// non-numeric result fails the whole formula with a FormulaError; a
// position whose result is NaN or infinite carries the no-value marker.
func (e *Evaluator) Evaluate(ctx context.Context, formula string, series *types.PriceSeries) (types.IndicatorResult, error) {
	if strings.TrimSpace(formula) == "" {
		return types.IndicatorResult{}, errors.New(errors.ErrCodeFormulaSyntax, "formula is empty")
	}

	if series == nil {
		return types.IndicatorResult{}, errors.New(errors.ErrCodeEmptySeries, "price series is nil")
	}

	evaluable, err := e.lang.NewEvaluable(formula)
	if err != nil {
		return types.IndicatorResult{}, errors.Wrapf(errors.ErrCodeFormulaSyntax, err, "failed to parse formula %q", formula)
	}

	values := make([]optional.Option[float64], series.Len())

	for i, bar := range series.Bars {
		raw, err := evaluable(ctx, columnBindings(bar))
		if err != nil {
			return types.IndicatorResult{}, classifyEvalError(formula, err)
		}

		value, ok := toFloat(raw)
		if !ok {
			return types.IndicatorResult{}, errors.Newf(errors.ErrCodeFormulaNonNumeric, "formula %q produced a non-numeric result", formula)
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			values[i] = optional.None[float64]()

			continue
		}

		values[i] = optional.Some(value)
	}

	return types.IndicatorResult{
		Name:   ResultName,
		Values: values,
	}, nil
}

func columnBindings(bar types.Bar) map[string]any {
	return map[string]any{
		"open":   bar.Open,
		"high":   bar.High,
		"low":    bar.Low,
		"close":  bar.Close,
		"volume": bar.Volume,
	}
}

func classifyEvalError(formula string, err error) error {
	if strings.Contains(err.Error(), "unknown parameter") {
		return errors.Wrapf(errors.ErrCodeFormulaUnknownColumn, err, "formula %q references an unrecognized column", formula)
	}

	return errors.Wrapf(errors.ErrCodeFormulaEvaluation, err, "failed to evaluate formula %q", formula)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
