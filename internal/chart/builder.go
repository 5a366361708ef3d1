package chart

import (
	"sort"
	"strings"
	"time"

	"github.com/equitylab/equity-navigator/internal/types"
)

// Build assembles the chart payload for one ticker. Indicator results whose
// name belongs to an oscillator family land in their own sub-panel; everything
// else overlays the price panel. Results must be index-aligned with the
// series, which every indicator guarantees.
func Build(series *types.PriceSeries, chartType types.ChartType, results []types.IndicatorResult, annotations []types.EventAnnotation) *Payload {
	payload := &Payload{
		Ticker:    series.Ticker,
		Interval:  series.Interval,
		ChartType: chartType,
		Times:     series.Timestamps(),
		Price: PriceTrace{
			Open:  series.Opens(),
			High:  series.Highs(),
			Low:   series.Lows(),
			Close: series.Closes(),
		},
		Volume:   series.Volumes(),
		Overlays: []Trace{},
		Panels:   []Panel{},
		Markers:  []Marker{},
	}

	panels := make(map[string]*Panel)

	for _, result := range results {
		trace := Trace{
			Name:   result.Name,
			Values: toNullable(result),
		}

		panelName, isPanel := panelFor(result.Name)
		if !isPanel {
			payload.Overlays = append(payload.Overlays, trace)

			continue
		}

		panel, ok := panels[panelName]
		if !ok {
			panel = &Panel{Name: panelName}
			panels[panelName] = panel
		}

		panel.Traces = append(panel.Traces, trace)
	}

	names := make([]string, 0, len(panels))
	for name := range panels {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		payload.Panels = append(payload.Panels, *panels[name])
	}

	for _, annotation := range annotations {
		payload.Markers = append(payload.Markers, Marker{
			ID:    annotation.ID,
			Time:  annotation.Time,
			Label: annotation.Label,
			Kind:  annotation.Kind,
			Price: closeAt(series, annotation.Time),
		})
	}

	return payload
}

// panelFor routes an indicator result name to its sub-panel. Oscillators get
// their own panel; price-scale indicators overlay the price.
func panelFor(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, "rsi_"):
		return "rsi", true
	case strings.HasPrefix(name, "macd"):
		return "macd", true
	case strings.HasPrefix(name, "stoch_"):
		return "stochastic", true
	case strings.HasPrefix(name, "atr_"):
		return "atr", true
	default:
		return "", false
	}
}

func toNullable(result types.IndicatorResult) []*float64 {
	values := make([]*float64, result.Len())

	for i := range values {
		if v, ok := result.At(i); ok {
			value := v
			values[i] = &value
		}
	}

	return values
}

func closeAt(series *types.PriceSeries, at time.Time) float64 {
	for _, bar := range series.Bars {
		if bar.Time.Equal(at) {
			return bar.Close
		}
	}

	return 0
}
