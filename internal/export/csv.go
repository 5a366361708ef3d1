// Package export round-trips a price series and its derived indicator
// columns through CSV. The emitted file reparses into the same series:
// timestamps are RFC3339, numbers keep full float precision and a no-value
// position is an empty cell, never a zero.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
)

const timestampLayout = time.RFC3339

var baseHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// WriteCSV writes the series and the indicator columns. Every result must be
// index-aligned with the series.
func WriteCSV(w io.Writer, series *types.PriceSeries, results []types.IndicatorResult) error {
	if series == nil || series.Len() == 0 {
		return errors.New(errors.ErrCodeExportFailed, "no series to export")
	}

	for _, result := range results {
		if result.Len() != series.Len() {
			return errors.Newf(errors.ErrCodeSeriesMismatch,
				"indicator %s has %d values for %d bars", result.Name, result.Len(), series.Len())
		}
	}

	writer := csv.NewWriter(w)

	header := append(append([]string{}, baseHeader...), resultNames(results)...)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write header", err)
	}

	row := make([]string, len(header))

	for i, bar := range series.Bars {
		row[0] = bar.Time.UTC().Format(timestampLayout)
		row[1] = formatFloat(bar.Open)
		row[2] = formatFloat(bar.High)
		row[3] = formatFloat(bar.Low)
		row[4] = formatFloat(bar.Close)
		row[5] = formatFloat(bar.Volume)

		for j, result := range results {
			if v, ok := result.At(i); ok {
				row[len(baseHeader)+j] = formatFloat(v)
			} else {
				row[len(baseHeader)+j] = ""
			}
		}

		if err := writer.Write(row); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, "failed to write row", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to flush csv", err)
	}

	return nil
}

// ReadCSV parses a file produced by WriteCSV back into a series and its
// indicator columns.
func ReadCSV(r io.Reader, ticker, interval string) (*types.PriceSeries, []types.IndicatorResult, error) {
	reader := csv.NewReader(r)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeImportFailed, "failed to read csv", err)
	}

	if len(records) < 2 {
		return nil, nil, errors.New(errors.ErrCodeImportFailed, "csv has no data rows")
	}

	header := records[0]
	if len(header) < len(baseHeader) {
		return nil, nil, errors.Newf(errors.ErrCodeImportFailed, "csv header has %d columns, want at least %d", len(header), len(baseHeader))
	}

	for i, want := range baseHeader {
		if header[i] != want {
			return nil, nil, errors.Newf(errors.ErrCodeImportFailed, "unexpected column %q at position %d", header[i], i)
		}
	}

	rows := records[1:]
	bars := make([]types.Bar, len(rows))
	results := make([]types.IndicatorResult, len(header)-len(baseHeader))

	for j := range results {
		results[j] = types.NewIndicatorResult(header[len(baseHeader)+j], len(rows))
	}

	for i, record := range rows {
		if len(record) != len(header) {
			return nil, nil, errors.Newf(errors.ErrCodeImportFailed, "row %d has %d columns, want %d", i+1, len(record), len(header))
		}

		ts, err := time.Parse(timestampLayout, record[0])
		if err != nil {
			return nil, nil, errors.Wrapf(errors.ErrCodeImportFailed, err, "row %d has an invalid timestamp", i+1)
		}

		bar := types.Bar{Time: ts}

		for k, dst := range []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume} {
			v, err := strconv.ParseFloat(record[k+1], 64)
			if err != nil {
				return nil, nil, errors.Wrapf(errors.ErrCodeImportFailed, err, "row %d column %s is not numeric", i+1, baseHeader[k+1])
			}

			*dst = v
		}

		bars[i] = bar

		for j := range results {
			cell := record[len(baseHeader)+j]
			if cell == "" {
				continue
			}

			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(errors.ErrCodeImportFailed, err, "row %d column %s is not numeric", i+1, header[len(baseHeader)+j])
			}

			results[j].Set(i, v)
		}
	}

	series, err := types.NewPriceSeries(ticker, interval, bars)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeImportFailed, "csv rows do not form a valid series", err)
	}

	return series, results, nil
}

func resultNames(results []types.IndicatorResult) []string {
	names := make([]string, len(results))
	for i, result := range results {
		names[i] = result.Name
	}

	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
