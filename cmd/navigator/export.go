package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/equitylab/equity-navigator/internal/export"
	"github.com/equitylab/equity-navigator/internal/indicator"
	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/overlay"
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
	"github.com/equitylab/equity-navigator/pkg/marketdata/provider"
)

// exportAction fetches a series, computes the requested indicator columns
// and writes everything to a CSV file.
func exportAction(ctx context.Context, cmd *cli.Command) error {
	ticker := strings.ToUpper(cmd.String("ticker"))
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")
	timeframe := types.Timeframe(cmd.String("timeframe"))

	timespan, err := marketdata.FromTimeframe(timeframe)
	if err != nil {
		return err
	}

	selections, err := parseSelections(cmd.StringSlice("indicator"))
	if err != nil {
		return err
	}

	dataProvider, err := provider.NewProvider(
		marketdata.ProviderType(cmd.String("provider")), os.Getenv("POLYGON_API_KEY"))
	if err != nil {
		return err
	}

	client := marketdata.NewClient(dataProvider, logger.NewNop())

	fmt.Printf("Fetching %s from %s to %s...\n",
		ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))

	series, err := client.Fetch(ctx, ticker, start, end, timespan)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(selections)+1,
		progressbar.OptionSetDescription(fmt.Sprintf("Computing indicators for %s", ticker)),
		progressbar.OptionShowCount())

	registry := indicator.DefaultRegistry()

	var results []types.IndicatorResult

	for _, selection := range selections {
		ind, err := registry.Get(selection.Type)
		if err != nil {
			return err
		}

		if err := ind.Config(selection.Params...); err != nil {
			return err
		}

		computed, err := ind.Compute(series)
		if err != nil {
			return err
		}

		results = append(results, computed...)
		_ = bar.Add(1)
	}

	if formula := cmd.String("formula"); formula != "" {
		result, err := overlay.NewEvaluator().Evaluate(ctx, formula, series)
		if err != nil {
			return err
		}

		results = append(results, result)
	}

	_ = bar.Add(1)
	_ = bar.Finish()

	output := cmd.String("output")
	if output == "" {
		output = ticker + ".csv"
	}

	file, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", output)
	}
	defer file.Close()

	if err := export.WriteCSV(file, series, results); err != nil {
		return err
	}

	fmt.Println(renderSummary(series, output, len(results)))

	return nil
}

// parseSelections turns flags like "sma:20" or "bollinger_bands:20:2.5" into
// indicator selections. Parts after the name become Config parameters.
func parseSelections(specs []string) ([]types.IndicatorSelection, error) {
	selections := make([]types.IndicatorSelection, 0, len(specs))

	for _, spec := range specs {
		parts := strings.Split(spec, ":")

		selection := types.IndicatorSelection{
			Type: types.IndicatorType(strings.TrimSpace(parts[0])),
		}

		for _, part := range parts[1:] {
			part = strings.TrimSpace(part)

			if n, err := strconv.Atoi(part); err == nil {
				selection.Params = append(selection.Params, n)

				continue
			}

			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, errors.Newf(errors.ErrCodeInvalidParameter,
					"invalid indicator parameter %q in %q", part, spec)
			}

			selection.Params = append(selection.Params, f)
		}

		selections = append(selections, selection)
	}

	return selections, nil
}
