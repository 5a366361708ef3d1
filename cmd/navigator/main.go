package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/equitylab/equity-navigator/internal/logger"
	"github.com/equitylab/equity-navigator/internal/server"
	"github.com/equitylab/equity-navigator/internal/types"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

// serveAction boots the dashboard API server.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	config := server.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := server.LoadConfig(path)
		if err != nil {
			return err
		}

		config = loaded
	}

	if cmd.IsSet("port") {
		config.Port = int(cmd.Int("port"))
	}

	if key := os.Getenv("POLYGON_API_KEY"); key != "" && config.PolygonAPIKey == "" {
		config.PolygonAPIKey = key
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.NewServer(config, log)
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}

// schemaAction prints the dashboard state JSON schema.
func schemaAction(_ context.Context, _ *cli.Command) error {
	state := types.AppState{}

	schemaJSON, err := state.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schemaJSON)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "navigator",
		Usage: "Stock dashboard backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the dashboard API server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the YAML config file",
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on, overrides the config file",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "export",
				Usage: "Fetch a series, compute indicators and write CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Stock ticker symbol",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:  "timeframe",
						Usage: "Bar timeframe: daily, weekly, monthly or intraday",
						Value: string(types.TimeframeDaily),
					},
					&cli.StringSliceFlag{
						Name:    "indicator",
						Aliases: []string{"i"},
						Usage:   "Indicator to compute, repeatable (e.g. sma:20, rsi:14, macd)",
					},
					&cli.StringFlag{
						Name:  "formula",
						Usage: "Custom overlay formula over open/high/low/close/volume",
					},
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Data provider (%s or %s)", marketdata.ProviderYahoo, marketdata.ProviderPolygon),
						Value:   string(marketdata.ProviderYahoo),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output CSV path, defaults to <ticker>.csv",
					},
				},
				Action: exportAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the dashboard state JSON schema",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
