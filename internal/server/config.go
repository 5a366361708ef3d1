package server

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

// Config is the server configuration, loaded from YAML.
type Config struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required,min=1,max=65535"`

	// Provider selects the market data collaborator.
	Provider      marketdata.ProviderType `yaml:"provider" validate:"required,oneof=polygon yahoo"`
	PolygonAPIKey string                  `yaml:"polygon_api_key"`

	// Benchmark is the ticker beta is measured against. Empty disables beta.
	Benchmark string `yaml:"benchmark"`

	// LiveInterval is the poll period of the live quote stream.
	LiveInterval time.Duration `yaml:"live_interval" validate:"min=0"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		Provider:     marketdata.ProviderYahoo,
		Benchmark:    "SPY",
		LiveInterval: 15 * time.Second,
	}
}

// LoadConfig reads and validates a YAML config file. Fields missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeConfigInvalid, err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeConfigInvalid, err, "failed to parse config %s", path)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "invalid server config", err)
	}

	if c.Provider == marketdata.ProviderPolygon && c.PolygonAPIKey == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "polygon provider requires polygon_api_key")
	}

	return nil
}
