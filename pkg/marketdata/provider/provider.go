// Package provider implements the market data collaborators the dashboard
// fetches price series from.
package provider

import (
	"github.com/equitylab/equity-navigator/pkg/errors"
	"github.com/equitylab/equity-navigator/pkg/marketdata"
)

// NewProvider creates a market data provider based on the provider type.
func NewProvider(providerType marketdata.ProviderType, config any) (marketdata.Provider, error) {
	switch providerType {
	case marketdata.ProviderYahoo:
		return NewYahooProvider(), nil
	case marketdata.ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidParameter, "polygon provider requires API key string config")
		}

		return NewPolygonProvider(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeProviderUnknown, "unsupported market data provider: %s", providerType)
	}
}
