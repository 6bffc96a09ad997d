package config

import (
	"context"

	"github.com/spf13/viper"

	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/service"
)

// ViperPricingSource reads pricing configuration from Viper (config file or
// LINGUAFLOW_ env vars). Values missing from the configuration surface as
// an unavailable config, which callers resolve with hardcoded defaults.
type ViperPricingSource struct{}

// FetchPricingConfig implements service.PricingConfigSource.
func (ViperPricingSource) FetchPricingConfig(_ context.Context) (service.PricingConfig, error) {
	if !viper.IsSet("pricing.base_rate") &&
		!viper.IsSet("pricing.words_per_page") &&
		!viper.IsSet("pricing.certification_unit_price") {
		return service.PricingConfig{}, common.ErrConfigUnavailable
	}

	return service.PricingConfig{
		BaseRate:               viper.GetFloat64("pricing.base_rate"),
		WordsPerPage:           viper.GetFloat64("pricing.words_per_page"),
		CertificationUnitPrice: viper.GetFloat64("pricing.certification_unit_price"),
	}, nil
}

// DocumentStore holds the connection settings for the document store API.
type DocumentStore struct {
	URL    string
	APIKey string
}

// LoadDocumentStore reads document store settings from Viper.
func LoadDocumentStore() DocumentStore {
	return DocumentStore{
		URL:    viper.GetString("store.url"),
		APIKey: viper.GetString("store.api_key"),
	}
}
