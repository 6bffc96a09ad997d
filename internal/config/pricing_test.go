package config

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaops/linguaflow/internal/common"
)

func TestViperPricingSource(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	source := ViperPricingSource{}

	_, err := source.FetchPricingConfig(context.Background())
	assert.ErrorIs(t, err, common.ErrConfigUnavailable)

	viper.Set("pricing.base_rate", 70.0)
	viper.Set("pricing.words_per_page", 250.0)

	cfg, err := source.FetchPricingConfig(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 70.0, cfg.BaseRate, 1e-9)
	assert.InDelta(t, 250.0, cfg.WordsPerPage, 1e-9)
	// Unset values stay zero; the pricing layer backfills defaults.
	assert.Zero(t, cfg.CertificationUnitPrice)
}

func TestLoadDocumentStore(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("store.url", "https://docs.example.com/api")
	viper.Set("store.api_key", "secret")

	store := LoadDocumentStore()
	assert.Equal(t, "https://docs.example.com/api", store.URL)
	assert.Equal(t, "secret", store.APIKey)
}
