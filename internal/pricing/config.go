package pricing

import (
	"context"
	"log/slog"

	"github.com/linguaops/linguaflow/internal/service"
)

// Hardcoded fallback pricing parameters, used whenever the config source is
// unavailable. The workflow never blocks on configuration.
const (
	DefaultBaseRate               = 65
	DefaultWordsPerPage           = 225
	DefaultCertificationUnitPrice = 50
)

// DefaultConfig returns the fallback pricing configuration.
func DefaultConfig() service.PricingConfig {
	return service.PricingConfig{
		BaseRate:               DefaultBaseRate,
		WordsPerPage:           DefaultWordsPerPage,
		CertificationUnitPrice: DefaultCertificationUnitPrice,
	}
}

// LoadConfig fetches pricing configuration from the source, falling back to
// defaults when the source is nil, fails, or returns unusable values.
func LoadConfig(ctx context.Context, source service.PricingConfigSource) service.PricingConfig {
	if source == nil {
		return DefaultConfig()
	}

	cfg, err := source.FetchPricingConfig(ctx)
	if err != nil {
		slog.Warn("Pricing config unavailable, using defaults", "error", err)
		return DefaultConfig()
	}

	if cfg.BaseRate <= 0 {
		cfg.BaseRate = DefaultBaseRate
	}
	if cfg.WordsPerPage <= 0 {
		cfg.WordsPerPage = DefaultWordsPerPage
	}
	if cfg.CertificationUnitPrice <= 0 {
		cfg.CertificationUnitPrice = DefaultCertificationUnitPrice
	}
	return cfg
}
