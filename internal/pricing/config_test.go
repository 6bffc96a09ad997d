package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linguaops/linguaflow/internal/service"
)

type stubConfigSource struct {
	cfg service.PricingConfig
	err error
}

func (s *stubConfigSource) FetchPricingConfig(ctx context.Context) (service.PricingConfig, error) {
	return s.cfg, s.err
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		source service.PricingConfigSource
		want   service.PricingConfig
	}{
		{
			name:   "nil source uses defaults",
			source: nil,
			want:   DefaultConfig(),
		},
		{
			name:   "source error uses defaults",
			source: &stubConfigSource{err: errors.New("connection refused")},
			want:   DefaultConfig(),
		},
		{
			name: "valid config passes through",
			source: &stubConfigSource{cfg: service.PricingConfig{
				BaseRate: 80, WordsPerPage: 300, CertificationUnitPrice: 40,
			}},
			want: service.PricingConfig{BaseRate: 80, WordsPerPage: 300, CertificationUnitPrice: 40},
		},
		{
			name: "zero fields backfilled individually",
			source: &stubConfigSource{cfg: service.PricingConfig{
				BaseRate: 80,
			}},
			want: service.PricingConfig{BaseRate: 80, WordsPerPage: 225, CertificationUnitPrice: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoadConfig(ctx, tt.source))
		})
	}
}
