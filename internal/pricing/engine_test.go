package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linguaops/linguaflow/internal/model"
)

func TestMultiplierFor(t *testing.T) {
	tests := []struct {
		complexity model.Complexity
		want       float64
	}{
		{model.ComplexityEasy, 1.00},
		{model.ComplexityMedium, 1.15},
		{model.ComplexityHard, 1.25},
		{model.Complexity("unknown"), 1.00},
		{model.Complexity(""), 1.00},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, MultiplierFor(tt.complexity), 1e-9, "complexity %q", tt.complexity)
	}
}

func TestBillablePages(t *testing.T) {
	tests := []struct {
		name         string
		wordCount    int
		multiplier   float64
		wordsPerPage float64
		want         float64
	}{
		{"medium complexity rounds up to tenth", 500, 1.15, 225, 2.6},
		{"exact page count unchanged", 450, 1.00, 225, 2.0},
		{"small document floors at one page", 30, 1.00, 225, 1.0},
		{"zero words floors at one page", 0, 1.25, 225, 1.0},
		{"hard complexity", 1000, 1.25, 225, 5.6},
		{"zero words-per-page falls back to minimum", 500, 1.15, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillablePages(tt.wordCount, tt.multiplier, tt.wordsPerPage)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTranslationCost(t *testing.T) {
	tests := []struct {
		name          string
		billablePages float64
		baseRate      float64
		langMult      float64
		want          float64
	}{
		{"rounds up to next 2.50", 2.6, 65, 1.0, 170.00},
		{"already on increment", 2.0, 65, 1.0, 130.00},
		{"minimum page at base rate", 1.0, 65, 1.0, 65.00},
		{"language multiplier applied before rounding", 2.0, 65, 1.1, 145.00},
		{"zero multiplier treated as one", 1.0, 50, 0, 50.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslationCost(tt.billablePages, tt.baseRate, tt.langMult)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
