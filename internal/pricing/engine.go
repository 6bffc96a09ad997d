// Package pricing implements the deterministic billable-pages and
// translation-cost calculation for analyzed documents.
package pricing

import (
	"math"

	"github.com/linguaops/linguaflow/internal/model"
)

// Complexity multipliers and rounding increments are deliberate constants,
// not configuration: changing them would silently change historical pricing
// reproducibility.
const (
	multiplierEasy   = 1.00
	multiplierMedium = 1.15
	multiplierHard   = 1.25

	// costIncrement keeps invoice numbers clean: costs round up to $2.50.
	costIncrement = 2.5

	// minimumBillablePages is charged for any document, however small.
	minimumBillablePages = 1.0
)

// MultiplierFor returns the fixed complexity multiplier for a label.
// Unknown labels price as easy.
func MultiplierFor(c model.Complexity) float64 {
	switch c {
	case model.ComplexityMedium:
		return multiplierMedium
	case model.ComplexityHard:
		return multiplierHard
	default:
		return multiplierEasy
	}
}

// BillablePages derives the billable page count from a word count. The raw
// page estimate is scaled by the complexity multiplier, rounded up to the
// nearest 0.1 page, and never drops below one page.
func BillablePages(wordCount int, complexityMultiplier, wordsPerPage float64) float64 {
	if wordsPerPage <= 0 {
		return minimumBillablePages
	}
	raw := float64(wordCount) / wordsPerPage * complexityMultiplier
	rounded := math.Ceil(raw*10) / 10
	return math.Max(rounded, minimumBillablePages)
}

// TranslationCost prices billable pages at the base rate, rounded up to
// the nearest $2.50.
func TranslationCost(billablePages, baseRate, languageMultiplier float64) float64 {
	if languageMultiplier <= 0 {
		languageMultiplier = 1.0
	}
	return math.Ceil(billablePages*baseRate*languageMultiplier/costIncrement) * costIncrement
}
