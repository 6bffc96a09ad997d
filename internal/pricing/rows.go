package pricing

import (
	"math"
	"strconv"

	"github.com/linguaops/linguaflow/internal/model"
	"github.com/linguaops/linguaflow/internal/service"
)

// Field names an editable pricing row field.
type Field string

// Editable row fields.
const (
	FieldComplexity    Field = "complexity"
	FieldBillablePages Field = "billablePages"
	FieldBaseRate      Field = "baseRate"
)

// NewRows builds the initial pricing rows from completed analysis results.
// Failed results are skipped. Billable pages default to the system
// suggestion when the analysis produced one, otherwise they are derived
// from the word count.
func NewRows(results []model.AnalysisResult, cfg service.PricingConfig) []model.PricingRow {
	rows := make([]model.PricingRow, 0, len(results))
	for _, r := range results {
		if r.ProcessingStatus != model.ResultCompleted {
			continue
		}

		complexity := r.Complexity
		if complexity == "" {
			complexity = model.ComplexityEasy
		}
		multiplier := MultiplierFor(complexity)

		pages := r.BillablePages
		if pages <= 0 {
			pages = BillablePages(r.WordCount, multiplier, cfg.WordsPerPage)
		}

		docCount := r.DocumentCount
		if docCount < 1 {
			docCount = 1
		}

		row := model.PricingRow{
			AnalysisID:           r.AnalysisID,
			DocumentType:         r.DocumentType,
			WordCount:            r.WordCount,
			DocumentCount:        docCount,
			BillablePages:        pages,
			Complexity:           complexity,
			ComplexityMultiplier: multiplier,
			BaseRate:             cfg.BaseRate,
		}
		recompute(&row)
		rows = append(rows, row)
	}
	return rows
}

// UpdateRow applies one staff edit to a row. Invalid numeric input leaves
// the row unchanged; validation feedback is the caller's concern. Once
// billable pages are edited directly, complexity changes never overwrite
// them again. The translation cost is recomputed after every update.
func UpdateRow(row *model.PricingRow, field Field, value string, cfg service.PricingConfig) {
	switch field {
	case FieldComplexity:
		complexity := model.Complexity(value)
		switch complexity {
		case model.ComplexityEasy, model.ComplexityMedium, model.ComplexityHard:
		default:
			return
		}
		row.Complexity = complexity
		row.ComplexityMultiplier = MultiplierFor(complexity)
		if !row.BillablePagesOverridden {
			row.BillablePages = BillablePages(row.WordCount, row.ComplexityMultiplier, cfg.WordsPerPage)
		}

	case FieldBillablePages:
		pages, ok := parseNonNegative(value)
		if !ok {
			return
		}
		row.BillablePages = pages
		row.BillablePagesOverridden = true

	case FieldBaseRate:
		rate, ok := parseNonNegative(value)
		if !ok {
			return
		}
		row.BaseRate = rate
		row.BaseRateOverridden = true

	default:
		return
	}

	recompute(row)
}

// ClearPageOverride discards a manual billable-pages edit and re-derives
// the value from the word count and current complexity.
func ClearPageOverride(row *model.PricingRow, cfg service.PricingConfig) {
	row.BillablePagesOverridden = false
	row.BillablePages = BillablePages(row.WordCount, row.ComplexityMultiplier, cfg.WordsPerPage)
	recompute(row)
}

// RecomputeTotals derives the batch-level totals from the current rows.
// It is pure and invoked after every row mutation; totals are never cached.
func RecomputeTotals(rows []model.PricingRow, cfg service.PricingConfig) model.EstimateTotals {
	var totals model.EstimateTotals
	for _, row := range rows {
		totals.TranslationSubtotal += row.TranslationCost
		totals.TotalDocuments += row.DocumentCount
	}
	totals.CertificationEstimate = float64(totals.TotalDocuments) * cfg.CertificationUnitPrice
	totals.EstimatedTotal = totals.TranslationSubtotal + totals.CertificationEstimate
	return totals
}

func recompute(row *model.PricingRow) {
	row.TranslationCost = TranslationCost(row.BillablePages, row.BaseRate, 1.0)
	row.LineTotal = row.TranslationCost
}

func parseNonNegative(value string) (float64, bool) {
	// ParseFloat accepts "NaN" and "Inf" spellings, which are not valid
	// page counts or rates.
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
