package model

// PricingRow is one editable line of the pricing estimate, derived from a
// completed AnalysisResult. Staff may override billable pages, complexity
// and base rate; derived fields are recomputed after every edit.
type PricingRow struct {
	AnalysisID              string
	Filename                string
	DocumentType            string
	WordCount               int
	DocumentCount           int
	BillablePages           float64
	BillablePagesOverridden bool
	Complexity              Complexity
	ComplexityMultiplier    float64
	BaseRate                float64
	BaseRateOverridden      bool
	TranslationCost         float64
	LineTotal               float64
}

// EstimateTotals is the batch-level rollup across all pricing rows.
// Recomputed after every row mutation, never cached.
type EstimateTotals struct {
	TranslationSubtotal   float64
	TotalDocuments        int
	CertificationEstimate float64
	EstimatedTotal        float64
}

// BatchSummary is the simple handoff shape consumed by quote creation.
type BatchSummary struct {
	TotalPages      int
	TotalWords      int
	PrimaryLanguage string
}
