package analysis

import (
	"strings"

	"github.com/linguaops/linguaflow/internal/model"
)

// RawResult is the loosely-typed analysis payload as the collaborator emits
// it. Several fields have appeared under more than one name across model
// versions; every alternate spelling is resolved here and nowhere else.
type RawResult struct {
	AnalysisID             string           `json:"analysis_id"`
	ID                     string           `json:"id"`
	SourceFileID           string           `json:"source_file_id"`
	FileID                 string           `json:"file_id"`
	DocumentType           string           `json:"document_type"`
	DocType                string           `json:"doc_type"`
	DocumentTypeConfidence float64          `json:"document_type_confidence"`
	TypeConfidence         float64          `json:"type_confidence"`
	Language               string           `json:"language"`
	DetectedLanguage       string           `json:"detected_language"`
	IssuingCountry         string           `json:"issuing_country"`
	WordCount              int              `json:"word_count"`
	Words                  int              `json:"words"`
	PageCount              int              `json:"page_count"`
	Pages                  int              `json:"pages"`
	BillablePages          float64          `json:"billable_pages"`
	SuggestedPages         float64          `json:"suggested_pages"`
	Complexity             string           `json:"complexity"`
	Difficulty             string           `json:"difficulty"`
	ComplexityConfidence   float64          `json:"complexity_confidence"`
	DocumentCount          int              `json:"document_count"`
	SubDocuments           []rawSubDocument `json:"sub_documents"`
	ActionableItems        []rawItem        `json:"actionable_items"`
	ProcessingStatus       string           `json:"processing_status"`
	Status                 string           `json:"status"`
	ErrorMessage           string           `json:"error_message"`
	Error                  string           `json:"error"`
}

type rawSubDocument struct {
	Type       string `json:"type"`
	HolderName string `json:"holder_name"`
	PageRange  string `json:"page_range"`
	Language   string `json:"language"`
}

type rawItem struct {
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Normalize converts a loose collaborator payload into the strict
// AnalysisResult shape. Downstream code never sees the raw form.
func Normalize(raw RawResult) model.AnalysisResult {
	result := model.AnalysisResult{
		AnalysisID:             firstNonEmpty(raw.AnalysisID, raw.ID),
		SourceFileID:           firstNonEmpty(raw.SourceFileID, raw.FileID),
		DocumentType:           firstNonEmpty(raw.DocumentType, raw.DocType),
		DocumentTypeConfidence: fractionalConfidence(raw.DocumentTypeConfidence, raw.TypeConfidence),
		Language:               firstNonEmpty(raw.Language, raw.DetectedLanguage),
		IssuingCountry:         raw.IssuingCountry,
		WordCount:              firstPositive(raw.WordCount, raw.Words),
		PageCount:              firstPositive(raw.PageCount, raw.Pages),
		BillablePages:          raw.BillablePages,
		Complexity:             normalizeComplexity(firstNonEmpty(raw.Complexity, raw.Difficulty)),
		ComplexityConfidence:   fractionalConfidence(raw.ComplexityConfidence, 0),
		DocumentCount:          raw.DocumentCount,
		ProcessingStatus:       normalizeStatus(firstNonEmpty(raw.ProcessingStatus, raw.Status)),
		ErrorMessage:           firstNonEmpty(raw.ErrorMessage, raw.Error),
	}

	if result.BillablePages <= 0 {
		result.BillablePages = raw.SuggestedPages
	}
	if result.DocumentCount < 1 {
		result.DocumentCount = 1
	}

	for _, sub := range raw.SubDocuments {
		result.SubDocuments = append(result.SubDocuments, model.SubDocument{
			Type:       sub.Type,
			HolderName: sub.HolderName,
			PageRange:  sub.PageRange,
			Language:   sub.Language,
		})
	}
	for _, item := range raw.ActionableItems {
		result.ActionableItems = append(result.ActionableItems, model.ActionableItem{
			Kind:    normalizeItemKind(firstNonEmpty(item.Kind, item.Type)),
			Message: item.Message,
		})
	}
	return result
}

// NormalizeAll converts a slice of raw payloads.
func NormalizeAll(raws []RawResult) []model.AnalysisResult {
	results := make([]model.AnalysisResult, 0, len(raws))
	for _, raw := range raws {
		results = append(results, Normalize(raw))
	}
	return results
}

func normalizeComplexity(value string) model.Complexity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy", "low", "simple":
		return model.ComplexityEasy
	case "hard", "high", "complex":
		return model.ComplexityHard
	case "medium", "moderate":
		return model.ComplexityMedium
	default:
		return model.ComplexityEasy
	}
}

func normalizeStatus(value string) model.ResultStatus {
	if strings.EqualFold(strings.TrimSpace(value), string(model.ResultFailed)) {
		return model.ResultFailed
	}
	return model.ResultCompleted
}

func normalizeItemKind(value string) model.ActionableItemKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "warning":
		return model.ItemWarning
	case "suggestion":
		return model.ItemSuggestion
	default:
		return model.ItemNote
	}
}

// fractionalConfidence keeps confidences in the 0-1 range, scaling down
// sources that report percentages.
func fractionalConfidence(primary, fallback float64) float64 {
	v := primary
	if v == 0 {
		v = fallback
	}
	if v > 1 {
		v = v / 100
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
