package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaops/linguaflow/internal/model"
)

func TestNormalize_AlternateFieldNames(t *testing.T) {
	canonical := RawResult{
		AnalysisID:       "a1",
		SourceFileID:     "f1",
		DocumentType:     "passport",
		WordCount:        500,
		Complexity:       "medium",
		ProcessingStatus: "completed",
		ErrorMessage:     "",
	}
	legacy := RawResult{
		ID:         "a1",
		FileID:     "f1",
		DocType:    "passport",
		Words:      500,
		Difficulty: "medium",
		Status:     "completed",
	}

	assert.Equal(t, Normalize(canonical), Normalize(legacy))
}

func TestNormalize_LegacyJSONPayload(t *testing.T) {
	payload := `{
		"id": "a9",
		"file_id": "f9",
		"doc_type": "marriage certificate",
		"words": 340,
		"pages": 2,
		"suggested_pages": 1.6,
		"difficulty": "High",
		"status": "completed",
		"actionable_items": [{"type": "warning", "message": "low scan quality"}]
	}`

	var raw RawResult
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	result := Normalize(raw)
	assert.Equal(t, "a9", result.AnalysisID)
	assert.Equal(t, "f9", result.SourceFileID)
	assert.Equal(t, "marriage certificate", result.DocumentType)
	assert.Equal(t, 340, result.WordCount)
	assert.Equal(t, 2, result.PageCount)
	assert.InDelta(t, 1.6, result.BillablePages, 1e-9)
	assert.Equal(t, model.ComplexityHard, result.Complexity)
	assert.Equal(t, model.ResultCompleted, result.ProcessingStatus)
	require.Len(t, result.ActionableItems, 1)
	assert.Equal(t, model.ItemWarning, result.ActionableItems[0].Kind)
}

func TestNormalizeComplexity(t *testing.T) {
	tests := []struct {
		in   string
		want model.Complexity
	}{
		{"easy", model.ComplexityEasy},
		{"low", model.ComplexityEasy},
		{"simple", model.ComplexityEasy},
		{"Medium", model.ComplexityMedium},
		{"moderate", model.ComplexityMedium},
		{"hard", model.ComplexityHard},
		{"HIGH", model.ComplexityHard},
		{"complex", model.ComplexityHard},
		{" easy ", model.ComplexityEasy},
		{"", model.ComplexityEasy},
		{"nonsense", model.ComplexityEasy},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeComplexity(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, model.ResultFailed, normalizeStatus("failed"))
	assert.Equal(t, model.ResultFailed, normalizeStatus("FAILED"))
	assert.Equal(t, model.ResultCompleted, normalizeStatus("completed"))
	assert.Equal(t, model.ResultCompleted, normalizeStatus(""))
	assert.Equal(t, model.ResultCompleted, normalizeStatus("done"))
}

func TestFractionalConfidence(t *testing.T) {
	assert.InDelta(t, 0.92, fractionalConfidence(0.92, 0), 1e-9)
	assert.InDelta(t, 0.92, fractionalConfidence(92, 0), 1e-9)
	assert.InDelta(t, 0.85, fractionalConfidence(0, 85), 1e-9)
	assert.InDelta(t, 1.0, fractionalConfidence(1.0, 0), 1e-9)
	assert.Zero(t, fractionalConfidence(0, 0))
}

func TestNormalize_Defaults(t *testing.T) {
	result := Normalize(RawResult{ID: "a1"})
	assert.Equal(t, 1, result.DocumentCount)
	assert.Equal(t, model.ComplexityEasy, result.Complexity)
	assert.Equal(t, model.ResultCompleted, result.ProcessingStatus)
	assert.Zero(t, result.BillablePages)
}

func TestNormalizeAll(t *testing.T) {
	results := NormalizeAll([]RawResult{{ID: "a1"}, {ID: "a2"}})
	require.Len(t, results, 2)
	assert.Equal(t, "a1", results[0].AnalysisID)
	assert.Equal(t, "a2", results[1].AnalysisID)
	assert.Empty(t, NormalizeAll(nil))
}
