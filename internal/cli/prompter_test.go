package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaops/linguaflow/internal/model"
)

func promptDocs() []model.LogicalDocument {
	return []model.LogicalDocument{
		{ID: "f1", DisplayFilename: "passport.pdf", AggregateStatus: model.AggregateCompleted},
		{ID: "f2", DisplayFilename: "blurry.pdf", AggregateStatus: model.AggregateFailed},
		{ID: "f3", DisplayFilename: "contract.pdf", AggregateStatus: model.AggregateCompleted},
	}
}

func TestParseSelection(t *testing.T) {
	docs := promptDocs()

	ids, err := parseSelection("1,3", docs)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f3"}, ids)

	ids, err = parseSelection(" 3 , 1 ", docs)
	require.NoError(t, err)
	assert.Equal(t, []string{"f3", "f1"}, ids)

	ids, err = parseSelection("1", docs)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)
}

func TestParseSelection_Errors(t *testing.T) {
	docs := promptDocs()

	tests := []struct {
		name string
		line string
	}{
		{"out of range", "4"},
		{"zero", "0"},
		{"not a number", "one"},
		{"failed document", "2"},
		{"empty", ""},
		{"only separators", ", ,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSelection(tt.line, docs)
			assert.Error(t, err)
		})
	}
}

func TestShowDocuments(t *testing.T) {
	var buf bytes.Buffer
	prompter := NewPrompter(strings.NewReader(""), &buf)

	docs := promptDocs()
	docs[2].IsGrouped = true
	docs[2].MemberFileIDs = []string{"f3", "f4"}
	prompter.ShowDocuments(docs)

	out := buf.String()
	assert.Contains(t, out, "passport.pdf")
	assert.Contains(t, out, "contract.pdf")
	assert.Contains(t, out, "2 chunks")
}

func TestShowPricing(t *testing.T) {
	var buf bytes.Buffer
	prompter := NewPrompter(strings.NewReader(""), &buf)

	rows := []model.PricingRow{
		{Filename: "passport.pdf", DocumentType: "passport", WordCount: 300, BillablePages: 1.4, Complexity: model.ComplexityEasy, BaseRate: 65, TranslationCost: 92.50, DocumentCount: 1},
		{Filename: "contract.pdf", DocumentType: "contract", WordCount: 800, BillablePages: 4.0, BillablePagesOverridden: true, Complexity: model.ComplexityHard, BaseRate: 65, TranslationCost: 260.00, DocumentCount: 1},
	}
	totals := model.EstimateTotals{TranslationSubtotal: 352.50, TotalDocuments: 2, CertificationEstimate: 100, EstimatedTotal: 452.50}
	prompter.ShowPricing(rows, totals)

	out := buf.String()
	assert.Contains(t, out, "passport.pdf")
	// Overridden pages carry the marker.
	assert.Contains(t, out, "4.0*")
	assert.Contains(t, out, "452.50")
}

func TestShowPages(t *testing.T) {
	var buf bytes.Buffer
	prompter := NewPrompter(strings.NewReader(""), &buf)

	confidence := 92.0
	prompter.ShowPages("passport.pdf", []model.PageRecord{
		{PageNumber: 1, WordCount: 120, DetectedLanguage: "es", ConfidenceScore: &confidence, RawText: "REPUBLICA DE CHILE\nPASAPORTE"},
		{PageNumber: 2, WordCount: 80, DetectedLanguage: "es"},
	})

	out := buf.String()
	assert.Contains(t, out, "es, 200 words")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "REPUBLICA DE CHILE PASAPORTE")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Len(t, truncate("a-very-long-filename.pdf", 12), 12)
	assert.Equal(t, "a-very-lo...", truncate("a-very-long-filename.pdf", 12))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
