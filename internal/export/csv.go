// Package export renders pricing estimates to downloadable artifacts.
package export

import (
	"fmt"
	"strings"

	"github.com/linguaops/linguaflow/internal/model"
)

var csvHeader = []string{
	"Filename",
	"Document Type",
	"Word Count",
	"Billable Pages",
	"Complexity",
	"Base Rate",
	"Translation Cost",
	"Documents",
}

// ToDelimitedText renders the pricing table as delimited text. Every field
// is quoted and internal quotes are doubled, so the output round-trips
// through any standard CSV parser. The output is byte-identical for equal
// input.
func ToDelimitedText(rows []model.PricingRow, totals model.EstimateTotals) string {
	var b strings.Builder

	writeRecord(&b, csvHeader)
	for _, row := range rows {
		writeRecord(&b, []string{
			row.Filename,
			row.DocumentType,
			fmt.Sprintf("%d", row.WordCount),
			fmt.Sprintf("%.1f", row.BillablePages),
			string(row.Complexity),
			fmt.Sprintf("%.2f", row.BaseRate),
			fmt.Sprintf("%.2f", row.TranslationCost),
			fmt.Sprintf("%d", row.DocumentCount),
		})
	}

	b.WriteString("\n")
	writeRecord(&b, []string{"Translation Subtotal", fmt.Sprintf("%.2f", totals.TranslationSubtotal)})
	writeRecord(&b, []string{
		fmt.Sprintf("Certification Estimate (%d documents)", totals.TotalDocuments),
		fmt.Sprintf("%.2f", totals.CertificationEstimate),
	})
	writeRecord(&b, []string{"Estimated Total", fmt.Sprintf("%.2f", totals.EstimatedTotal)})

	return b.String()
}

// writeRecord appends one line with every field quoted. encoding/csv only
// quotes when required, so the escaping is done by hand.
func writeRecord(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"`)
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteString(`"`)
	}
	b.WriteString("\n")
}

// Filename builds the download filename for a batch's estimate.
func Filename(batchID, extension string) string {
	prefix := "export"
	if batchID != "" {
		if len(batchID) > 8 {
			prefix = batchID[:8]
		} else {
			prefix = batchID
		}
	}
	return fmt.Sprintf("pricing-estimate-%s.%s", prefix, extension)
}
