package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/linguaops/linguaflow/internal/model"
)

// ToWorkbook renders the pricing table as an XLSX workbook, the format the
// back office attaches to customer-facing quotes.
func ToWorkbook(rows []model.PricingRow, totals model.EstimateTotals) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Pricing Estimate"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	rowIdx := 2
	for _, row := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, row.Filename)
		write(2, row.DocumentType)
		write(3, row.WordCount)
		write(4, row.BillablePages)
		write(5, string(row.Complexity))
		write(6, row.BaseRate)
		write(7, row.TranslationCost)
		write(8, row.DocumentCount)
		rowIdx++
	}

	rowIdx++ // blank separator row
	summary := []struct {
		label string
		value float64
	}{
		{"Translation Subtotal", totals.TranslationSubtotal},
		{fmt.Sprintf("Certification Estimate (%d documents)", totals.TotalDocuments), totals.CertificationEstimate},
		{"Estimated Total", totals.EstimatedTotal},
	}
	for _, s := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		valueCell, _ := excelize.CoordinatesToCellName(2, rowIdx)
		_ = f.SetCellValue(sheet, labelCell, s.label)
		_ = f.SetCellValue(sheet, valueCell, s.value)
		rowIdx++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
