package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/linguaops/linguaflow/internal/grouping"
	"github.com/linguaops/linguaflow/internal/model"
)

// Prompter implements the interactive CLI surface for batch review:
// document tables, selection prompts and pricing-row editing.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter over the given streams. Nil streams
// default to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		writer: writer,
		reader: NewLineReader(reader),
	}
}

// ShowDocuments renders the logical document table for a batch.
func (p *Prompter) ShowDocuments(documents []model.LogicalDocument) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-40s %-9s %7s %8s %s\n", "#", "Document", "Status", "Pages", "Words", "Grouped")
	for i, doc := range documents {
		grouped := ""
		if doc.IsGrouped {
			grouped = fmt.Sprintf("%d chunks", len(doc.MemberFileIDs))
		}
		// Pad before styling: ANSI escapes confuse fmt's width count.
		status := styleStatus(fmt.Sprintf("%-9s", doc.AggregateStatus), doc.AggregateStatus)
		fmt.Fprintf(&b, "%-3d %-40s %s %7d %8d %s\n",
			i+1,
			truncate(doc.DisplayFilename, 40),
			status,
			doc.TotalPages,
			doc.TotalWords,
			SubtleStyle.Render(grouped))
	}
	fmt.Fprintln(p.writer, RenderBox("Documents", strings.TrimRight(b.String(), "\n")))
}

// ShowPricing renders the pricing table and totals.
func (p *Prompter) ShowPricing(rows []model.PricingRow, totals model.EstimateTotals) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-32s %-18s %6s %6s %-8s %8s %10s\n",
		"#", "Document", "Type", "Words", "Pages", "Cmplx", "Rate", "Cost")
	for i, row := range rows {
		pages := fmt.Sprintf("%.1f", row.BillablePages)
		if row.BillablePagesOverridden {
			pages += "*"
		}
		fmt.Fprintf(&b, "%-3d %-32s %-18s %6d %6s %-8s %8.2f %10.2f\n",
			i+1,
			truncate(row.Filename, 32),
			truncate(row.DocumentType, 18),
			row.WordCount,
			pages,
			row.Complexity,
			row.BaseRate,
			row.TranslationCost)
	}
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "%-50s %10.2f\n", "Translation subtotal", totals.TranslationSubtotal)
	fmt.Fprintf(&b, "%-50s %10.2f\n",
		fmt.Sprintf("Certification estimate (%d documents)", totals.TotalDocuments),
		totals.CertificationEstimate)
	fmt.Fprintf(&b, "%-50s %10.2f\n", "Estimated total", totals.EstimatedTotal)
	fmt.Fprintln(p.writer, RenderBox("Pricing Estimate", strings.TrimRight(b.String(), "\n")))
}

// ShowPages renders per-page OCR detail for one document: a rollup line
// with the dominant language and confidence band, then one row per page.
func (p *Prompter) ShowPages(name string, pages []model.PageRecord) {
	var b strings.Builder

	lang, ok := grouping.DominantLanguage(pages)
	if !ok {
		lang = "unknown"
	}
	avg := grouping.AverageConfidence(pages)
	fmt.Fprintf(&b, "%s, %d words, avg confidence %.1f (%s)\n\n",
		lang, grouping.TotalWords(pages), avg, grouping.BandFor(avg))

	fmt.Fprintf(&b, "%-5s %6s %-5s %10s  %s\n", "Page", "Words", "Lang", "Confidence", "Text")
	for _, page := range pages {
		confidence := "-"
		if page.ConfidenceScore != nil {
			confidence = fmt.Sprintf("%.1f", *page.ConfidenceScore)
		}
		fmt.Fprintf(&b, "%-5d %6d %-5s %10s  %s\n",
			page.PageNumber,
			page.WordCount,
			page.DetectedLanguage,
			confidence,
			truncate(strings.ReplaceAll(page.RawText, "\n", " "), 60))
	}
	fmt.Fprintln(p.writer, RenderBox(name, strings.TrimRight(b.String(), "\n")))
}

// ShowActionableItems prints the analysis model's warnings and notes.
func (p *Prompter) ShowActionableItems(results []model.AnalysisResult) {
	for _, result := range results {
		for _, item := range result.ActionableItems {
			line := fmt.Sprintf("%s: %s", result.DocumentType, item.Message)
			switch item.Kind {
			case model.ItemWarning:
				fmt.Fprintln(p.writer, FormatWarning(line))
			default:
				fmt.Fprintln(p.writer, SubtleStyle.Render("  "+line))
			}
		}
	}
}

// PromptSelection asks which documents to analyze. Accepts "all" or a
// comma-separated list of table numbers; unselectable documents are
// reported and skipped.
func (p *Prompter) PromptSelection(ctx context.Context, documents []model.LogicalDocument) ([]string, error) {
	fmt.Fprintln(p.writer, FormatPrompt(`Select documents to analyze ("all", "1,3", or "q" to quit)`))

	for {
		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(line) {
		case "q", "quit":
			return nil, nil
		case "all", "a":
			var ids []string
			for i := range documents {
				if documents[i].Selectable() {
					ids = append(ids, documents[i].ID)
				}
			}
			return ids, nil
		}

		ids, err := parseSelection(line, documents)
		if err != nil {
			fmt.Fprintln(p.writer, FormatError(err.Error()))
			continue
		}
		return ids, nil
	}
}

// PromptCommand reads one review command.
func (p *Prompter) PromptCommand(ctx context.Context) (string, error) {
	fmt.Fprintln(p.writer, FormatPrompt("set <row> pages|complexity|rate <value> | clear <row> | pages <doc> | reanalyze | export | apply | done"))
	return p.reader.ReadLine(ctx)
}

// WatchJob displays a spinner until the analysis job finishes or the
// context is canceled.
func (p *Prompter) WatchJob(ctx context.Context, done <-chan struct{}) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing documents...[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			fmt.Fprintln(p.writer)
			return nil
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// Success prints a styled success line.
func (p *Prompter) Success(message string) {
	fmt.Fprintln(p.writer, FormatSuccess(message))
}

// Error prints a styled error line.
func (p *Prompter) Error(message string) {
	fmt.Fprintln(p.writer, FormatError(message))
}

// Info prints a subtle informational line.
func (p *Prompter) Info(message string) {
	fmt.Fprintln(p.writer, SubtleStyle.Render(message))
}

func parseSelection(line string, documents []model.LogicalDocument) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var index int
		if _, err := fmt.Sscanf(part, "%d", &index); err != nil || index < 1 || index > len(documents) {
			return nil, fmt.Errorf("invalid document number %q", part)
		}

		doc := documents[index-1]
		if !doc.Selectable() {
			return nil, fmt.Errorf("document %d (%s) is not fully processed", index, doc.DisplayFilename)
		}
		ids = append(ids, doc.ID)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("nothing selected")
	}
	return ids, nil
}

func styleStatus(padded string, status model.AggregateStatus) string {
	switch status {
	case model.AggregateCompleted:
		return SuccessStyle.Render(padded)
	case model.AggregateFailed:
		return ErrorStyle.Render(padded)
	default:
		return WarningStyle.Render(padded)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
