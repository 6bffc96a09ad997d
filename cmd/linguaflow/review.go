package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linguaops/linguaflow/internal/analysis"
	"github.com/linguaops/linguaflow/internal/cli"
	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/config"
	"github.com/linguaops/linguaflow/internal/export"
	"github.com/linguaops/linguaflow/internal/model"
	"github.com/linguaops/linguaflow/internal/pricing"
	"github.com/linguaops/linguaflow/internal/review"
	"github.com/linguaops/linguaflow/internal/service"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <batch-id>",
		Short: "Open a batch for analysis and pricing review",
		Long: `Review fetches an OCR batch, reconciles chunked uploads into logical
documents, runs AI analysis over the selection and opens the resulting
pricing estimate for editing.`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	batchID := args[0]

	client, err := newStoreClient()
	if err != nil {
		return err
	}

	prompter := cli.NewPrompter(nil, nil)

	opts := review.Options{
		ConfigSource: chainedConfig{config.ViperPricingSource{}, client},
	}
	if estimates, err := initStorage(ctx); err != nil {
		// History is a convenience; the review works without it.
		prompter.Info(fmt.Sprintf("estimate history unavailable: %v", err))
	} else {
		defer func() { _ = estimates.Close() }()
		opts.Estimates = estimates
	}

	session := review.NewSession(client, opts)
	defer session.Close()

	err = common.WithRetry(ctx, func() error {
		return session.Open(ctx, batchID)
	}, service.RetryOptions{})
	if err != nil {
		return err
	}

	prompter.ShowDocuments(session.Documents())

	if len(session.Rows()) == 0 {
		if err := runAnalysis(ctx, session, prompter); err != nil {
			return err
		}
		if len(session.Rows()) == 0 {
			prompter.Info("no pricing rows; nothing further to review")
			return nil
		}
	}

	return runPricingLoop(ctx, session, prompter, batchID)
}

// runAnalysis walks the selection and analysis stages until pricing rows
// exist or the user quits.
func runAnalysis(ctx context.Context, session *review.Session, prompter *cli.Prompter) error {
	ids, err := prompter.PromptSelection(ctx, session.Documents())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if err := session.Select(id); err != nil {
			return err
		}
	}

	if err := session.AnalyzeSelected(ctx); err != nil {
		return err
	}

	if session.Tracker().State() == analysis.StateProcessing {
		if err := prompter.WatchJob(ctx, session.Tracker().Done()); err != nil {
			return err
		}
		if err := session.WaitForAnalysis(ctx); err != nil {
			return err
		}
	}

	switch session.Tracker().State() {
	case analysis.StateFailed:
		prompter.Error("analysis failed for every selected document")
	case analysis.StatePartial:
		prompter.Error("analysis failed for some documents; the estimate covers the rest")
	}
	prompter.ShowActionableItems(session.Tracker().Results())
	return nil
}

func runPricingLoop(ctx context.Context, session *review.Session, prompter *cli.Prompter, batchID string) error {
	for {
		prompter.ShowPricing(session.Rows(), session.Totals())

		line, err := prompter.PromptCommand(ctx)
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "done", "q", "quit":
			return nil

		case "set":
			if len(fields) != 4 {
				prompter.Error("usage: set <row> pages|complexity|rate <value>")
				continue
			}
			if err := applyEdit(session, fields[1], fields[2], fields[3]); err != nil {
				prompter.Error(err.Error())
			}

		case "clear":
			if len(fields) != 2 {
				prompter.Error("usage: clear <row>")
				continue
			}
			analysisID, err := rowAnalysisID(session, fields[1])
			if err != nil {
				prompter.Error(err.Error())
				continue
			}
			if err := session.ClearRowOverride(analysisID); err != nil {
				prompter.Error(err.Error())
			}

		case "reanalyze":
			session.Reanalyze()
			if err := runAnalysis(ctx, session, prompter); err != nil {
				return err
			}
			if len(session.Rows()) == 0 {
				prompter.Info("no pricing rows; nothing further to review")
				return nil
			}

		case "pages":
			if len(fields) != 2 {
				prompter.Error("usage: pages <document>")
				continue
			}
			if err := showPages(ctx, session, prompter, fields[1]); err != nil {
				prompter.Error(err.Error())
			}

		case "export":
			format := "csv"
			if len(fields) > 1 {
				format = fields[1]
			}
			path, err := writeEstimate(session, batchID, format)
			if err != nil {
				prompter.Error(err.Error())
				continue
			}
			prompter.Success("wrote " + path)

		case "apply":
			record, err := session.Apply(ctx)
			if err != nil {
				prompter.Error(err.Error())
				continue
			}
			summary := record.Summary
			prompter.Success(fmt.Sprintf("estimate %s applied: %d pages, %d words, total %.2f",
				record.ID, summary.TotalPages, summary.TotalWords, record.Totals.EstimatedTotal))
			return nil

		default:
			prompter.Error(fmt.Sprintf("unknown command %q", fields[0]))
		}
	}
}

func applyEdit(session *review.Session, rowRef, field, value string) error {
	analysisID, err := rowAnalysisID(session, rowRef)
	if err != nil {
		return err
	}

	switch field {
	case "pages":
		return session.UpdateRow(analysisID, pricing.FieldBillablePages, value)
	case "complexity":
		return session.UpdateRow(analysisID, pricing.FieldComplexity, value)
	case "rate":
		return session.UpdateRow(analysisID, pricing.FieldBaseRate, value)
	default:
		return fmt.Errorf("unknown field %q (want pages, complexity or rate)", field)
	}
}

// showPages fetches and displays the per-page OCR detail for the document at
// the given table position.
func showPages(ctx context.Context, session *review.Session, prompter *cli.Prompter, ref string) error {
	documents := session.Documents()
	var index int
	if _, err := fmt.Sscanf(ref, "%d", &index); err != nil || index < 1 || index > len(documents) {
		return fmt.Errorf("invalid document number %q", ref)
	}
	doc := documents[index-1]

	var pages []model.PageRecord
	for _, fileID := range doc.MemberFileIDs {
		filePages, err := session.PageText(ctx, fileID)
		if err != nil {
			return err
		}
		pages = append(pages, filePages...)
	}

	prompter.ShowPages(doc.DisplayFilename, pages)
	return nil
}

func rowAnalysisID(session *review.Session, ref string) (string, error) {
	var index int
	if _, err := fmt.Sscanf(ref, "%d", &index); err != nil || index < 1 || index > len(session.Rows()) {
		return "", fmt.Errorf("invalid row number %q", ref)
	}
	return session.Rows()[index-1].AnalysisID, nil
}

func writeEstimate(session *review.Session, batchID, format string) (string, error) {
	switch format {
	case "csv":
		path := export.Filename(batchID, "csv")
		content := export.ToDelimitedText(session.Rows(), session.Totals())
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, nil

	case "xlsx":
		path := export.Filename(batchID, "xlsx")
		content, err := export.ToWorkbook(session.Rows(), session.Totals())
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, content, 0600); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, nil

	default:
		return "", fmt.Errorf("unknown format %q (want csv or xlsx)", format)
	}
}

// chainedConfig tries each pricing source in order, first success wins.
type chainedConfig []service.PricingConfigSource

func (c chainedConfig) FetchPricingConfig(ctx context.Context) (service.PricingConfig, error) {
	var lastErr error
	for _, source := range c {
		cfg, err := source.FetchPricingConfig(ctx)
		if err == nil {
			return cfg, nil
		}
		lastErr = err
	}
	return service.PricingConfig{}, lastErr
}
