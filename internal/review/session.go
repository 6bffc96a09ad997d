// Package review orchestrates one batch-review session: grouping, document
// selection, analysis tracking and pricing, from batch open to quote
// handoff. Session state is in-memory only and discarded on close.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/linguaops/linguaflow/internal/analysis"
	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/grouping"
	"github.com/linguaops/linguaflow/internal/model"
	"github.com/linguaops/linguaflow/internal/pricing"
	"github.com/linguaops/linguaflow/internal/service"
)

// Session owns the working state for one open batch review. It is not safe
// for concurrent use; callers drive it from a single goroutine, matching
// the event-driven UI it backs.
type Session struct {
	store     service.BatchStore
	estimates service.EstimateStore
	cfgSource service.PricingConfigSource
	tracker   *analysis.Tracker
	cache     *pageCache

	batchID   string
	cfg       service.PricingConfig
	documents []model.LogicalDocument
	selection map[string]bool
	rows      []model.PricingRow
	totals    model.EstimateTotals
}

// Options configures a review session.
type Options struct {
	ConfigSource service.PricingConfigSource
	Estimates    service.EstimateStore
	PollInterval time.Duration
}

// NewSession creates a session for the given store. The estimate store and
// config source are optional.
func NewSession(store service.BatchStore, opts Options) *Session {
	return &Session{
		store:     store,
		estimates: opts.Estimates,
		cfgSource: opts.ConfigSource,
		tracker:   analysis.NewTrackerWithInterval(store, opts.PollInterval),
		cache:     newPageCache(),
		cfg:       pricing.DefaultConfig(),
		selection: make(map[string]bool),
	}
}

// Open loads a batch: fetches its files, groups them into logical
// documents, loads pricing configuration and attaches to any pre-existing
// analysis job. A failing config source falls back to defaults and never
// blocks the workflow.
func (s *Session) Open(ctx context.Context, batchID string) error {
	files, err := s.store.FetchBatchFiles(ctx, batchID)
	if err != nil {
		return common.NewTransportError("fetch batch files", err)
	}

	s.batchID = batchID
	s.documents = grouping.Group(files)
	s.cfg = pricing.LoadConfig(ctx, s.cfgSource)
	s.selection = make(map[string]bool)
	s.rows = nil
	s.totals = model.EstimateTotals{}

	slog.Info("Batch opened",
		"batch_id", batchID,
		"files", len(files),
		"documents", len(s.documents))

	job, results, err := s.store.FetchExistingAnalysis(ctx, batchID)
	if err != nil {
		// Prior analysis is a convenience; the review proceeds without it.
		slog.Warn("Failed to fetch existing analysis", "batch_id", batchID, "error", err)
		return nil
	}
	if job != nil {
		s.tracker.Resume(ctx, job, results)
		if s.tracker.State() != analysis.StateProcessing {
			s.initRows()
		}
	}
	return nil
}

// Documents returns the logical documents of the open batch.
func (s *Session) Documents() []model.LogicalDocument {
	return s.documents
}

// Config returns the pricing configuration in effect.
func (s *Session) Config() service.PricingConfig {
	return s.cfg
}

// Tracker exposes the analysis tracker for state display.
func (s *Session) Tracker() *analysis.Tracker {
	return s.tracker
}

// Select marks a document for analysis. Only selectable (fully completed)
// documents may join the selection.
func (s *Session) Select(documentID string) error {
	doc := s.document(documentID)
	if doc == nil {
		return common.NewValidationError(
			fmt.Sprintf("document %s not in batch", documentID), common.ErrUnknownDocument)
	}
	if !doc.Selectable() {
		return common.NewValidationError(
			fmt.Sprintf("document %s is not fully processed", documentID), common.ErrNotSelectable)
	}
	s.selection[documentID] = true
	return nil
}

// Deselect removes a document from the selection.
func (s *Session) Deselect(documentID string) {
	delete(s.selection, documentID)
}

// SelectAll selects every selectable document.
func (s *Session) SelectAll() {
	for i := range s.documents {
		if s.documents[i].Selectable() {
			s.selection[s.documents[i].ID] = true
		}
	}
}

// Selection returns the selected document ids in stable order.
func (s *Session) Selection() []string {
	ids := make([]string, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AnalyzeSelected submits the current selection for analysis. On a
// synchronous outcome the pricing rows are initialized immediately;
// otherwise WaitForAnalysis observes the polling job.
func (s *Session) AnalyzeSelected(ctx context.Context) error {
	selected := make([]model.LogicalDocument, 0, len(s.selection))
	for i := range s.documents {
		if s.selection[s.documents[i].ID] {
			selected = append(selected, s.documents[i])
		}
	}

	if err := s.tracker.Submit(ctx, s.batchID, selected); err != nil {
		return err
	}

	if s.tracker.State() != analysis.StateProcessing {
		s.initRows()
	}
	return nil
}

// WaitForAnalysis blocks until the running job reaches a terminal state,
// then initializes the pricing rows. Rows stay empty while the job is
// processing; partial initialization from an unfinished job never happens.
func (s *Session) WaitForAnalysis(ctx context.Context) error {
	done := s.tracker.Done()
	if done == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}
	s.initRows()
	return nil
}

// Reanalyze returns the session to the selection stage, re-selecting the
// documents behind the previous results. Result source files match a
// document either by its id or by membership in its file group.
func (s *Session) Reanalyze() {
	previous := s.tracker.Results()
	s.tracker.Teardown()
	s.rows = nil
	s.totals = model.EstimateTotals{}
	s.selection = make(map[string]bool)

	for _, result := range previous {
		for i := range s.documents {
			doc := &s.documents[i]
			if doc.ContainsFile(result.SourceFileID) && doc.Selectable() {
				s.selection[doc.ID] = true
				break
			}
		}
	}
}

// Rows returns the current pricing rows.
func (s *Session) Rows() []model.PricingRow {
	return s.rows
}

// Totals returns the current estimate totals.
func (s *Session) Totals() model.EstimateTotals {
	return s.totals
}

// UpdateRow applies a staff edit to the row for analysisID and recomputes
// the totals.
func (s *Session) UpdateRow(analysisID string, field pricing.Field, value string) error {
	for i := range s.rows {
		if s.rows[i].AnalysisID == analysisID {
			pricing.UpdateRow(&s.rows[i], field, value, s.cfg)
			s.totals = pricing.RecomputeTotals(s.rows, s.cfg)
			return nil
		}
	}
	return common.NewValidationError(
		fmt.Sprintf("no pricing row for analysis %s", analysisID), common.ErrNotFound)
}

// ClearRowOverride discards a manual billable-pages edit on the row for
// analysisID, re-deriving the value from word count and complexity.
func (s *Session) ClearRowOverride(analysisID string) error {
	for i := range s.rows {
		if s.rows[i].AnalysisID == analysisID {
			pricing.ClearPageOverride(&s.rows[i], s.cfg)
			s.totals = pricing.RecomputeTotals(s.rows, s.cfg)
			return nil
		}
	}
	return common.NewValidationError(
		fmt.Sprintf("no pricing row for analysis %s", analysisID), common.ErrNotFound)
}

// PageText returns the page records (with text) for a file, fetched lazily
// and cached for the session. Confidence scores are normalized to 0-100 on
// the way in.
func (s *Session) PageText(ctx context.Context, fileID string) ([]model.PageRecord, error) {
	return s.cache.get(ctx, fileID, func(ctx context.Context, id string) ([]model.PageRecord, error) {
		pages, err := s.store.FetchPages(ctx, id, true)
		if err != nil {
			return nil, common.NewTransportError("fetch pages", err)
		}
		for i := range pages {
			if pages[i].ConfidenceScore != nil {
				normalized := grouping.NormalizeConfidence(*pages[i].ConfidenceScore)
				pages[i].ConfidenceScore = &normalized
			}
			if pages[i].LanguageConfidence != nil {
				normalized := grouping.NormalizeConfidence(*pages[i].LanguageConfidence)
				pages[i].LanguageConfidence = &normalized
			}
		}
		return pages, nil
	})
}

// Summary derives the simple handoff shape consumed by quote creation.
func (s *Session) Summary() model.BatchSummary {
	var summary model.BatchSummary
	for i := range s.documents {
		summary.TotalPages += s.documents[i].TotalPages
		summary.TotalWords += s.documents[i].TotalWords
	}
	summary.PrimaryLanguage = primaryLanguage(s.tracker.Results())
	return summary
}

// Apply hands the estimate off to quote creation and records it in local
// history when an estimate store is configured.
func (s *Session) Apply(ctx context.Context) (*service.EstimateRecord, error) {
	if len(s.rows) == 0 {
		return nil, common.NewValidationError("nothing to apply", common.ErrNotFound)
	}

	record := &service.EstimateRecord{
		ID:        uuid.NewString(),
		BatchID:   s.batchID,
		AppliedAt: time.Now().UTC(),
		Rows:      s.rows,
		Totals:    s.totals,
		Summary:   s.Summary(),
	}

	if s.estimates != nil {
		if err := s.estimates.SaveEstimate(ctx, record); err != nil {
			return nil, fmt.Errorf("save estimate: %w", err)
		}
	}
	return record, nil
}

// Close tears down the session: polling stops and in-memory state is
// discarded. Safe to call more than once.
func (s *Session) Close() {
	s.tracker.Teardown()
	s.rows = nil
	s.totals = model.EstimateTotals{}
	s.selection = make(map[string]bool)
}

func (s *Session) initRows() {
	results := s.tracker.Results()
	s.rows = pricing.NewRows(results, s.cfg)
	for i := range s.rows {
		if doc := s.documentForFile(rowSourceFile(results, s.rows[i].AnalysisID)); doc != nil {
			s.rows[i].Filename = doc.DisplayFilename
		}
	}
	s.totals = pricing.RecomputeTotals(s.rows, s.cfg)

	slog.Info("Pricing rows initialized",
		"batch_id", s.batchID,
		"rows", len(s.rows),
		"estimated_total", s.totals.EstimatedTotal)
}

func (s *Session) document(id string) *model.LogicalDocument {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return &s.documents[i]
		}
	}
	return nil
}

func (s *Session) documentForFile(fileID string) *model.LogicalDocument {
	if fileID == "" {
		return nil
	}
	for i := range s.documents {
		if s.documents[i].ContainsFile(fileID) {
			return &s.documents[i]
		}
	}
	return nil
}

func rowSourceFile(results []model.AnalysisResult, analysisID string) string {
	for _, r := range results {
		if r.AnalysisID == analysisID {
			return r.SourceFileID
		}
	}
	return ""
}

// primaryLanguage picks the most frequent result language, first seen
// winning ties, mirroring the per-page dominant language rule.
func primaryLanguage(results []model.AnalysisResult) string {
	counts := make(map[string]int)
	var seen []string
	for _, r := range results {
		if r.Language == "" {
			continue
		}
		if _, ok := counts[r.Language]; !ok {
			seen = append(seen, r.Language)
		}
		counts[r.Language]++
	}
	if len(seen) == 0 {
		return ""
	}
	best := seen[0]
	for _, lang := range seen[1:] {
		if counts[lang] > counts[best] {
			best = lang
		}
	}
	return best
}
