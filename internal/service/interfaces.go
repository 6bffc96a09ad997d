// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/linguaops/linguaflow/internal/model"
)

// BatchStore is the remote document store that owns batch files, page text
// and analysis jobs. The wire format is its concern; this core consumes the
// shapes below.
type BatchStore interface {
	// FetchBatchFiles returns every file record in a batch.
	FetchBatchFiles(ctx context.Context, batchID string) ([]model.BatchFile, error)
	// FetchPages returns the per-page OCR records for one file. Page text is
	// only populated when includeText is set.
	FetchPages(ctx context.Context, fileID string, includeText bool) ([]model.PageRecord, error)
	// FetchExistingAnalysis returns the most recent analysis job for a batch,
	// if any, along with its results. A nil job means the batch has never
	// been analyzed.
	FetchExistingAnalysis(ctx context.Context, batchID string) (*model.AnalysisJob, []model.AnalysisResult, error)
	// SubmitAnalysis requests analysis of the selected files. The store may
	// execute inline and return results, or defer and return a job id.
	SubmitAnalysis(ctx context.Context, batchID string, fileIDs []string) (*SubmitOutcome, error)
	// PollAnalysis returns the current job state and any results so far.
	PollAnalysis(ctx context.Context, jobID string) (*model.AnalysisJob, []model.AnalysisResult, error)
}

// SubmitOutcome is the store's answer to an analysis submission. Synchronous
// execution carries the job and its results inline; deferred execution
// carries only the job id to poll.
type SubmitOutcome struct {
	Job     *model.AnalysisJob
	Results []model.AnalysisResult
	JobID   string
	Sync    bool
}

// PricingConfig holds the per-deployment pricing parameters.
type PricingConfig struct {
	BaseRate               float64
	WordsPerPage           float64
	CertificationUnitPrice float64
}

// PricingConfigSource supplies deployment pricing configuration. A failing
// source is not an error path for callers; they fall back to defaults.
type PricingConfigSource interface {
	FetchPricingConfig(ctx context.Context) (PricingConfig, error)
}

// EstimateRecord is one applied estimate persisted to local history.
type EstimateRecord struct {
	ID        string
	BatchID   string
	AppliedAt time.Time
	Rows      []model.PricingRow
	Totals    model.EstimateTotals
	Summary   model.BatchSummary
}

// EstimateStore persists applied estimates for later reference.
type EstimateStore interface {
	SaveEstimate(ctx context.Context, record *EstimateRecord) error
	ListEstimates(ctx context.Context, batchID string) ([]EstimateRecord, error)
	GetEstimate(ctx context.Context, id string) (*EstimateRecord, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
