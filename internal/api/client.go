// Package api implements the BatchStore contract against the document
// store's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/linguaops/linguaflow/internal/analysis"
	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/grouping"
	"github.com/linguaops/linguaflow/internal/model"
	"github.com/linguaops/linguaflow/internal/service"
)

// Client talks to the document store over HTTP. It implements both the
// BatchStore and PricingConfigSource interfaces.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new document store client.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: document store URL is required", common.ErrInvalidConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid document store URL: %v", common.ErrInvalidConfig, err)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type batchFilesResponse struct {
	Files []wireFile `json:"files"`
}

type wireFile struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	Status           string `json:"status"`
	PageCount        int    `json:"page_count"`
	WordCount        int    `json:"word_count"`
	FileSizeBytes    int64  `json:"file_size_bytes"`
	ErrorMessage     string `json:"error_message"`
	FileGroupID      string `json:"file_group_id"`
	OriginalFilename string `json:"original_filename"`
	ChunkIndex       int    `json:"chunk_index"`
}

// FetchBatchFiles returns every file record in a batch.
func (c *Client) FetchBatchFiles(ctx context.Context, batchID string) ([]model.BatchFile, error) {
	var resp batchFilesResponse
	if err := c.get(ctx, fmt.Sprintf("/batches/%s/files", url.PathEscape(batchID)), &resp); err != nil {
		return nil, err
	}

	files := make([]model.BatchFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, model.BatchFile{
			ID:               f.ID,
			Filename:         f.Filename,
			Status:           model.FileStatus(f.Status),
			PageCount:        f.PageCount,
			WordCount:        f.WordCount,
			FileSizeBytes:    f.FileSizeBytes,
			ErrorMessage:     f.ErrorMessage,
			FileGroupID:      f.FileGroupID,
			OriginalFilename: f.OriginalFilename,
			ChunkIndex:       f.ChunkIndex,
		})
	}
	return files, nil
}

type pagesResponse struct {
	Pages []wirePage `json:"pages"`
}

type wirePage struct {
	PageNumber         int      `json:"page_number"`
	WordCount          int      `json:"word_count"`
	ConfidenceScore    *float64 `json:"confidence_score"`
	RawText            string   `json:"raw_text"`
	DetectedLanguage   string   `json:"detected_language"`
	LanguageConfidence *float64 `json:"language_confidence"`
}

// FetchPages returns the per-page OCR records for one file. Confidence
// scores are normalized to 0-100 here, at the boundary.
func (c *Client) FetchPages(ctx context.Context, fileID string, includeText bool) ([]model.PageRecord, error) {
	path := fmt.Sprintf("/files/%s/pages", url.PathEscape(fileID))
	if includeText {
		path += "?include_text=true"
	}

	var resp pagesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}

	pages := make([]model.PageRecord, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		page := model.PageRecord{
			PageNumber:       p.PageNumber,
			WordCount:        p.WordCount,
			RawText:          p.RawText,
			DetectedLanguage: p.DetectedLanguage,
		}
		if p.ConfidenceScore != nil {
			normalized := grouping.NormalizeConfidence(*p.ConfidenceScore)
			page.ConfidenceScore = &normalized
		}
		if p.LanguageConfidence != nil {
			normalized := grouping.NormalizeConfidence(*p.LanguageConfidence)
			page.LanguageConfidence = &normalized
		}
		pages = append(pages, page)
	}
	return pages, nil
}

type analysisResponse struct {
	Job     *wireJob             `json:"job"`
	Results []analysis.RawResult `json:"results"`
	JobID   string               `json:"job_id"`
}

type wireJob struct {
	ID                  string     `json:"id"`
	Status              string     `json:"status"`
	TotalFiles          int        `json:"total_files"`
	CompletedFiles      int        `json:"completed_files"`
	FailedFiles         int        `json:"failed_files"`
	TotalDocumentsFound int        `json:"total_documents_found"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at"`
}

func (j *wireJob) toModel() *model.AnalysisJob {
	if j == nil {
		return nil
	}
	return &model.AnalysisJob{
		ID:                  j.ID,
		Status:              model.JobStatus(j.Status),
		TotalFiles:          j.TotalFiles,
		CompletedFiles:      j.CompletedFiles,
		FailedFiles:         j.FailedFiles,
		TotalDocumentsFound: j.TotalDocumentsFound,
		StartedAt:           j.StartedAt,
		CompletedAt:         j.CompletedAt,
	}
}

// FetchExistingAnalysis returns the most recent analysis job for a batch.
// A 404 means the batch has never been analyzed; that is not an error.
func (c *Client) FetchExistingAnalysis(ctx context.Context, batchID string) (*model.AnalysisJob, []model.AnalysisResult, error) {
	var resp analysisResponse
	err := c.get(ctx, fmt.Sprintf("/batches/%s/analysis", url.PathEscape(batchID)), &resp)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return resp.Job.toModel(), analysis.NormalizeAll(resp.Results), nil
}

// SubmitAnalysis requests analysis of the selected files. The store either
// executes inline and returns results, or defers and returns a job id.
func (c *Client) SubmitAnalysis(ctx context.Context, batchID string, fileIDs []string) (*service.SubmitOutcome, error) {
	body := map[string]any{"file_ids": fileIDs}

	var resp analysisResponse
	if err := c.post(ctx, fmt.Sprintf("/batches/%s/analysis", url.PathEscape(batchID)), body, &resp); err != nil {
		return nil, err
	}

	if resp.JobID != "" && resp.Job == nil {
		return &service.SubmitOutcome{JobID: resp.JobID}, nil
	}
	return &service.SubmitOutcome{
		Sync:    true,
		Job:     resp.Job.toModel(),
		Results: analysis.NormalizeAll(resp.Results),
	}, nil
}

// PollAnalysis returns the current state of a deferred job.
func (c *Client) PollAnalysis(ctx context.Context, jobID string) (*model.AnalysisJob, []model.AnalysisResult, error) {
	var resp analysisResponse
	if err := c.get(ctx, fmt.Sprintf("/analysis/%s", url.PathEscape(jobID)), &resp); err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf("%w: %s", common.ErrJobNotFound, jobID)
		}
		return nil, nil, err
	}
	return resp.Job.toModel(), analysis.NormalizeAll(resp.Results), nil
}

type pricingConfigResponse struct {
	BaseRate               float64 `json:"base_rate"`
	WordsPerPage           float64 `json:"words_per_page"`
	CertificationUnitPrice float64 `json:"certification_unit_price"`
}

// FetchPricingConfig returns the deployment pricing parameters. Callers
// fall back to defaults when this fails.
func (c *Client) FetchPricingConfig(ctx context.Context) (service.PricingConfig, error) {
	var resp pricingConfigResponse
	if err := c.get(ctx, "/config/pricing", &resp); err != nil {
		return service.PricingConfig{}, err
	}
	return service.PricingConfig{
		BaseRate:               resp.BaseRate,
		WordsPerPage:           resp.WordsPerPage,
		CertificationUnitPrice: resp.CertificationUnitPrice,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.NewTransportError(method+" "+path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return notFoundError{path: path}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return common.NewTransportError(method+" "+path,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.NewTransportError(method+" "+path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

type notFoundError struct {
	path string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.path)
}

func isNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}
