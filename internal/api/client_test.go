package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key")
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient("", "key")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestFetchBatchFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/b1/files", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"files": [
			{"id": "f1", "filename": "passport.pdf", "status": "completed", "page_count": 2, "word_count": 300},
			{"id": "f2", "filename": "contract.part1.pdf", "status": "completed", "file_group_id": "g1", "original_filename": "contract.pdf", "chunk_index": 0}
		]}`))
	}))

	files, err := client.FetchBatchFiles(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, model.FileStatusCompleted, files[0].Status)
	assert.Equal(t, 300, files[0].WordCount)
	assert.Equal(t, "g1", files[1].FileGroupID)
	assert.Equal(t, "contract.pdf", files[1].OriginalFilename)
}

func TestFetchPages_NormalizesConfidence(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/f1/pages", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("include_text"))
		_, _ = w.Write([]byte(`{"pages": [
			{"page_number": 1, "word_count": 120, "confidence_score": 0.92, "raw_text": "REPUBLICA", "detected_language": "es"},
			{"page_number": 2, "word_count": 80, "confidence_score": 88.5}
		]}`))
	}))

	pages, err := client.FetchPages(context.Background(), "f1", true)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	require.NotNil(t, pages[0].ConfidenceScore)
	assert.InDelta(t, 92.0, *pages[0].ConfidenceScore, 1e-9)
	assert.Equal(t, "REPUBLICA", pages[0].RawText)
	require.NotNil(t, pages[1].ConfidenceScore)
	assert.InDelta(t, 88.5, *pages[1].ConfidenceScore, 1e-9)
	assert.Nil(t, pages[1].LanguageConfidence)
}

func TestFetchExistingAnalysis_NotFoundIsNotAnError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	job, results, err := client.FetchExistingAnalysis(context.Background(), "b1")
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.Empty(t, results)
}

func TestFetchExistingAnalysis(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/b1/analysis", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"job": {"id": "j1", "status": "completed", "total_files": 2},
			"results": [{"id": "a1", "file_id": "f1", "doc_type": "passport", "words": 300, "status": "completed"}]
		}`))
	}))

	job, results, err := client.FetchExistingAnalysis(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, model.JobCompleted, job.Status)
	require.Len(t, results, 1)
	assert.Equal(t, "a1", results[0].AnalysisID)
	assert.Equal(t, "f1", results[0].SourceFileID)
	assert.Equal(t, 300, results[0].WordCount)
}

func TestSubmitAnalysis(t *testing.T) {
	t.Run("deferred outcome carries the job id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/batches/b1/analysis", r.URL.Path)

			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"f1", "f2"}, body["file_ids"])

			_, _ = w.Write([]byte(`{"job_id": "j7"}`))
		}))

		outcome, err := client.SubmitAnalysis(context.Background(), "b1", []string{"f1", "f2"})
		require.NoError(t, err)
		assert.False(t, outcome.Sync)
		assert.Equal(t, "j7", outcome.JobID)
	})

	t.Run("inline outcome carries results", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"job": {"id": "j1", "status": "completed"},
				"results": [{"analysis_id": "a1", "source_file_id": "f1", "status": "completed"}]
			}`))
		}))

		outcome, err := client.SubmitAnalysis(context.Background(), "b1", []string{"f1"})
		require.NoError(t, err)
		assert.True(t, outcome.Sync)
		require.NotNil(t, outcome.Job)
		assert.Len(t, outcome.Results, 1)
	})
}

func TestPollAnalysis(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analysis/j1", r.URL.Path)
		_, _ = w.Write([]byte(`{"job": {"id": "j1", "status": "processing", "completed_files": 1, "total_files": 3}}`))
	}))

	job, results, err := client.PollAnalysis(context.Background(), "j1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, model.JobProcessing, job.Status)
	assert.Equal(t, 1, job.CompletedFiles)
	assert.Empty(t, results)
}

func TestPollAnalysis_UnknownJob(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, _, err := client.PollAnalysis(context.Background(), "gone")
	assert.ErrorIs(t, err, common.ErrJobNotFound)
}

func TestFetchPricingConfig(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/config/pricing", r.URL.Path)
		_, _ = w.Write([]byte(`{"base_rate": 70, "words_per_page": 250, "certification_unit_price": 45}`))
	}))

	cfg, err := client.FetchPricingConfig(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 70.0, cfg.BaseRate, 1e-9)
	assert.InDelta(t, 250.0, cfg.WordsPerPage, 1e-9)
	assert.InDelta(t, 45.0, cfg.CertificationUnitPrice, 1e-9)
}

func TestTransportErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))

	_, err := client.FetchBatchFiles(context.Background(), "b1")
	require.Error(t, err)
	var transportErr *common.TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.True(t, common.IsRetryable(err))
}
