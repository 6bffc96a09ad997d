// Package analysis manages the lifecycle of asynchronous AI document
// analysis jobs: submission, polling to a terminal state, and teardown.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/linguaops/linguaflow/internal/common"
	"github.com/linguaops/linguaflow/internal/model"
	"github.com/linguaops/linguaflow/internal/service"
)

// State is the tracker's position in the job lifecycle.
type State string

// Tracker states. Completed, failed and partial mirror the terminal job
// statuses; partial means some documents succeeded and their results are
// usable.
const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StatePartial    State = "partial"
)

// DefaultPollInterval is the fixed delay between poll attempts.
const DefaultPollInterval = 10 * time.Second

// Tracker drives one analysis job at a time. A tracker is reusable: after
// Teardown it returns to idle and may submit again.
type Tracker struct {
	store    service.BatchStore
	interval time.Duration

	mu      sync.Mutex
	state   State
	job     *model.AnalysisJob
	results []model.AnalysisResult
	cancel  context.CancelFunc
	done    chan struct{}
	// generation fences late poll responses: a response applied after
	// Teardown would otherwise resurrect discarded state.
	generation int
}

// NewTracker creates a tracker polling at the default interval.
func NewTracker(store service.BatchStore) *Tracker {
	return NewTrackerWithInterval(store, DefaultPollInterval)
}

// NewTrackerWithInterval creates a tracker with a custom poll interval.
// Used by tests; production code keeps the 10 second default.
func NewTrackerWithInterval(store service.BatchStore, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tracker{
		store:    store,
		interval: interval,
		state:    StateIdle,
	}
}

// State returns the tracker's current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Job returns a copy of the tracked job, or nil before submission.
func (t *Tracker) Job() *model.AnalysisJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.job == nil {
		return nil
	}
	job := *t.job
	return &job
}

// Results returns the analysis results received so far. Pricing
// initialization must only consume them once Done has been signalled.
func (t *Tracker) Results() []model.AnalysisResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.AnalysisResult, len(t.results))
	copy(out, t.results)
	return out
}

// Done returns a channel closed when the current job reaches a terminal
// state. It returns nil if no job has been submitted.
func (t *Tracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Submit validates the selection and hands it to the document store. The
// selection must be non-empty and every document selectable, otherwise a
// ValidationError is returned and the tracker stays idle.
//
// A synchronous outcome moves the tracker straight to a terminal state; an
// asynchronous one starts the poll loop.
func (t *Tracker) Submit(ctx context.Context, batchID string, documents []model.LogicalDocument) error {
	t.mu.Lock()
	if t.state != StateIdle {
		t.mu.Unlock()
		return common.ErrTrackerActive
	}
	if len(documents) == 0 {
		t.mu.Unlock()
		return common.NewValidationError("cannot submit analysis", common.ErrEmptySelection)
	}
	for i := range documents {
		if !documents[i].Selectable() {
			t.mu.Unlock()
			return common.NewValidationError(
				fmt.Sprintf("document %s is not fully processed", documents[i].ID),
				common.ErrNotSelectable)
		}
	}

	t.state = StateSubmitting
	t.done = make(chan struct{})
	done := t.done
	generation := t.generation
	t.mu.Unlock()

	fileIDs := memberFileIDs(documents)
	slog.Info("Submitting analysis",
		"batch_id", batchID,
		"documents", len(documents),
		"files", len(fileIDs))

	outcome, err := t.store.SubmitAnalysis(ctx, batchID, fileIDs)
	if err != nil {
		t.mu.Lock()
		if t.generation == generation {
			t.state = StateIdle
			t.done = nil
		}
		t.mu.Unlock()
		return common.NewTransportError("submit analysis", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.generation != generation {
		// Torn down while the submission was in flight; discard.
		return nil
	}

	if outcome.Sync {
		t.job = outcome.Job
		t.results = outcome.Results
		t.state = terminalState(outcome.Job, outcome.Results)
		close(done)
		return nil
	}

	t.state = StateProcessing
	t.job = &model.AnalysisJob{
		ID:         outcome.JobID,
		Status:     model.JobProcessing,
		TotalFiles: len(fileIDs),
		StartedAt:  time.Now(),
	}

	pollCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	go t.pollLoop(pollCtx, outcome.JobID, generation, done)
	return nil
}

// Resume attaches the tracker to a job that is already running, e.g. one
// found by FetchExistingAnalysis when a batch review reopens.
func (t *Tracker) Resume(ctx context.Context, job *model.AnalysisJob, results []model.AnalysisResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateIdle || job == nil {
		return
	}

	t.job = job
	t.results = results
	t.done = make(chan struct{})

	if job.Status.Terminal() {
		t.state = terminalState(job, results)
		close(t.done)
		return
	}

	t.state = StateProcessing
	pollCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	go t.pollLoop(pollCtx, job.ID, t.generation, t.done)
}

// Teardown cancels any outstanding polling, discards in-flight results and
// returns the tracker to idle. It is idempotent and safe to call at any
// time; poll responses arriving afterwards are discarded.
func (t *Tracker) Teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.generation++
	t.state = StateIdle
	t.job = nil
	t.results = nil
	t.done = nil
}

// pollLoop polls the store at a fixed interval until the job is terminal or
// the context is canceled. Transport errors are swallowed; the next tick is
// the retry.
func (t *Tracker) pollLoop(ctx context.Context, jobID string, generation int, done chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		job, results, err := t.store.PollAnalysis(ctx, jobID)
		if err != nil {
			slog.Debug("Analysis poll failed, will retry",
				"job_id", jobID,
				"error", err)
			continue
		}

		if t.apply(job, results, generation, done) {
			return
		}
	}
}

// apply folds one poll response into the tracker. It reports whether the
// loop should stop, either because the job is terminal or because the
// tracker was torn down while the poll was in flight.
func (t *Tracker) apply(job *model.AnalysisJob, results []model.AnalysisResult, generation int, done chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.generation != generation {
		return true
	}
	if job == nil {
		return false
	}

	t.job = job
	if !job.Status.Terminal() {
		return false
	}

	t.results = results
	t.state = terminalState(job, results)
	t.cancel = nil
	close(done)

	slog.Info("Analysis job finished",
		"job_id", job.ID,
		"status", job.Status,
		"results", len(results))
	return true
}

// terminalState maps a finished job onto a tracker state, downgrading a
// completed job to partial when any per-document result failed.
func terminalState(job *model.AnalysisJob, results []model.AnalysisResult) State {
	status := model.JobCompleted
	if job != nil {
		status = job.Status
	}

	switch status {
	case model.JobFailed:
		return StateFailed
	case model.JobPartial:
		return StatePartial
	}

	for _, r := range results {
		if r.ProcessingStatus == model.ResultFailed {
			return StatePartial
		}
	}
	return StateCompleted
}

func memberFileIDs(documents []model.LogicalDocument) []string {
	ids := make([]string, 0, len(documents))
	for i := range documents {
		ids = append(ids, documents[i].MemberFileIDs...)
	}
	return ids
}
