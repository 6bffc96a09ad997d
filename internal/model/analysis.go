package model

import "time"

// JobStatus is the lifecycle status of an AI analysis job.
type JobStatus string

// Analysis job statuses. Completed, failed and partial are terminal.
const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobPartial    JobStatus = "partial"
)

// Terminal reports whether no further automatic transition can occur.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobPartial
}

// AnalysisJob tracks one AI document-analysis run over a set of files.
type AnalysisJob struct {
	ID                  string
	Status              JobStatus
	TotalFiles          int
	CompletedFiles      int
	FailedFiles         int
	TotalDocumentsFound int
	StartedAt           time.Time
	CompletedAt         *time.Time
}

// Complexity is the translation difficulty label assigned by the analysis
// model.
type Complexity string

// Complexity labels.
const (
	ComplexityEasy   Complexity = "easy"
	ComplexityMedium Complexity = "medium"
	ComplexityHard   Complexity = "hard"
)

// ResultStatus is the per-document outcome within an analysis job.
type ResultStatus string

// Per-document processing statuses.
const (
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
)

// SubDocument describes one sub-document detected inside an analyzed file,
// e.g. two birth certificates scanned into a single upload.
type SubDocument struct {
	Type       string
	HolderName string
	PageRange  string
	Language   string
}

// ActionableItemKind classifies an actionable item surfaced by the model.
type ActionableItemKind string

// Actionable item kinds.
const (
	ItemWarning    ActionableItemKind = "warning"
	ItemNote       ActionableItemKind = "note"
	ItemSuggestion ActionableItemKind = "suggestion"
)

// ActionableItem is a human-readable flag attached to an analysis result.
type ActionableItem struct {
	Kind    ActionableItemKind
	Message string
}

// AnalysisResult is the normalized AI output for one analyzed document.
// Collaborator payloads are normalized into this shape at the ingestion
// boundary; downstream code never sees alternate field spellings.
type AnalysisResult struct {
	AnalysisID             string
	SourceFileID           string
	DocumentType           string
	DocumentTypeConfidence float64 // 0-1
	Language               string
	IssuingCountry         string
	WordCount              int
	PageCount              int
	BillablePages          float64 // system suggestion
	Complexity             Complexity
	ComplexityConfidence   float64
	DocumentCount          int // >1 signals multiple sub-documents
	SubDocuments           []SubDocument
	ActionableItems        []ActionableItem
	ProcessingStatus       ResultStatus
	ErrorMessage           string
}
