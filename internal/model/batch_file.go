// Package model defines the domain types shared across the application.
package model

// FileStatus is the OCR processing status of a single uploaded file.
type FileStatus string

// File statuses reported by the OCR ingestion pipeline.
const (
	FileStatusPending    FileStatus = "pending"
	FileStatusProcessing FileStatus = "processing"
	FileStatusCompleted  FileStatus = "completed"
	FileStatusFailed     FileStatus = "failed"
)

// BatchFile is one uploaded file within a batch, as recorded by the OCR
// ingestion pipeline. Records are read-only here; the pipeline owns them.
type BatchFile struct {
	ID               string
	Filename         string
	Status           FileStatus
	PageCount        int
	WordCount        int
	FileSizeBytes    int64
	ErrorMessage     string
	FileGroupID      string // empty for standalone files
	OriginalFilename string // pre-split filename for chunked uploads
	ChunkIndex       int    // ordering key within a file group
}

// PageRecord is the OCR output for a single page of a BatchFile.
// ConfidenceScore and LanguageConfidence are normalized to the 0-100 range
// at the ingestion boundary.
type PageRecord struct {
	PageNumber         int
	WordCount          int
	ConfidenceScore    *float64
	RawText            string
	DetectedLanguage   string // ISO 639-1 code, empty when detection failed
	LanguageConfidence *float64
}
