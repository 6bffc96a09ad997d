package model

// AggregateStatus summarizes the OCR status of a logical document across all
// of its member files.
type AggregateStatus string

// Aggregate statuses for a logical document.
const (
	AggregateCompleted AggregateStatus = "completed"
	AggregateFailed    AggregateStatus = "failed"
	AggregatePartial   AggregateStatus = "partial"
)

// LogicalDocument is a derived, in-memory view of one document as the
// customer sees it: either a standalone file or the reassembly of a
// multi-chunk upload. It is recomputed on every grouping pass and never
// persisted.
type LogicalDocument struct {
	ID              string // id of the lowest-chunk-index member
	FileGroupID     string
	DisplayFilename string
	IsGrouped       bool
	MemberFileIDs   []string // ordered by chunk index ascending
	TotalPages      int
	TotalWords      int
	AggregateStatus AggregateStatus
}

// Selectable reports whether the document is eligible for AI analysis.
// Only fully completed documents may be analyzed.
func (d *LogicalDocument) Selectable() bool {
	return d.AggregateStatus == AggregateCompleted
}

// ContainsFile reports whether fileID is the document itself or one of its
// group members.
func (d *LogicalDocument) ContainsFile(fileID string) bool {
	if d.ID == fileID {
		return true
	}
	for _, id := range d.MemberFileIDs {
		if id == fileID {
			return true
		}
	}
	return false
}
