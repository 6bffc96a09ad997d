// Package grouping reconciles raw batch file records into logical documents
// and derives per-document rollups from page-level OCR output.
package grouping

import (
	"sort"

	"github.com/linguaops/linguaflow/internal/model"
)

// Group reconciles batch file records into logical documents, reassembling
// multi-chunk uploads. It is pure and deterministic: member ids are always
// ordered by chunk index ascending, and output documents appear in
// first-seen input order. Malformed input (negative counts, duplicate ids)
// is tolerated by best-effort summation rather than rejected.
func Group(files []model.BatchFile) []model.LogicalDocument {
	grouped := make(map[string][]model.BatchFile)
	order := make([]groupKey, 0, len(files))

	for _, f := range files {
		if f.FileGroupID == "" {
			order = append(order, groupKey{standalone: &f})
			continue
		}
		if _, seen := grouped[f.FileGroupID]; !seen {
			order = append(order, groupKey{groupID: f.FileGroupID})
		}
		grouped[f.FileGroupID] = append(grouped[f.FileGroupID], f)
	}

	docs := make([]model.LogicalDocument, 0, len(order))
	for _, key := range order {
		if key.standalone != nil {
			docs = append(docs, standaloneDocument(*key.standalone))
			continue
		}
		docs = append(docs, groupedDocument(key.groupID, grouped[key.groupID]))
	}
	return docs
}

type groupKey struct {
	standalone *model.BatchFile
	groupID    string
}

func standaloneDocument(f model.BatchFile) model.LogicalDocument {
	doc := model.LogicalDocument{
		ID:              f.ID,
		DisplayFilename: f.Filename,
		MemberFileIDs:   []string{f.ID},
		AggregateStatus: aggregateStatus([]model.BatchFile{f}),
	}
	if f.Status == model.FileStatusCompleted {
		doc.TotalPages = f.PageCount
		doc.TotalWords = f.WordCount
	}
	return doc
}

func groupedDocument(groupID string, members []model.BatchFile) model.LogicalDocument {
	// Stable sort keeps the original order for equal chunk indexes, which
	// keeps the output deterministic even for malformed groups.
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].ChunkIndex < members[j].ChunkIndex
	})

	representative := members[0]
	doc := model.LogicalDocument{
		ID:              representative.ID,
		FileGroupID:     groupID,
		DisplayFilename: displayFilename(members),
		IsGrouped:       true,
		MemberFileIDs:   make([]string, 0, len(members)),
		AggregateStatus: aggregateStatus(members),
	}

	for _, m := range members {
		doc.MemberFileIDs = append(doc.MemberFileIDs, m.ID)
		if m.Status == model.FileStatusCompleted {
			doc.TotalPages += m.PageCount
			doc.TotalWords += m.WordCount
		}
	}
	return doc
}

// displayFilename prefers the pre-split original filename recorded on any
// member, falling back to the representative's own filename.
func displayFilename(members []model.BatchFile) string {
	for _, m := range members {
		if m.OriginalFilename != "" {
			return m.OriginalFilename
		}
	}
	return members[0].Filename
}

func aggregateStatus(members []model.BatchFile) model.AggregateStatus {
	allCompleted := true
	allFailed := true
	for _, m := range members {
		if m.Status != model.FileStatusCompleted {
			allCompleted = false
		}
		if m.Status != model.FileStatusFailed {
			allFailed = false
		}
	}

	switch {
	case allCompleted:
		return model.AggregateCompleted
	case allFailed:
		return model.AggregateFailed
	default:
		return model.AggregatePartial
	}
}
