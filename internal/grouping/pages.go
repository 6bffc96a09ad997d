package grouping

import "github.com/linguaops/linguaflow/internal/model"

// ConfidenceBand labels an average OCR confidence for display.
type ConfidenceBand string

// Confidence bands. Boundary values belong to the higher band.
const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// DominantLanguage returns the most frequent detected language across pages.
// The language with the strictly highest occurrence count wins; ties go to
// the language seen first in page order. The second return is false when no
// page has a detected language.
func DominantLanguage(pages []model.PageRecord) (string, bool) {
	counts := make(map[string]int)
	var seen []string

	for _, p := range pages {
		if p.DetectedLanguage == "" {
			continue
		}
		if _, ok := counts[p.DetectedLanguage]; !ok {
			seen = append(seen, p.DetectedLanguage)
		}
		counts[p.DetectedLanguage]++
	}

	if len(seen) == 0 {
		return "", false
	}

	best := seen[0]
	for _, lang := range seen[1:] {
		if counts[lang] > counts[best] {
			best = lang
		}
	}
	return best, true
}

// AverageConfidence returns the arithmetic mean of the non-nil confidence
// scores, or 0 when no page carries one.
func AverageConfidence(pages []model.PageRecord) float64 {
	var sum float64
	var n int
	for _, p := range pages {
		if p.ConfidenceScore == nil {
			continue
		}
		sum += *p.ConfidenceScore
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// BandFor maps an average confidence (0-100) to its display band.
func BandFor(score float64) ConfidenceBand {
	switch {
	case score >= 90:
		return ConfidenceHigh
	case score >= 70:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// NormalizeConfidence scales fractional confidence values (0-1 sources) to
// the 0-100 range used everywhere else. Applied once, at the ingestion
// boundary.
func NormalizeConfidence(score float64) float64 {
	if score <= 1.0 {
		return score * 100
	}
	return score
}

// TotalWords sums the per-page word counts.
func TotalWords(pages []model.PageRecord) int {
	var total int
	for _, p := range pages {
		total += p.WordCount
	}
	return total
}
