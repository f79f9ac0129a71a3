package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// UnknownAuthor is the sentinel shown when the author identity cannot be
// resolved. Never empty, never an error.
const UnknownAuthor = "Unknown Author"

type NovelSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	CoverImage string    `json:"cover_image,omitempty"`
}

type ChapterSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ChapterNumber int       `json:"chapter_number"`
	Status        string    `json:"status"`
}

// EnrichedProgress is a ReadingProgress joined with its novel (author name
// resolved) and chapter.
type EnrichedProgress struct {
	ReadingProgress
	Novel   *NovelSummary   `json:"novel"`
	Chapter *ChapterSummary `json:"chapter"`
}

// ProgressResult is the outcome of enriching one record: either Enriched is
// set, or Fallback carries the original record with Reason explaining the
// degradation. Exactly one of the two is non-nil.
type ProgressResult struct {
	Enriched *EnrichedProgress
	Fallback *ReadingProgress
	Reason   string
}

func (r ProgressResult) Degraded() bool { return r.Fallback != nil }

// MarshalJSON renders the enriched shape when available and the raw record
// otherwise, so callers see the record either way.
func (r ProgressResult) MarshalJSON() ([]byte, error) {
	if r.Enriched != nil {
		return json.Marshal(r.Enriched)
	}
	return json.Marshal(r.Fallback)
}
