package services

import (
	"math"
	"sort"

	"github.com/moonquill/moonquill-backend/internal/domain"
)

// percentComplete computes how far through a novel the target chapter sits:
// position of the target within the published chapters (ordered by chapter
// number ascending) over the published count, as a percentage rounded half
// away from zero. Returns 0 when the target is nil, unpublished, not part of
// the set, or when no chapter is published. Always in [0, 100].
func percentComplete(target *domain.Chapter, chapters []*domain.Chapter) int {
	if target == nil {
		return 0
	}

	published := make([]*domain.Chapter, 0, len(chapters))
	for _, c := range chapters {
		if c != nil && c.Status == domain.ChapterStatusPublished {
			published = append(published, c)
		}
	}
	if len(published) == 0 {
		return 0
	}
	sort.Slice(published, func(i, j int) bool {
		return published[i].ChapterNumber < published[j].ChapterNumber
	})

	index := -1
	for i, c := range published {
		if c.ID == target.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return 0
	}

	return int(math.Round(float64(index+1) / float64(len(published)) * 100))
}
