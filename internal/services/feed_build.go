package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/moonquill/moonquill-backend/internal/domain"
)

// buildFeed folds a flat batch of feed rows into one entry per novel. Entry
// order is the first-occurrence order of the novel in the batch, not a re-sort
// by any entry field; within an entry, chapters are every row of the batch for
// that novel, highest chapter number first. Single pass over the rows, no I/O.
func buildFeed(rows []domain.FeedRow) []domain.FeedEntry {
	if len(rows) == 0 {
		return []domain.FeedEntry{}
	}

	firstSeen := make([]uuid.UUID, 0, len(rows))
	groups := make(map[uuid.UUID]*domain.FeedEntry, len(rows))

	for _, row := range rows {
		entry, ok := groups[row.NovelID]
		if !ok {
			entry = &domain.FeedEntry{
				Work: domain.FeedWork{
					ID:             row.NovelID,
					Title:          row.NovelTitle,
					AuthorUsername: row.AuthorUsername,
					CoverImage:     row.CoverImage,
				},
				Chapters: make([]domain.FeedChapter, 0, 4),
			}
			groups[row.NovelID] = entry
			firstSeen = append(firstSeen, row.NovelID)
		}
		entry.Chapters = append(entry.Chapters, domain.FeedChapter{
			ID:            row.ChapterID,
			Title:         row.ChapterTitle,
			ChapterNumber: row.ChapterNumber,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		})
	}

	out := make([]domain.FeedEntry, 0, len(firstSeen))
	for _, novelID := range firstSeen {
		entry := groups[novelID]
		sort.SliceStable(entry.Chapters, func(i, j int) bool {
			return entry.Chapters[i].ChapterNumber > entry.Chapters[j].ChapterNumber
		})
		out = append(out, *entry)
	}
	return out
}
