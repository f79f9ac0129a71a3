package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedRow is one flat row of the latest-updates query: a recently updated
// published chapter with its novel and author denormalized in. Rows arrive
// pre-ordered by the owning novel's most recent chapter activity, descending.
type FeedRow struct {
	NovelID        uuid.UUID `gorm:"column:novel_id"`
	NovelTitle     string    `gorm:"column:novel_title"`
	CoverImage     string    `gorm:"column:cover_image"`
	AuthorUsername string    `gorm:"column:author_username"`

	ChapterID     uuid.UUID `gorm:"column:chapter_id"`
	ChapterTitle  string    `gorm:"column:chapter_title"`
	ChapterNumber int       `gorm:"column:chapter_number"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// FeedWork is the novel summary carried by a feed entry. Field names follow
// the public API contract, which predates this service.
type FeedWork struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	AuthorUsername string    `json:"authorUsername"`
	CoverImage     string    `json:"coverImage"`
}

type FeedChapter struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ChapterNumber int       `json:"chapterNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FeedEntry groups every chapter of one novel present in a feed batch,
// newest chapter number first.
type FeedEntry struct {
	Work     FeedWork      `json:"work"`
	Chapters []FeedChapter `json:"chapters"`
}
