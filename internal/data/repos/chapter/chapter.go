package chapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chapters []*domain.Chapter) ([]*domain.Chapter, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, chapterIDs []uuid.UUID) ([]*domain.Chapter, error)
	GetByNovelIDs(ctx context.Context, tx *gorm.DB, novelIDs []uuid.UUID) ([]*domain.Chapter, error)
	Publish(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, at time.Time) error
	LatestFeedRows(ctx context.Context, tx *gorm.DB, limit int) ([]domain.FeedRow, error)
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (cr *chapterRepo) Create(ctx context.Context, tx *gorm.DB, chapters []*domain.Chapter) ([]*domain.Chapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(chapters) == 0 {
		return []*domain.Chapter{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (cr *chapterRepo) GetByIDs(ctx context.Context, tx *gorm.DB, chapterIDs []uuid.UUID) ([]*domain.Chapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.Chapter
	if len(chapterIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", chapterIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *chapterRepo) GetByNovelIDs(ctx context.Context, tx *gorm.DB, novelIDs []uuid.UUID) ([]*domain.Chapter, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*domain.Chapter
	if len(novelIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("novel_id IN ?", novelIDs).
		Order("chapter_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *chapterRepo) Publish(ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if chapterID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Chapter{}).
		Where("id = ?", chapterID).
		Updates(map[string]interface{}{
			"status":       domain.ChapterStatusPublished,
			"published_at": at,
		}).Error; err != nil {
		return err
	}
	return nil
}

// LatestFeedRows returns up to limit published chapter rows, ordered by the
// owning novel's most recent chapter activity descending, then by chapter
// recency within the novel. The ordering is part of the contract: the feed
// builder relies on first-seen novel order.
func (cr *chapterRepo) LatestFeedRows(ctx context.Context, tx *gorm.DB, limit int) ([]domain.FeedRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var rows []domain.FeedRow
	if limit <= 0 {
		return rows, nil
	}

	if err := transaction.WithContext(ctx).Raw(`
		SELECT
			n.id          AS novel_id,
			n.title       AS novel_title,
			n.cover_image AS cover_image,
			COALESCE(u.username, '') AS author_username,
			c.id             AS chapter_id,
			c.title          AS chapter_title,
			c.chapter_number AS chapter_number,
			c.created_at     AS created_at,
			c.updated_at     AS updated_at
		FROM chapter c
		JOIN novel n ON n.id = c.novel_id AND n.deleted_at IS NULL
		LEFT JOIN "user" u ON u.id = n.author_id AND u.deleted_at IS NULL
		JOIN (
			SELECT novel_id, MAX(updated_at) AS last_update
			FROM chapter
			WHERE status = ? AND deleted_at IS NULL
			GROUP BY novel_id
		) recent ON recent.novel_id = c.novel_id
		WHERE c.status = ? AND c.deleted_at IS NULL
		ORDER BY recent.last_update DESC, c.updated_at DESC
		LIMIT ?
	`, domain.ChapterStatusPublished, domain.ChapterStatusPublished, limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
