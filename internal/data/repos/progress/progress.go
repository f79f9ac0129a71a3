package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type ProgressRepo interface {
	// RecentlyRead returns the user's progress records, most recently touched
	// first. limit <= 0 means no limit.
	RecentlyRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*domain.ReadingProgress, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.ReadingProgress) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (pr *progressRepo) RecentlyRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*domain.ReadingProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*domain.ReadingProgress
	if userID == uuid.Nil {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *progressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.ReadingProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if row == nil {
		return nil
	}

	// Upsert by unique user_id + novel_id
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", row.UserID, row.NovelID).
		Assign(row).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (pr *progressRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&domain.ReadingProgress{}).Error; err != nil {
		return err
	}
	return nil
}
