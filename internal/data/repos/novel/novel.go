package novel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

type NovelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, novels []*domain.Novel) ([]*domain.Novel, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, novelIDs []uuid.UUID) ([]*domain.Novel, error)
	GetByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) ([]*domain.Novel, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*domain.Novel, error)
	UpdateCoverImage(ctx context.Context, tx *gorm.DB, novelID uuid.UUID, coverImage string) error
}

type novelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNovelRepo(db *gorm.DB, baseLog *logger.Logger) NovelRepo {
	return &novelRepo{db: db, log: baseLog.With("repo", "NovelRepo")}
}

func (nr *novelRepo) Create(ctx context.Context, tx *gorm.DB, novels []*domain.Novel) ([]*domain.Novel, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(novels) == 0 {
		return []*domain.Novel{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&novels).Error; err != nil {
		return nil, err
	}
	return novels, nil
}

func (nr *novelRepo) GetByIDs(ctx context.Context, tx *gorm.DB, novelIDs []uuid.UUID) ([]*domain.Novel, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*domain.Novel
	if len(novelIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", novelIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *novelRepo) GetByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) ([]*domain.Novel, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*domain.Novel
	if len(authorIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *novelRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*domain.Novel, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*domain.Novel
	query := transaction.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *novelRepo) UpdateCoverImage(ctx context.Context, tx *gorm.DB, novelID uuid.UUID, coverImage string) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if novelID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Novel{}).
		Where("id = ?", novelID).
		Update("cover_image", coverImage).Error; err != nil {
		return err
	}
	return nil
}
