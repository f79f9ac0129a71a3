package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

func testLogger(t interface{ Fatalf(string, ...any) }) *logger.Logger {
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type fakeNovelRepo struct {
	createFn      func(ctx context.Context, novels []*domain.Novel) ([]*domain.Novel, error)
	getByIDsFn    func(ctx context.Context, ids []uuid.UUID) ([]*domain.Novel, error)
	byAuthorsFn   func(ctx context.Context, authorIDs []uuid.UUID) ([]*domain.Novel, error)
	listFn        func(ctx context.Context, limit, offset int) ([]*domain.Novel, error)
	updateCoverFn func(ctx context.Context, novelID uuid.UUID, coverImage string) error
}

func (f *fakeNovelRepo) Create(ctx context.Context, _ *gorm.DB, novels []*domain.Novel) ([]*domain.Novel, error) {
	if f.createFn != nil {
		return f.createFn(ctx, novels)
	}
	return novels, nil
}

func (f *fakeNovelRepo) GetByIDs(ctx context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.Novel, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeNovelRepo) GetByAuthorIDs(ctx context.Context, _ *gorm.DB, authorIDs []uuid.UUID) ([]*domain.Novel, error) {
	if f.byAuthorsFn != nil {
		return f.byAuthorsFn(ctx, authorIDs)
	}
	return nil, nil
}

func (f *fakeNovelRepo) List(ctx context.Context, _ *gorm.DB, limit, offset int) ([]*domain.Novel, error) {
	if f.listFn != nil {
		return f.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (f *fakeNovelRepo) UpdateCoverImage(ctx context.Context, _ *gorm.DB, novelID uuid.UUID, coverImage string) error {
	if f.updateCoverFn != nil {
		return f.updateCoverFn(ctx, novelID, coverImage)
	}
	return nil
}

type fakeChapterRepo struct {
	createFn        func(ctx context.Context, chapters []*domain.Chapter) ([]*domain.Chapter, error)
	getByIDsFn      func(ctx context.Context, ids []uuid.UUID) ([]*domain.Chapter, error)
	getByNovelIDsFn func(ctx context.Context, novelIDs []uuid.UUID) ([]*domain.Chapter, error)
	publishFn       func(ctx context.Context, chapterID uuid.UUID, at time.Time) error
	latestFeedFn    func(ctx context.Context, limit int) ([]domain.FeedRow, error)
}

func (f *fakeChapterRepo) Create(ctx context.Context, _ *gorm.DB, chapters []*domain.Chapter) ([]*domain.Chapter, error) {
	if f.createFn != nil {
		return f.createFn(ctx, chapters)
	}
	return chapters, nil
}

func (f *fakeChapterRepo) GetByIDs(ctx context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.Chapter, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeChapterRepo) GetByNovelIDs(ctx context.Context, _ *gorm.DB, novelIDs []uuid.UUID) ([]*domain.Chapter, error) {
	if f.getByNovelIDsFn != nil {
		return f.getByNovelIDsFn(ctx, novelIDs)
	}
	return nil, nil
}

func (f *fakeChapterRepo) Publish(ctx context.Context, _ *gorm.DB, chapterID uuid.UUID, at time.Time) error {
	if f.publishFn != nil {
		return f.publishFn(ctx, chapterID, at)
	}
	return nil
}

func (f *fakeChapterRepo) LatestFeedRows(ctx context.Context, _ *gorm.DB, limit int) ([]domain.FeedRow, error) {
	if f.latestFeedFn != nil {
		return f.latestFeedFn(ctx, limit)
	}
	return nil, nil
}

type fakeUserRepo struct {
	createFn      func(ctx context.Context, users []*domain.User) ([]*domain.User, error)
	getByIDsFn    func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	byEmailsFn    func(ctx context.Context, emails []string) ([]*domain.User, error)
	byUsernamesFn func(ctx context.Context, usernames []string) ([]*domain.User, error)
	emailExistsFn func(ctx context.Context, email string) (bool, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, _ *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, users)
	}
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, _ *gorm.DB, emails []string) ([]*domain.User, error) {
	if f.byEmailsFn != nil {
		return f.byEmailsFn(ctx, emails)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsernames(ctx context.Context, _ *gorm.DB, usernames []string) ([]*domain.User, error) {
	if f.byUsernamesFn != nil {
		return f.byUsernamesFn(ctx, usernames)
	}
	return nil, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, _ *gorm.DB, email string) (bool, error) {
	if f.emailExistsFn != nil {
		return f.emailExistsFn(ctx, email)
	}
	return false, nil
}

type fakeUserTokenRepo struct {
	createFn          func(ctx context.Context, tokens []*domain.UserToken) ([]*domain.UserToken, error)
	byUserIDsFn       func(ctx context.Context, userIDs []uuid.UUID) ([]*domain.UserToken, error)
	byRefreshTokensFn func(ctx context.Context, refreshTokens []string) ([]*domain.UserToken, error)
	deleteByIDsFn     func(ctx context.Context, ids []uuid.UUID) error
	deleteByUsersFn   func(ctx context.Context, userIDs []uuid.UUID) error
	deleteExpiredFn   func(ctx context.Context, cutoff time.Time) error
}

func (f *fakeUserTokenRepo) Create(ctx context.Context, _ *gorm.DB, tokens []*domain.UserToken) ([]*domain.UserToken, error) {
	if f.createFn != nil {
		return f.createFn(ctx, tokens)
	}
	return tokens, nil
}

func (f *fakeUserTokenRepo) GetByUserIDs(ctx context.Context, _ *gorm.DB, userIDs []uuid.UUID) ([]*domain.UserToken, error) {
	if f.byUserIDsFn != nil {
		return f.byUserIDsFn(ctx, userIDs)
	}
	return nil, nil
}

func (f *fakeUserTokenRepo) GetByRefreshTokens(ctx context.Context, _ *gorm.DB, refreshTokens []string) ([]*domain.UserToken, error) {
	if f.byRefreshTokensFn != nil {
		return f.byRefreshTokensFn(ctx, refreshTokens)
	}
	return nil, nil
}

func (f *fakeUserTokenRepo) FullDeleteByIDs(ctx context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	if f.deleteByIDsFn != nil {
		return f.deleteByIDsFn(ctx, ids)
	}
	return nil
}

func (f *fakeUserTokenRepo) FullDeleteByUserIDs(ctx context.Context, _ *gorm.DB, userIDs []uuid.UUID) error {
	if f.deleteByUsersFn != nil {
		return f.deleteByUsersFn(ctx, userIDs)
	}
	return nil
}

func (f *fakeUserTokenRepo) FullDeleteExpired(ctx context.Context, _ *gorm.DB, cutoff time.Time) error {
	if f.deleteExpiredFn != nil {
		return f.deleteExpiredFn(ctx, cutoff)
	}
	return nil
}

type fakeProgressRepo struct {
	recentlyReadFn func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ReadingProgress, error)
	upsertFn       func(ctx context.Context, row *domain.ReadingProgress) error
	deleteFn       func(ctx context.Context, ids []uuid.UUID) error
}

func (f *fakeProgressRepo) RecentlyRead(ctx context.Context, _ *gorm.DB, userID uuid.UUID, limit int) ([]*domain.ReadingProgress, error) {
	if f.recentlyReadFn != nil {
		return f.recentlyReadFn(ctx, userID, limit)
	}
	return nil, nil
}

func (f *fakeProgressRepo) Upsert(ctx context.Context, _ *gorm.DB, row *domain.ReadingProgress) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, row)
	}
	return nil
}

func (f *fakeProgressRepo) FullDeleteByIDs(ctx context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, ids)
	}
	return nil
}
