package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	chapterrepo "github.com/moonquill/moonquill-backend/internal/data/repos/chapter"
	novelrepo "github.com/moonquill/moonquill-backend/internal/data/repos/novel"
	"github.com/moonquill/moonquill-backend/internal/domain"
	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

type ChapterService interface {
	ListForNovel(ctx context.Context, novelID uuid.UUID) ([]*domain.Chapter, error)
	GetByID(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error)
	Create(ctx context.Context, novelID uuid.UUID, chapterNumber int, title, body string) (*domain.Chapter, error)
	Publish(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error)
}

type chapterService struct {
	db          *gorm.DB
	log         *logger.Logger
	chapterRepo chapterrepo.ChapterRepo
	novelRepo   novelrepo.NovelRepo
}

func NewChapterService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chapterRepo chapterrepo.ChapterRepo,
	novelRepo novelrepo.NovelRepo,
) ChapterService {
	return &chapterService{
		db:          db,
		log:         baseLog.With("service", "ChapterService"),
		chapterRepo: chapterRepo,
		novelRepo:   novelRepo,
	}
}

// ListForNovel returns the published chapters of a novel in reading order.
// The novel's author also sees drafts.
func (s *chapterService) ListForNovel(ctx context.Context, novelID uuid.UUID) ([]*domain.Chapter, error) {
	if novelID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing novel id", pkgerrors.ErrInvalidArgument)
	}
	novel, err := s.loadNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.chapterRepo.GetByNovelIDs(ctx, nil, []uuid.UUID{novelID})
	if err != nil {
		s.log.Error("ListForNovel: load chapters failed", "error", err, "novel_id", novelID)
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	if s.isAuthor(ctx, novel) {
		return chapters, nil
	}
	published := make([]*domain.Chapter, 0, len(chapters))
	for _, c := range chapters {
		if c != nil && c.Status == domain.ChapterStatusPublished {
			published = append(published, c)
		}
	}
	return published, nil
}

func (s *chapterService) GetByID(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	if chapterID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing chapter id", pkgerrors.ErrInvalidArgument)
	}
	chapter, err := s.loadChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Status != domain.ChapterStatusPublished {
		novel, err := s.loadNovel(ctx, chapter.NovelID)
		if err != nil {
			return nil, err
		}
		if !s.isAuthor(ctx, novel) {
			return nil, fmt.Errorf("%w: chapter", pkgerrors.ErrNotFound)
		}
	}
	return chapter, nil
}

func (s *chapterService) Create(ctx context.Context, novelID uuid.UUID, chapterNumber int, title, body string) (*domain.Chapter, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if novelID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing novel id", pkgerrors.ErrInvalidArgument)
	}
	if chapterNumber <= 0 {
		return nil, fmt.Errorf("%w: chapter number must be positive", pkgerrors.ErrInvalidArgument)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", pkgerrors.ErrInvalidArgument)
	}
	novel, err := s.loadNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if novel.AuthorID != rd.UserID {
		return nil, fmt.Errorf("%w: only the author can add chapters", pkgerrors.ErrUnauthorized)
	}

	chapter := &domain.Chapter{
		ID:            uuid.New(),
		NovelID:       novelID,
		ChapterNumber: chapterNumber,
		Title:         title,
		Body:          body,
		Status:        domain.ChapterStatusDraft,
	}
	if _, err := s.chapterRepo.Create(ctx, nil, []*domain.Chapter{chapter}); err != nil {
		s.log.Error("Create: chapter creation failed", "error", err, "novel_id", novelID)
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return chapter, nil
}

func (s *chapterService) Publish(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	chapter, err := s.loadChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	novel, err := s.loadNovel(ctx, chapter.NovelID)
	if err != nil {
		return nil, err
	}
	if novel.AuthorID != rd.UserID {
		return nil, fmt.Errorf("%w: only the author can publish", pkgerrors.ErrUnauthorized)
	}
	if chapter.Status == domain.ChapterStatusPublished {
		return chapter, nil
	}

	now := time.Now().UTC()
	if err := s.chapterRepo.Publish(ctx, nil, chapter.ID, now); err != nil {
		s.log.Error("Publish: publish failed", "error", err, "chapter_id", chapter.ID)
		return nil, fmt.Errorf("publish chapter: %w", err)
	}
	chapter.Status = domain.ChapterStatusPublished
	chapter.PublishedAt = &now
	return chapter, nil
}

func (s *chapterService) loadNovel(ctx context.Context, novelID uuid.UUID) (*domain.Novel, error) {
	novels, err := s.novelRepo.GetByIDs(ctx, nil, []uuid.UUID{novelID})
	if err != nil {
		s.log.Error("load novel failed", "error", err, "novel_id", novelID)
		return nil, fmt.Errorf("load novel: %w", err)
	}
	if len(novels) == 0 || novels[0] == nil {
		return nil, fmt.Errorf("%w: novel", pkgerrors.ErrNotFound)
	}
	return novels[0], nil
}

func (s *chapterService) loadChapter(ctx context.Context, chapterID uuid.UUID) (*domain.Chapter, error) {
	chapters, err := s.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{chapterID})
	if err != nil {
		s.log.Error("load chapter failed", "error", err, "chapter_id", chapterID)
		return nil, fmt.Errorf("load chapter: %w", err)
	}
	if len(chapters) == 0 || chapters[0] == nil {
		return nil, fmt.Errorf("%w: chapter", pkgerrors.ErrNotFound)
	}
	return chapters[0], nil
}

func (s *chapterService) isAuthor(ctx context.Context, novel *domain.Novel) bool {
	rd := requestdata.GetRequestData(ctx)
	return rd != nil && rd.UserID != uuid.Nil && novel != nil && novel.AuthorID == rd.UserID
}
