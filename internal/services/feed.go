package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	chapterrepo "github.com/moonquill/moonquill-backend/internal/data/repos/chapter"
	"github.com/moonquill/moonquill-backend/internal/domain"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
)

// FeedService builds the latest-updates feed: recently updated novels in
// recency order, each carrying the chapters from the batch that belong to it.
type FeedService interface {
	LatestUpdates(ctx context.Context, limit int) ([]domain.FeedEntry, error)
}

type feedService struct {
	db          *gorm.DB
	log         *logger.Logger
	chapterRepo chapterrepo.ChapterRepo
}

func NewFeedService(db *gorm.DB, baseLog *logger.Logger, chapterRepo chapterrepo.ChapterRepo) FeedService {
	return &feedService{
		db:          db,
		log:         baseLog.With("service", "FeedService"),
		chapterRepo: chapterRepo,
	}
}

func (s *feedService) LatestUpdates(ctx context.Context, limit int) ([]domain.FeedEntry, error) {
	rows, err := s.chapterRepo.LatestFeedRows(ctx, nil, limit)
	if err != nil {
		s.log.Error("LatestUpdates: load feed rows failed", "error", err, "limit", limit)
		return nil, fmt.Errorf("load feed rows: %w", err)
	}
	return buildFeed(rows), nil
}
