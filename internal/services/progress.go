package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	chapterrepo "github.com/moonquill/moonquill-backend/internal/data/repos/chapter"
	novelrepo "github.com/moonquill/moonquill-backend/internal/data/repos/novel"
	progressrepo "github.com/moonquill/moonquill-backend/internal/data/repos/progress"
	userrepo "github.com/moonquill/moonquill-backend/internal/data/repos/user"
	"github.com/moonquill/moonquill-backend/internal/domain"
	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/platform/logger"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

// enrichWorkers caps the per-request fan-out of record enrichment.
const enrichWorkers = 8

// ProgressService reads and enriches a user's reading-progress records.
//
// The list path returns stored percentages verbatim; only LatestForUser
// refetches the novel's chapters and recomputes the percentage. The "continue
// reading" highlight is the one surface where a stale stored value is worth
// the extra fetch to correct.
type ProgressService interface {
	ListForUser(ctx context.Context, limit int) ([]domain.ProgressResult, error)
	LatestForUser(ctx context.Context) (*domain.ProgressResult, error)
	Record(ctx context.Context, novelID, chapterID uuid.UUID, percent int, metadata datatypes.JSON) (*domain.ReadingProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo progressrepo.ProgressRepo
	novelRepo    novelrepo.NovelRepo
	chapterRepo  chapterrepo.ChapterRepo
	userRepo     userrepo.UserRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	progressRepo progressrepo.ProgressRepo,
	novelRepo novelrepo.NovelRepo,
	chapterRepo chapterrepo.ChapterRepo,
	userRepo userrepo.UserRepo,
) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		progressRepo: progressRepo,
		novelRepo:    novelRepo,
		chapterRepo:  chapterRepo,
		userRepo:     userRepo,
	}
}

func (s *progressService) ListForUser(ctx context.Context, limit int) ([]domain.ProgressResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	records, err := s.progressRepo.RecentlyRead(ctx, nil, rd.UserID, limit)
	if err != nil {
		s.log.Error("ListForUser: load progress records failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("load progress records: %w", err)
	}

	// Enrich every record independently; re-assemble by input index so output
	// order always equals input order regardless of completion order.
	results := make([]domain.ProgressResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichWorkers)
	for i, record := range records {
		g.Go(func() error {
			results[i] = s.enrichRecord(gctx, record)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *progressService) LatestForUser(ctx context.Context) (*domain.ProgressResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	records, err := s.progressRepo.RecentlyRead(ctx, nil, rd.UserID, 1)
	if err != nil {
		s.log.Error("LatestForUser: load progress record failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("load latest progress record: %w", err)
	}
	if len(records) == 0 || records[0] == nil {
		return nil, nil
	}
	record := records[0]

	result := s.enrichRecord(ctx, record)
	if result.Enriched == nil {
		return &result, nil
	}

	// The latest record backs the "continue reading" card, so the stored
	// percentage is recomputed against the novel's current published set.
	chapters, err := s.chapterRepo.GetByNovelIDs(ctx, nil, []uuid.UUID{record.NovelID})
	if err != nil {
		s.log.Warn("LatestForUser: load novel chapters failed, returning raw record", "error", err, "novel_id", record.NovelID)
		return &domain.ProgressResult{Fallback: record, Reason: fmt.Sprintf("load novel chapters: %v", err)}, nil
	}
	var target *domain.Chapter
	for _, c := range chapters {
		if c != nil && c.ID == record.ChapterID {
			target = c
			break
		}
	}
	result.Enriched.Percent = percentComplete(target, chapters)

	return &result, nil
}

func (s *progressService) Record(ctx context.Context, novelID, chapterID uuid.UUID, percent int, metadata datatypes.JSON) (*domain.ReadingProgress, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if novelID == uuid.Nil || chapterID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing novel or chapter id", pkgerrors.ErrInvalidArgument)
	}
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("%w: percent out of range", pkgerrors.ErrInvalidArgument)
	}

	chapters, err := s.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{chapterID})
	if err != nil {
		return nil, fmt.Errorf("load chapter: %w", err)
	}
	if len(chapters) == 0 || chapters[0] == nil || chapters[0].NovelID != novelID {
		return nil, fmt.Errorf("%w: chapter does not belong to novel", pkgerrors.ErrNotFound)
	}

	row := &domain.ReadingProgress{
		UserID:    rd.UserID,
		NovelID:   novelID,
		ChapterID: chapterID,
		Percent:   percent,
		Metadata:  metadata,
	}
	if err := s.progressRepo.Upsert(ctx, nil, row); err != nil {
		s.log.Error("Record: upsert progress failed", "error", err, "user_id", rd.UserID, "novel_id", novelID)
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return row, nil
}

// enrichRecord joins one record with its novel, chapter, and author. Any
// store error or missing novel/chapter degrades to a fallback result carrying
// the original record; a missing author degrades only the author name.
func (s *progressService) enrichRecord(ctx context.Context, record *domain.ReadingProgress) domain.ProgressResult {
	if record == nil {
		return domain.ProgressResult{Fallback: record, Reason: "no record"}
	}

	novels, err := s.novelRepo.GetByIDs(ctx, nil, []uuid.UUID{record.NovelID})
	if err != nil {
		s.log.Warn("enrichRecord: novel lookup failed", "error", err, "novel_id", record.NovelID)
		return domain.ProgressResult{Fallback: record, Reason: fmt.Sprintf("novel lookup: %v", err)}
	}
	if len(novels) == 0 || novels[0] == nil {
		return domain.ProgressResult{Fallback: record, Reason: "novel not found"}
	}
	novel := novels[0]

	chapters, err := s.chapterRepo.GetByIDs(ctx, nil, []uuid.UUID{record.ChapterID})
	if err != nil {
		s.log.Warn("enrichRecord: chapter lookup failed", "error", err, "chapter_id", record.ChapterID)
		return domain.ProgressResult{Fallback: record, Reason: fmt.Sprintf("chapter lookup: %v", err)}
	}
	if len(chapters) == 0 || chapters[0] == nil {
		return domain.ProgressResult{Fallback: record, Reason: "chapter not found"}
	}
	chapter := chapters[0]

	authorName := domain.UnknownAuthor
	if authors, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{novel.AuthorID}); err == nil && len(authors) > 0 && authors[0] != nil {
		authorName = authors[0].Username
	} else if err != nil {
		s.log.Warn("enrichRecord: author lookup failed", "error", err, "author_id", novel.AuthorID)
	}

	return domain.ProgressResult{
		Enriched: &domain.EnrichedProgress{
			ReadingProgress: *record,
			Novel: &domain.NovelSummary{
				ID:         novel.ID,
				Title:      novel.Title,
				AuthorName: authorName,
				CoverImage: novel.CoverImage,
			},
			Chapter: &domain.ChapterSummary{
				ID:            chapter.ID,
				Title:         chapter.Title,
				ChapterNumber: chapter.ChapterNumber,
				Status:        chapter.Status,
			},
		},
	}
}
