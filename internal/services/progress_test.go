package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/moonquill/moonquill-backend/internal/domain"
	pkgerrors "github.com/moonquill/moonquill-backend/internal/pkg/errors"
	"github.com/moonquill/moonquill-backend/internal/requestdata"
)

func authedContext(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func progressRecord(userID uuid.UUID) *domain.ReadingProgress {
	return &domain.ReadingProgress{
		ID:        uuid.New(),
		UserID:    userID,
		NovelID:   uuid.New(),
		ChapterID: uuid.New(),
		Percent:   40,
	}
}

func TestListForUserRequiresAuth(t *testing.T) {
	svc := NewProgressService(nil, testLogger(t), &fakeProgressRepo{}, &fakeNovelRepo{}, &fakeChapterRepo{}, &fakeUserRepo{})
	if _, err := svc.ListForUser(context.Background(), 10); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// Every stored record must yield exactly one result, even when every
// enrichment lookup fails.
func TestListForUserTotality(t *testing.T) {
	userID := uuid.New()
	records := make([]*domain.ReadingProgress, 5)
	for i := range records {
		records[i] = progressRecord(userID)
	}

	progressRepo := &fakeProgressRepo{
		recentlyReadFn: func(_ context.Context, _ uuid.UUID, _ int) ([]*domain.ReadingProgress, error) {
			return records, nil
		},
	}
	novelRepo := &fakeNovelRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Novel, error) {
			return nil, fmt.Errorf("store down")
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, novelRepo, &fakeChapterRepo{}, &fakeUserRepo{})
	results, err := svc.ListForUser(authedContext(userID), 50)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(results) != len(records) {
		t.Fatalf("expected %d results, got %d", len(records), len(results))
	}
	for i, res := range results {
		if !res.Degraded() {
			t.Errorf("result %d: expected degraded result", i)
		}
		if res.Fallback == nil || res.Fallback.ID != records[i].ID {
			t.Errorf("result %d: fallback does not carry the original record", i)
		}
		if res.Reason == "" {
			t.Errorf("result %d: expected a degradation reason", i)
		}
	}
}

// Results must come back in the repo's recency order even though records are
// enriched concurrently.
func TestListForUserPreservesOrder(t *testing.T) {
	userID := uuid.New()
	records := make([]*domain.ReadingProgress, 20)
	for i := range records {
		records[i] = progressRecord(userID)
	}

	progressRepo := &fakeProgressRepo{
		recentlyReadFn: func(_ context.Context, _ uuid.UUID, _ int) ([]*domain.ReadingProgress, error) {
			return records, nil
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, &fakeNovelRepo{}, &fakeChapterRepo{}, &fakeUserRepo{})
	results, err := svc.ListForUser(authedContext(userID), 50)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(results) != len(records) {
		t.Fatalf("expected %d results, got %d", len(records), len(results))
	}
	for i, res := range results {
		if res.Fallback == nil || res.Fallback.ID != records[i].ID {
			t.Errorf("result %d: out of order", i)
		}
	}
}

func TestListForUserEnrichesRecord(t *testing.T) {
	userID := uuid.New()
	authorID := uuid.New()
	record := progressRecord(userID)

	progressRepo := &fakeProgressRepo{
		recentlyReadFn: func(_ context.Context, _ uuid.UUID, _ int) ([]*domain.ReadingProgress, error) {
			return []*domain.ReadingProgress{record}, nil
		},
	}
	novelRepo := &fakeNovelRepo{
		getByIDsFn: func(_ context.Context, ids []uuid.UUID) ([]*domain.Novel, error) {
			return []*domain.Novel{{ID: record.NovelID, Title: "Ash and Ember", AuthorID: authorID}}, nil
		},
	}
	chapterRepo := &fakeChapterRepo{
		getByIDsFn: func(_ context.Context, ids []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{{ID: record.ChapterID, Title: "Sparks", ChapterNumber: 3, Status: domain.ChapterStatusPublished}}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDsFn: func(_ context.Context, ids []uuid.UUID) ([]*domain.User, error) {
			return []*domain.User{{ID: authorID, Username: "emberwright"}}, nil
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, novelRepo, chapterRepo, userRepo)
	results, err := svc.ListForUser(authedContext(userID), 50)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(results) != 1 || results[0].Enriched == nil {
		t.Fatalf("expected one enriched result, got %+v", results)
	}
	enriched := results[0].Enriched
	if enriched.Novel.Title != "Ash and Ember" || enriched.Novel.AuthorName != "emberwright" {
		t.Errorf("novel summary wrong: %+v", enriched.Novel)
	}
	if enriched.Chapter.Title != "Sparks" || enriched.Chapter.ChapterNumber != 3 {
		t.Errorf("chapter summary wrong: %+v", enriched.Chapter)
	}
	if enriched.Percent != 40 {
		t.Errorf("stored percent must pass through verbatim on the list path, got %d", enriched.Percent)
	}
}

// A missing author degrades only the author name, never the whole result.
func TestListForUserUnknownAuthor(t *testing.T) {
	userID := uuid.New()
	record := progressRecord(userID)

	progressRepo := &fakeProgressRepo{
		recentlyReadFn: func(_ context.Context, _ uuid.UUID, _ int) ([]*domain.ReadingProgress, error) {
			return []*domain.ReadingProgress{record}, nil
		},
	}
	novelRepo := &fakeNovelRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Novel, error) {
			return []*domain.Novel{{ID: record.NovelID, Title: "Orphaned", AuthorID: uuid.New()}}, nil
		},
	}
	chapterRepo := &fakeChapterRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{{ID: record.ChapterID, Status: domain.ChapterStatusPublished}}, nil
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, novelRepo, chapterRepo, &fakeUserRepo{})
	results, err := svc.ListForUser(authedContext(userID), 50)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(results) != 1 || results[0].Enriched == nil {
		t.Fatalf("expected one enriched result, got %+v", results)
	}
	if results[0].Enriched.Novel.AuthorName != domain.UnknownAuthor {
		t.Errorf("expected %q, got %q", domain.UnknownAuthor, results[0].Enriched.Novel.AuthorName)
	}
}

func TestLatestForUserEmpty(t *testing.T) {
	svc := NewProgressService(nil, testLogger(t), &fakeProgressRepo{}, &fakeNovelRepo{}, &fakeChapterRepo{}, &fakeUserRepo{})
	result, err := svc.LatestForUser(authedContext(uuid.New()))
	if err != nil {
		t.Fatalf("LatestForUser: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for a user with no history, got %+v", result)
	}
}

// The latest record recomputes its percentage against the current published
// chapter set instead of trusting the stored value.
func TestLatestForUserRecomputesPercent(t *testing.T) {
	userID := uuid.New()
	authorID := uuid.New()
	record := progressRecord(userID)
	record.Percent = 90 // stale

	readChapter := &domain.Chapter{ID: record.ChapterID, NovelID: record.NovelID, ChapterNumber: 1, Status: domain.ChapterStatusPublished}
	newer := &domain.Chapter{ID: uuid.New(), NovelID: record.NovelID, ChapterNumber: 2, Status: domain.ChapterStatusPublished}

	progressRepo := &fakeProgressRepo{
		recentlyReadFn: func(_ context.Context, _ uuid.UUID, limit int) ([]*domain.ReadingProgress, error) {
			if limit != 1 {
				t.Errorf("expected limit 1, got %d", limit)
			}
			return []*domain.ReadingProgress{record}, nil
		},
	}
	novelRepo := &fakeNovelRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Novel, error) {
			return []*domain.Novel{{ID: record.NovelID, Title: "Serial", AuthorID: authorID}}, nil
		},
	}
	chapterRepo := &fakeChapterRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{readChapter}, nil
		},
		getByNovelIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{readChapter, newer}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.User, error) {
			return []*domain.User{{ID: authorID, Username: "serialist"}}, nil
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, novelRepo, chapterRepo, userRepo)
	result, err := svc.LatestForUser(authedContext(userID))
	if err != nil {
		t.Fatalf("LatestForUser: %v", err)
	}
	if result == nil || result.Enriched == nil {
		t.Fatalf("expected an enriched result, got %+v", result)
	}
	if result.Enriched.Percent != 50 {
		t.Errorf("expected recomputed percent 50, got %d", result.Enriched.Percent)
	}
}

// When the chapter set cannot be loaded the latest path degrades to the raw
// record rather than serving a stale percentage as fresh.
func TestLatestForUserChapterSetFailure(t *testing.T) {
	userID := uuid.New()
	authorID := uuid.New()
	record := progressRecord(userID)

	progressRepo := &fakeProgressRepo{
		recentlyReadFn: func(_ context.Context, _ uuid.UUID, _ int) ([]*domain.ReadingProgress, error) {
			return []*domain.ReadingProgress{record}, nil
		},
	}
	novelRepo := &fakeNovelRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Novel, error) {
			return []*domain.Novel{{ID: record.NovelID, AuthorID: authorID}}, nil
		},
	}
	chapterRepo := &fakeChapterRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{{ID: record.ChapterID, Status: domain.ChapterStatusPublished}}, nil
		},
		getByNovelIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return nil, fmt.Errorf("store down")
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, novelRepo, chapterRepo, &fakeUserRepo{})
	result, err := svc.LatestForUser(authedContext(userID))
	if err != nil {
		t.Fatalf("LatestForUser: %v", err)
	}
	if result == nil || !result.Degraded() {
		t.Fatalf("expected a degraded result, got %+v", result)
	}
	if result.Fallback.ID != record.ID || result.Reason == "" {
		t.Errorf("fallback must carry the record and a reason: %+v", result)
	}
}

func TestRecordValidatesChapterOwnership(t *testing.T) {
	userID := uuid.New()
	novelID := uuid.New()
	chapterID := uuid.New()

	chapterRepo := &fakeChapterRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{{ID: chapterID, NovelID: uuid.New()}}, nil
		},
	}

	svc := NewProgressService(nil, testLogger(t), &fakeProgressRepo{}, &fakeNovelRepo{}, chapterRepo, &fakeUserRepo{})
	if _, err := svc.Record(authedContext(userID), novelID, chapterID, 50, nil); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign chapter, got %v", err)
	}
}

func TestRecordUpserts(t *testing.T) {
	userID := uuid.New()
	novelID := uuid.New()
	chapterID := uuid.New()

	var upserted *domain.ReadingProgress
	progressRepo := &fakeProgressRepo{
		upsertFn: func(_ context.Context, row *domain.ReadingProgress) error {
			upserted = row
			return nil
		},
	}
	chapterRepo := &fakeChapterRepo{
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*domain.Chapter, error) {
			return []*domain.Chapter{{ID: chapterID, NovelID: novelID}}, nil
		},
	}

	svc := NewProgressService(nil, testLogger(t), progressRepo, &fakeNovelRepo{}, chapterRepo, &fakeUserRepo{})
	row, err := svc.Record(authedContext(userID), novelID, chapterID, 75, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if upserted == nil || upserted != row {
		t.Fatal("expected the upserted row to be returned")
	}
	if row.UserID != userID || row.NovelID != novelID || row.ChapterID != chapterID || row.Percent != 75 {
		t.Errorf("row fields wrong: %+v", row)
	}

	for _, percent := range []int{-1, 101} {
		if _, err := svc.Record(authedContext(userID), novelID, chapterID, percent, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Errorf("percent %d: expected ErrInvalidArgument, got %v", percent, err)
		}
	}
}
