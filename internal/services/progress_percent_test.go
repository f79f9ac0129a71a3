package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/moonquill/moonquill-backend/internal/domain"
)

func publishedChapter(number int) *domain.Chapter {
	return &domain.Chapter{
		ID:            uuid.New(),
		ChapterNumber: number,
		Status:        domain.ChapterStatusPublished,
	}
}

func TestPercentCompleteMidway(t *testing.T) {
	chapters := []*domain.Chapter{
		publishedChapter(1),
		publishedChapter(2),
		publishedChapter(3),
		publishedChapter(4),
	}
	if got := percentComplete(chapters[1], chapters); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	if got := percentComplete(chapters[3], chapters); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestPercentCompleteRounding(t *testing.T) {
	chapters := []*domain.Chapter{
		publishedChapter(1),
		publishedChapter(2),
		publishedChapter(3),
	}
	// 1/3 rounds to 33, 2/3 rounds to 67.
	if got := percentComplete(chapters[0], chapters); got != 33 {
		t.Errorf("expected 33, got %d", got)
	}
	if got := percentComplete(chapters[1], chapters); got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestPercentCompleteIgnoresDrafts(t *testing.T) {
	draft := &domain.Chapter{ID: uuid.New(), ChapterNumber: 3, Status: domain.ChapterStatusDraft}
	chapters := []*domain.Chapter{
		publishedChapter(1),
		publishedChapter(2),
		draft,
	}
	// Drafts never count toward the denominator.
	if got := percentComplete(chapters[1], chapters); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	// A draft target has no position among published chapters.
	if got := percentComplete(draft, chapters); got != 0 {
		t.Errorf("expected 0 for draft target, got %d", got)
	}
}

func TestPercentCompleteOrderIndependent(t *testing.T) {
	c1 := publishedChapter(1)
	c2 := publishedChapter(2)
	c3 := publishedChapter(3)
	shuffled := []*domain.Chapter{c3, c1, c2}
	if got := percentComplete(c2, shuffled); got != 67 {
		t.Errorf("expected 67 regardless of input order, got %d", got)
	}
}

func TestPercentCompleteEdgeCases(t *testing.T) {
	if got := percentComplete(nil, []*domain.Chapter{publishedChapter(1)}); got != 0 {
		t.Errorf("nil target: expected 0, got %d", got)
	}
	if got := percentComplete(publishedChapter(1), nil); got != 0 {
		t.Errorf("empty set: expected 0, got %d", got)
	}
	stranger := publishedChapter(9)
	if got := percentComplete(stranger, []*domain.Chapter{publishedChapter(1), publishedChapter(2)}); got != 0 {
		t.Errorf("absent target: expected 0, got %d", got)
	}
	only := publishedChapter(1)
	if got := percentComplete(only, []*domain.Chapter{only}); got != 100 {
		t.Errorf("single chapter: expected 100, got %d", got)
	}
}
