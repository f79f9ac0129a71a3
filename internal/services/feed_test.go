package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moonquill/moonquill-backend/internal/domain"
)

func TestLatestUpdatesPassesLimit(t *testing.T) {
	var gotLimit int
	chapterRepo := &fakeChapterRepo{
		latestFeedFn: func(_ context.Context, limit int) ([]domain.FeedRow, error) {
			gotLimit = limit
			return nil, nil
		},
	}

	svc := NewFeedService(nil, testLogger(t), chapterRepo)
	entries, err := svc.LatestUpdates(context.Background(), 25)
	if err != nil {
		t.Fatalf("LatestUpdates: %v", err)
	}
	if gotLimit != 25 {
		t.Errorf("expected limit 25 to reach the store, got %d", gotLimit)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty entries, got %+v", entries)
	}
}

func TestLatestUpdatesPropagatesStoreError(t *testing.T) {
	chapterRepo := &fakeChapterRepo{
		latestFeedFn: func(_ context.Context, _ int) ([]domain.FeedRow, error) {
			return nil, fmt.Errorf("store down")
		},
	}

	svc := NewFeedService(nil, testLogger(t), chapterRepo)
	if _, err := svc.LatestUpdates(context.Background(), 10); err == nil {
		t.Fatal("expected an error when the store fails")
	}
}

func TestLatestUpdatesGroupsRows(t *testing.T) {
	now := time.Now()
	w1 := uuid.New()
	w2 := uuid.New()
	chapterRepo := &fakeChapterRepo{
		latestFeedFn: func(_ context.Context, _ int) ([]domain.FeedRow, error) {
			return []domain.FeedRow{
				feedRow(w1, "First", 2, now),
				feedRow(w2, "Second", 7, now.Add(-time.Minute)),
				feedRow(w1, "First", 1, now.Add(-2*time.Minute)),
			}, nil
		},
	}

	svc := NewFeedService(nil, testLogger(t), chapterRepo)
	entries, err := svc.LatestUpdates(context.Background(), 10)
	if err != nil {
		t.Fatalf("LatestUpdates: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Work.ID != w1 || entries[1].Work.ID != w2 {
		t.Errorf("entries out of recency order")
	}
	if len(entries[0].Chapters) != 2 {
		t.Errorf("expected both chapters of the first novel, got %d", len(entries[0].Chapters))
	}
}
