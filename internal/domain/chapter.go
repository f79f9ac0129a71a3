package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChapterStatusDraft     = "draft"
	ChapterStatusPublished = "published"
)

type Chapter struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	NovelID uuid.UUID `gorm:"type:uuid;not null;index:idx_novel_chapter,unique,priority:1" json:"novel_id"`
	Novel   *Novel    `gorm:"constraint:OnDelete:CASCADE;foreignKey:NovelID;references:ID" json:"novel,omitempty"`

	// ChapterNumber is the sole ordering key within a novel. Unique per novel,
	// not necessarily contiguous.
	ChapterNumber int    `gorm:"column:chapter_number;not null;index:idx_novel_chapter,unique,priority:2" json:"chapter_number"`
	Title         string `gorm:"column:title;not null" json:"title"`
	Body          string `gorm:"column:body;type:text" json:"body,omitempty"`
	Status        string `gorm:"column:status;not null;default:'draft';index" json:"status"`

	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Chapter) TableName() string { return "chapter" }
