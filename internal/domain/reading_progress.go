package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReadingProgress is the last-touched chapter for a user+novel pair. One
// logical record per (user_id, novel_id).
type ReadingProgress struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_user_novel,unique,priority:1" json:"user_id"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	NovelID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_novel,unique,priority:2" json:"novel_id"`

	ChapterID uuid.UUID `gorm:"type:uuid;not null" json:"chapter_id"`
	Percent   int       `gorm:"column:percent;not null;default:0" json:"percent"`

	Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReadingProgress) TableName() string { return "reading_progress" }
