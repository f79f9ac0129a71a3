package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Novel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title    string    `gorm:"column:title;not null;index" json:"title"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	Synopsis   string         `gorm:"column:synopsis;type:text" json:"synopsis,omitempty"`
	CoverImage string         `gorm:"column:cover_image" json:"cover_image,omitempty"`
	Genres     datatypes.JSON `gorm:"type:jsonb;column:genres" json:"genres,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Novel) TableName() string { return "novel" }
