package models

import "time"

const (
	ChapterStatusDraft     = "draft"
	ChapterStatusPublished = "published"
	ChapterStatusLocked    = "locked"
)

type Chapter struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	NovelID       int64     `json:"novel_id" gorm:"not null;uniqueIndex:idx_chapters_novel_number"`
	ChapterNumber int       `json:"chapter_number" gorm:"not null;uniqueIndex:idx_chapters_novel_number"`
	Title         string    `json:"title" gorm:"not null"`
	Content       string    `json:"content" gorm:"not null;type:text"`
	Status        string    `json:"status" gorm:"type:chapter_status;default:'draft';not null"`
	CoinCost      float64   `json:"coin_cost" gorm:"type:decimal(10,2);not null;default:0"`
	WordCount     int       `json:"word_count" gorm:"not null;default:0"`
	Views         int       `json:"views" gorm:"not null;default:0"`
	IsFree        bool      `json:"is_free" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Novel Novel `json:"novel,omitempty" gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE;"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Priced reports whether reading this chapter requires an unlock.
func (c *Chapter) Priced() bool {
	return !c.IsFree && c.CoinCost > 0
}
