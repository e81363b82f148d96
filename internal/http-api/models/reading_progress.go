package models

import "time"

// ReadingProgress tracks where a user last left off in a novel. One row
// per (user, novel) pair, upserted on every read.
type ReadingProgress struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_novel"`
	NovelID       int64     `json:"novel_id" gorm:"not null;uniqueIndex:idx_progress_user_novel"`
	LastChapterID int64     `json:"last_chapter_id" gorm:"not null"`
	LastReadAt    time.Time `json:"last_read_at" gorm:"not null"`
	IsFavorite    bool      `json:"is_favorite" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by ReadingProgress to `reading_progress`
func (ReadingProgress) TableName() string {
	return "reading_progress"
}
