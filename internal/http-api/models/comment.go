package models

import "time"

type Comment struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ChapterID   int64     `json:"chapter_id" gorm:"not null;index"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Content     string    `json:"content" gorm:"not null;type:text"`
	ParentID    *int64    `json:"parent_id,omitempty"` // one level of threading; replies cannot be nested
	IsModerated bool      `json:"is_moderated" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Chapter Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
