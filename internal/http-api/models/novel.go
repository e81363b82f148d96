package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Novel lifecycle statuses. Any status is settable at any time; there is
// no enforced transition table.
const (
	NovelStatusDraft     = "draft"
	NovelStatusOngoing   = "ongoing"
	NovelStatusCompleted = "completed"
	NovelStatusHiatus    = "hiatus"
)

// TagList stores the novel's tags as an ordered jsonb array.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return json.Marshal(t)
}

func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return errors.New("unsupported type for TagList")
	}
}

type Novel struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"not null;type:text"`
	CoverURL      *string   `json:"cover_url,omitempty"`
	AuthorID      string    `json:"author_id" gorm:"type:uuid;not null;index"` // immutable after creation
	Status        string    `json:"status" gorm:"type:novel_status;default:'draft';not null"`
	Genre         string    `json:"genre" gorm:"not null;index"`
	Tags          TagList   `json:"tags" gorm:"type:jsonb;not null;default:'[]'"`
	TotalChapters int       `json:"total_chapters" gorm:"not null;default:0"`
	TotalViews    int       `json:"total_views" gorm:"not null;default:0"`
	TotalLikes    int       `json:"total_likes" gorm:"not null;default:0"`
	AverageRating float64   `json:"average_rating" gorm:"type:decimal(3,2);not null;default:0"`
	IsFeatured    bool      `json:"is_featured" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (Novel) TableName() string {
	return "novels"
}
