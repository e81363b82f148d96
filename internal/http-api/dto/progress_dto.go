package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

type UpdateProgressRequest struct {
	NovelID       int64 `json:"novel_id" binding:"required,gt=0"`
	LastChapterID int64 `json:"last_chapter_id" binding:"required,gt=0"`
}

type ProgressResponse struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	NovelID       int64     `json:"novel_id"`
	LastChapterID int64     `json:"last_chapter_id"`
	LastReadAt    time.Time `json:"last_read_at"`
	IsFavorite    bool      `json:"is_favorite"`
}

func FromModelToProgressResponse(progress *models.ReadingProgress) *ProgressResponse {
	return &ProgressResponse{
		ID:            progress.ID,
		UserID:        progress.UserID,
		NovelID:       progress.NovelID,
		LastChapterID: progress.LastChapterID,
		LastReadAt:    progress.LastReadAt,
		IsFavorite:    progress.IsFavorite,
	}
}
