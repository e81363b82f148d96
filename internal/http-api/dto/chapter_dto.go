package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

type CreateChapterRequest struct {
	Title    string  `json:"title" binding:"required,min=1,max=200"`
	Content  string  `json:"content" binding:"required,min=10"`
	CoinCost float64 `json:"coin_cost" binding:"gte=0"`
	IsFree   *bool   `json:"is_free"`
}

type UpdateChapterRequest struct {
	Title    *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Content  *string  `json:"content" binding:"omitempty,min=10"`
	Status   *string  `json:"status" binding:"omitempty,oneof=draft published locked"`
	CoinCost *float64 `json:"coin_cost" binding:"omitempty,gte=0"`
	IsFree   *bool    `json:"is_free"`
}

// ChapterResponse is the listing shape; content is delivered only
// through the entitlement-gated content endpoint.
type ChapterResponse struct {
	ID            int64     `json:"id"`
	NovelID       int64     `json:"novel_id"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	CoinCost      float64   `json:"coin_cost"`
	WordCount     int       `json:"word_count"`
	Views         int       `json:"views"`
	IsFree        bool      `json:"is_free"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModelToChapterResponse(chapter *models.Chapter) *ChapterResponse {
	return &ChapterResponse{
		ID:            chapter.ID,
		NovelID:       chapter.NovelID,
		ChapterNumber: chapter.ChapterNumber,
		Title:         chapter.Title,
		Status:        chapter.Status,
		CoinCost:      chapter.CoinCost,
		WordCount:     chapter.WordCount,
		Views:         chapter.Views,
		IsFree:        chapter.IsFree,
		CreatedAt:     chapter.CreatedAt,
		UpdatedAt:     chapter.UpdatedAt,
	}
}

type ChapterContentResponse struct {
	ID            int64  `json:"id"`
	NovelID       int64  `json:"novel_id"`
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	WordCount     int    `json:"word_count"`
}

type PaginatedChapterResponse struct {
	Data       []ChapterResponse `json:"data"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

func NewPaginatedChapterResponse(data []ChapterResponse, total, page, pageSize int) *PaginatedChapterResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedChapterResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
