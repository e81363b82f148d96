package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

type CreateNovelRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"required,min=10"`
	CoverURL    *string  `json:"cover_url" binding:"omitempty,url"`
	Genre       string   `json:"genre" binding:"required"`
	Tags        []string `json:"tags"`
}

// UpdateNovelRequest applies a partial-field patch: only non-nil fields
// are written.
type UpdateNovelRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,min=10"`
	CoverURL    *string   `json:"cover_url" binding:"omitempty,url"`
	Status      *string   `json:"status" binding:"omitempty,oneof=draft ongoing completed hiatus"`
	Genre       *string   `json:"genre"`
	Tags        *[]string `json:"tags"`
	IsFeatured  *bool     `json:"is_featured"`
}

type NovelResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CoverURL      *string   `json:"cover_url,omitempty"`
	AuthorID      string    `json:"author_id"`
	Status        string    `json:"status"`
	Genre         string    `json:"genre"`
	Tags          []string  `json:"tags"`
	TotalChapters int       `json:"total_chapters"`
	TotalViews    int       `json:"total_views"`
	TotalLikes    int       `json:"total_likes"`
	AverageRating float64   `json:"average_rating"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModelToNovelResponse(novel *models.Novel) *NovelResponse {
	tags := []string(novel.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &NovelResponse{
		ID:            novel.ID,
		Title:         novel.Title,
		Description:   novel.Description,
		CoverURL:      novel.CoverURL,
		AuthorID:      novel.AuthorID,
		Status:        novel.Status,
		Genre:         novel.Genre,
		Tags:          tags,
		TotalChapters: novel.TotalChapters,
		TotalViews:    novel.TotalViews,
		TotalLikes:    novel.TotalLikes,
		AverageRating: novel.AverageRating,
		IsFeatured:    novel.IsFeatured,
		CreatedAt:     novel.CreatedAt,
		UpdatedAt:     novel.UpdatedAt,
	}
}

type PaginatedNovelResponse struct {
	Data       []NovelResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedNovelResponse(data []NovelResponse, total, page, pageSize int) *PaginatedNovelResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedNovelResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
