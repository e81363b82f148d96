package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id"`
}

type ModerateCommentRequest struct {
	IsModerated bool `json:"is_moderated"`
}

type CommentResponse struct {
	ID          int64               `json:"id"`
	ChapterID   int64               `json:"chapter_id"`
	UserID      string              `json:"user_id"`
	Content     string              `json:"content"`
	ParentID    *int64              `json:"parent_id,omitempty"`
	IsModerated bool                `json:"is_moderated"`
	User        *PublicUserResponse `json:"user,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:          comment.ID,
		ChapterID:   comment.ChapterID,
		UserID:      comment.UserID,
		Content:     comment.Content,
		ParentID:    comment.ParentID,
		IsModerated: comment.IsModerated,
		CreatedAt:   comment.CreatedAt,
	}
	if comment.User.ID != "" {
		resp.User = FromModelToPublicUserResponse(&comment.User)
	}
	return resp
}

type PaginatedCommentResponse struct {
	Data       []CommentResponse `json:"data"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

func NewPaginatedCommentResponse(data []CommentResponse, total, page, pageSize int) *PaginatedCommentResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedCommentResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
