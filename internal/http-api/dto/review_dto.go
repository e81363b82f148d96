package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

type CreateReviewRequest struct {
	Rating     int     `json:"rating" binding:"required,min=1,max=5"`
	ReviewText *string `json:"review_text" binding:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID         int64               `json:"id"`
	NovelID    int64               `json:"novel_id"`
	UserID     string              `json:"user_id"`
	Rating     int                 `json:"rating"`
	ReviewText *string             `json:"review_text,omitempty"`
	User       *PublicUserResponse `json:"user,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	resp := &ReviewResponse{
		ID:         review.ID,
		NovelID:    review.NovelID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		ReviewText: review.ReviewText,
		CreatedAt:  review.CreatedAt,
	}
	if review.User.ID != "" {
		resp.User = FromModelToPublicUserResponse(&review.User)
	}
	return resp
}

type PaginatedReviewResponse struct {
	Data       []ReviewResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

func NewPaginatedReviewResponse(data []ReviewResponse, total, page, pageSize int) *PaginatedReviewResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedReviewResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
