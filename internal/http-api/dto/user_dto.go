package dto

import (
	"time"

	"novelhub/internal/http-api/models"
)

// UpdateUserRequest is a partial patch; only non-nil fields are written.
// Role and is_active changes are restricted to admins at the handler.
type UpdateUserRequest struct {
	Username         *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email            *string `json:"email" binding:"omitempty,email"`
	AvatarURL        *string `json:"avatar_url" binding:"omitempty,url"`
	Bio              *string `json:"bio" binding:"omitempty,max=500"`
	Role             *string `json:"role" binding:"omitempty,oneof=visitor reader author admin"`
	IsActive         *bool   `json:"is_active"`
	TwoFactorEnabled *bool   `json:"two_factor_enabled"`
}

type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	CoinsBalance    float64   `json:"coins_balance"`
	IsActive        bool      `json:"is_active"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
		AvatarURL:       user.AvatarURL,
		Bio:             user.Bio,
		CoinsBalance:    user.CoinsBalance,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// PublicUserResponse hides email and balance; used when a user appears
// inside another resource (reviews, comments).
type PublicUserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func FromModelToPublicUserResponse(user *models.User) *PublicUserResponse {
	return &PublicUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	}
}

type PaginatedUserResponse struct {
	Data       []UserResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedUserResponse(data []UserResponse, total, page, pageSize int) *PaginatedUserResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedUserResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
