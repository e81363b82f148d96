package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Role gates write permissions: only authors and admins may
// publish, only admins may moderate.
const (
	RoleVisitor = "visitor"
	RoleReader  = "reader"
	RoleAuthor  = "author"
	RoleAdmin   = "admin"
)

type User struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role             string    `gorm:"type:user_role;default:'reader';not null" json:"role"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	CoinsBalance     float64   `gorm:"type:decimal(10,2);not null;default:0" json:"coins_balance"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	IsEmailVerified  bool      `gorm:"not null;default:false" json:"is_email_verified"`
	TwoFactorEnabled bool      `gorm:"not null;default:false" json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// CanPublish reports whether the user may create novels and chapters.
func (user *User) CanPublish() bool {
	return user.Role == RoleAuthor || user.Role == RoleAdmin
}
