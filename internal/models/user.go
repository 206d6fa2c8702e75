package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds credentials, role and moderation state. The password hash and
// the verification/reset secrets are never serialized outward.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        string    `gorm:"size:20;default:'user'" json:"role"`

	// Independent moderation axes: a banned user can still be verified.
	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsBanned   bool `gorm:"default:false" json:"is_banned"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	VerifyCode          *string    `gorm:"size:10" json:"-"`
	VerifyCodeExpiresAt *time.Time `json:"-"`
	ResetTokenHash      *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
