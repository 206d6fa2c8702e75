package dto

import (
	"strings"

	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
)

type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.DisplayName) == "" {
		return apperr.Validation("display_name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return apperr.Validation("a valid email is required")
	}
	if len(r.Password) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *VerifyEmailRequest) Validate() error {
	if r.Email == "" || r.Code == "" {
		return apperr.Validation("email and code are required")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	if r.Token == "" {
		return apperr.Validation("token is required")
	}
	if len(r.NewPassword) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return apperr.Validation("current_password is required")
	}
	if len(r.NewPassword) < 8 {
		return apperr.Validation("new password must be at least 8 characters")
	}
	return nil
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"is_verified"`
	IsBanned    bool      `json:"is_banned"`
	IsActive    bool      `json:"is_active"`
}
