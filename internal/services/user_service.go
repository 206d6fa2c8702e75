package services

import (
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get loads a user by ID.
func (s *UserService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}
	return &user, nil
}

// UpdateProfile changes the caller's display name.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if err := s.db.Model(&user).Update("display_name", req.DisplayName).Error; err != nil {
		return nil, apperr.Internal("failed to update profile", err)
	}
	user.DisplayName = req.DisplayName
	return &user, nil
}

// List pages through all users (admin action).
func (s *UserService) List(limit, offset int) ([]dto.UserResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to count users", err)
	}

	var users []models.User
	if err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}

	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = UserResponseFrom(&users[i])
	}
	return out, total, nil
}

// SetBanned flips the banned axis. Ban and unban are the only transitions,
// and only an admin reaches this.
func (s *UserService) SetBanned(userID uuid.UUID, banned bool) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("is_banned", banned)
	if res.Error != nil {
		return apperr.Internal("failed to update ban state", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// VerifyOverride marks a user verified without an OTP (admin action). The
// pending code, if any, is discarded.
func (s *UserService) VerifyOverride(userID uuid.UUID) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_verified":            true,
			"verify_code":            nil,
			"verify_code_expires_at": nil,
		})
	if res.Error != nil {
		return apperr.Internal("failed to verify user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
