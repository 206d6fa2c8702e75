package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/config"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mailer is the outbound email capability. Failures to send are reported but
// never revert persisted state.
type Mailer interface {
	PublishVerification(ctx context.Context, to, code string) error
	PublishPasswordReset(ctx context.Context, to, token string) error
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer Mailer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, mailer Mailer) *AuthService {
	return &AuthService{db: db, cfg: cfg, mailer: mailer}
}

// Register creates an account and sends a verification code. The returned
// bool reports whether the mail event was published.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	email := normalizeEmail(req.Email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, false, apperr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, apperr.Internal("failed to hash password", err)
	}

	code := generateVerifyCode()
	expiry := time.Now().Add(s.cfg.VerifyCodeExpiry)

	user := models.User{
		ID:                  uuid.New(),
		DisplayName:         strings.TrimSpace(req.DisplayName),
		Email:               email,
		Password:            string(hash),
		Role:                models.RoleUser,
		IsActive:            true,
		VerifyCode:          &code,
		VerifyCodeExpiresAt: &expiry,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Covers both a registration race and a soft-deleted account still
		// holding the address: the unique email index fires either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apperr.Conflict("email already registered")
		}
		return nil, false, apperr.Internal("failed to create user", err)
	}

	emailSent := true
	if err := s.mailer.PublishVerification(ctx, user.Email, code); err != nil {
		emailSent = false
	}

	resp, err := s.generateTokenPair(&user)
	if err != nil {
		return nil, emailSent, err
	}
	return resp, emailSent, nil
}

// Login authenticates by email and password. Banned and inactive users may
// still log in; the authorization guard denies their mutations.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	return s.generateTokenPair(&user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, apperr.Unauthenticated("invalid or expired refresh token")
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, apperr.Unauthenticated("invalid or expired refresh token")
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, apperr.Unauthenticated("invalid or expired refresh token")
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	err := s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
	if err != nil {
		return apperr.Internal("failed to logout", err)
	}
	return nil
}

// VerifyEmail confirms ownership of an email address with a one-time code.
// The code is single-use: it is cleared on success.
func (s *AuthService) VerifyEmail(req *dto.VerifyEmailRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return apperr.NotFound("user not found")
	}

	if user.IsVerified {
		return nil
	}
	if user.VerifyCode == nil || user.VerifyCodeExpiresAt == nil {
		return apperr.Validation("no verification code pending")
	}
	if time.Now().After(*user.VerifyCodeExpiresAt) {
		return apperr.Validation("verification code expired")
	}
	if *user.VerifyCode != req.Code {
		return apperr.Validation("incorrect verification code")
	}

	err := s.db.Model(&user).Updates(map[string]interface{}{
		"is_verified":            true,
		"verify_code":            nil,
		"verify_code_expires_at": nil,
	}).Error
	if err != nil {
		return apperr.Internal("failed to verify user", err)
	}
	return nil
}

// ResendVerification issues a fresh code for an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (bool, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return false, apperr.NotFound("user not found")
	}
	if user.IsVerified {
		return false, apperr.Validation("account is already verified")
	}

	code := generateVerifyCode()
	expiry := time.Now().Add(s.cfg.VerifyCodeExpiry)
	err := s.db.Model(&user).Updates(map[string]interface{}{
		"verify_code":            code,
		"verify_code_expires_at": expiry,
	}).Error
	if err != nil {
		return false, apperr.Internal("failed to store verification code", err)
	}

	if err := s.mailer.PublishVerification(ctx, user.Email, code); err != nil {
		return false, nil
	}
	return true, nil
}

// ForgotPassword stores a hashed reset token and emails the raw token. It
// reports success even for unknown emails so the endpoint cannot be used to
// probe registrations.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return false, nil
	}

	raw, err := randomToken()
	if err != nil {
		return false, apperr.Internal("failed to generate reset token", err)
	}
	hash := hashToken(raw)
	expiry := time.Now().Add(s.cfg.ResetTokenExpiry)

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"reset_token_hash":       hash,
		"reset_token_expires_at": expiry,
	}).Error
	if err != nil {
		return false, apperr.Internal("failed to store reset token", err)
	}

	if err := s.mailer.PublishPasswordReset(ctx, user.Email, raw); err != nil {
		return false, nil
	}
	return true, nil
}

// ResetPassword redeems a reset token. All refresh tokens are revoked so
// stolen sessions die with the old password.
func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("reset_token_hash = ?", hashToken(req.Token)).First(&user).Error; err != nil {
		return apperr.Validation("invalid or expired reset token")
	}
	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return apperr.Validation("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	return s.txInternal(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"password":               string(hash),
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", user.ID).
			Update("revoked", true).Error
	}, "failed to reset password")
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return apperr.NotFound("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperr.Unauthenticated("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	if err := s.db.Model(&user).Update("password", string(hash)).Error; err != nil {
		return apperr.Internal("failed to change password", err)
	}
	return nil
}

// DeleteAccount removes the user and everything hanging off them in one
// transaction: their reviews go, their authored tools lose their creator
// reference, their favorites and sessions go. Affected tools' aggregates are
// recomputed after commit; the returned slice names tools whose recompute
// failed and needs an idempotent retry.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string, recompute func(uuid.UUID) error) ([]uuid.UUID, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if password == "" {
		return nil, apperr.Validation("password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("incorrect password")
	}

	var affected []uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Tools touched by this user's reviews need fresh aggregates.
		if err := tx.Model(&models.Review{}).
			Where("author_id = ?", userID).
			Distinct().Pluck("tool_id", &affected).Error; err != nil {
			return err
		}

		if err := tx.Where("author_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Tool{}).
			Where("creator_id = ?", userID).
			Update("creator_id", nil).Error; err != nil {
			return err
		}

		var favorited []uuid.UUID
		if err := tx.Model(&models.UserFavorite{}).
			Where("user_id = ?", userID).
			Pluck("tool_id", &favorited).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserFavorite{}).Error; err != nil {
			return err
		}
		for _, toolID := range favorited {
			if err := tx.Exec(
				`UPDATE tools SET favorite_count = (SELECT COUNT(*) FROM user_favorites WHERE tool_id = ?) WHERE id = ?`,
				toolID, toolID,
			).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, apperr.Internal("failed to delete account", err)
	}

	var stale []uuid.UUID
	for _, toolID := range affected {
		if err := recompute(toolID); err != nil {
			slog.Error("aggregate recompute failed after account deletion",
				"tool_id", toolID, "error", err)
			stale = append(stale, toolID)
		}
	}
	return stale, nil
}

// GetUser loads a user by ID.
func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}
	return &user, nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         UserResponseFrom(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"type":  "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apperr.Internal("failed to sign access token", err)
	}
	return signed, nil
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	raw, err := randomToken()
	if err != nil {
		return "", apperr.Internal("failed to generate refresh token", err)
	}

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", apperr.Internal("failed to store refresh token", err)
	}
	return raw, nil
}

func (s *AuthService) txInternal(fn func(tx *gorm.DB) error, msg string) error {
	if err := s.db.Transaction(fn); err != nil {
		return apperr.Internal(msg, err)
	}
	return nil
}

// UserResponseFrom strips the fields that never leave the server.
func UserResponseFrom(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		IsBanned:    u.IsBanned,
		IsActive:    u.IsActive,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func randomToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func generateVerifyCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
