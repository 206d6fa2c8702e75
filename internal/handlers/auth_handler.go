package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/authz"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/identity"
	"github.com/harshxd2006/Nexus-Ai/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	guard       authz.Guard
	recompute   func(uuid.UUID) error
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService, guard authz.Guard, recompute func(uuid.UUID) error) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, guard: guard, recompute: recompute}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	resp, emailSent, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"user":          resp.User,
		"email_sent":    emailSent,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.authService.Logout(&req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.authService.VerifyEmail(&req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified"})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	sent, err := h.authService.ResendVerification(c.Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Verification code sent", EmailSent: &sent})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	// Always 200: the endpoint must not reveal which emails are registered.
	sent, err := h.authService.ForgotPassword(c.Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "If that email is registered, a reset link is on its way", EmailSent: &sent})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successfully"})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionChangePassword, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.authService.ChangePassword(caller.ID, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}

// DeleteAccount runs the cascade saga and retries aggregates synchronously.
// A failed recompute is reported but does not undo the deletion.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionDeleteAccount, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	stale, err := h.authService.DeleteAccount(caller.ID, req.Password, h.recompute)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.MessageResponse{
		Message:         "Account deleted successfully",
		AggregatesStale: len(stale) > 0,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("authentication required"))
	}
	user, err := h.userService.Get(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.UserResponseFrom(user))
}
