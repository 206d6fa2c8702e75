package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/authz"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	guard       authz.Guard
}

func NewUserHandler(userService *services.UserService, guard authz.Guard) *UserHandler {
	return &UserHandler{userService: userService, guard: guard}
}

// GetPublicProfile exposes only the fields safe for anyone to see.
func (h *UserHandler) GetPublicProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.Get(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"is_verified":  user.IsVerified,
		"created_at":   user.CreatedAt,
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionUpdateProfile, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	user, err := h.userService.UpdateProfile(caller.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(services.UserResponseFrom(user))
}
