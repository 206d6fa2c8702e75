package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/authz"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/services"
)

// AdminHandler is the moderation panel: user ban/verify, the flagged review
// queue and catalog curation. The route group already requires an admin, but
// every action still goes through the guard.
type AdminHandler struct {
	userService   *services.UserService
	toolService   *services.ToolService
	reviewService *services.ReviewService
	guard         authz.Guard
}

func NewAdminHandler(userService *services.UserService, toolService *services.ToolService, reviewService *services.ReviewService, guard authz.Guard) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		toolService:   toolService,
		reviewService: reviewService,
		guard:         guard,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionListUsers, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	users, total, err := h.userService.List(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
		"meta":  dto.ListMeta{Total: total, Limit: limit, Offset: offset},
	})
}

func (h *AdminHandler) SetBanned(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionBanUser, userID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.BanUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.userService.SetBanned(userID, req.Banned); err != nil {
		return respondError(c, err)
	}

	msg := "User unbanned"
	if req.Banned {
		msg = "User banned"
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

func (h *AdminHandler) VerifyUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionVerifyUser, userID); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := h.userService.VerifyOverride(userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User verified"})
}

func (h *AdminHandler) ListFlaggedReviews(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionListFlagged, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	reviews, total, err := h.reviewService.ListFlagged(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReviewListResponse{
		Reviews: reviews,
		Meta:    dto.ListMeta{Total: total, Limit: limit, Offset: offset},
	})
}

func (h *AdminHandler) ApproveReview(c *fiber.Ctx) error {
	return h.reviewModeration(c, authz.ActionApproveReview, h.reviewService.Approve, "Review approved")
}

func (h *AdminHandler) RejectReview(c *fiber.Ctx) error {
	return h.reviewModeration(c, authz.ActionRejectReview, h.reviewService.Reject, "Review rejected")
}

func (h *AdminHandler) FeatureReview(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionFeatureReview, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.FeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.reviewService.Feature(reviewID, req.Featured); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Review feature flag updated"})
}

func (h *AdminHandler) FeatureTool(c *fiber.Ctx) error {
	toolID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionFeatureTool, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.FeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.toolService.Feature(toolID, req.Featured); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool feature flag updated"})
}

func (h *AdminHandler) VerifyTool(c *fiber.Ctx) error {
	toolID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionVerifyTool, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.FeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.toolService.Verify(toolID, req.Featured); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool verification updated"})
}

func (h *AdminHandler) SetToolStatus(c *fiber.Ctx) error {
	toolID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionSetToolStatus, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.SetToolStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	if err := h.toolService.SetStatus(toolID, req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool status updated"})
}

// DeleteTool is the moderation delete: same cascade as the owner path, but
// reached through the admin override.
func (h *AdminHandler) DeleteTool(c *fiber.Ctx) error {
	toolID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	owner, err := h.toolService.Owner(toolID)
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionDeleteTool, owner); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := h.toolService.Delete(toolID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool deleted"})
}

func (h *AdminHandler) reviewModeration(c *fiber.Ctx, action authz.Action, fn func(id uuid.UUID) error, msg string) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, action, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := fn(reviewID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}
