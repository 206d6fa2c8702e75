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

type ToolHandler struct {
	toolService *services.ToolService
	userService *services.UserService
	guard       authz.Guard
}

func NewToolHandler(toolService *services.ToolService, userService *services.UserService, guard authz.Guard) *ToolHandler {
	return &ToolHandler{toolService: toolService, userService: userService, guard: guard}
}

func (h *ToolHandler) Create(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionCreateTool, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.CreateToolRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	tool, err := h.toolService.Create(caller.ID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tool)
}

func (h *ToolHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	tools, total, err := h.toolService.List(&dto.ToolListQuery{
		Category:    c.Query("category"),
		PricingType: c.Query("pricing_type"),
		Search:      c.Query("search"),
		Sort:        c.Query("sort", "rating"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"tools": tools,
		"meta":  dto.ListMeta{Total: total, Limit: limit, Offset: offset},
	})
}

// GetBySlug is the public detail page lookup; it counts a view.
func (h *ToolHandler) GetBySlug(c *fiber.Ctx) error {
	tool, err := h.toolService.GetBySlug(c.Params("slug"), true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tool)
}

func (h *ToolHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	tool, err := h.toolService.GetByID(id, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tool)
}

func (h *ToolHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	owner, err := h.toolService.Owner(id)
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionUpdateTool, owner); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.UpdateToolRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	tool, err := h.toolService.Update(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tool)
}

func (h *ToolHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	owner, err := h.toolService.Owner(id)
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionDeleteTool, owner); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := h.toolService.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool deleted successfully"})
}

func (h *ToolHandler) Upvote(c *fiber.Ctx) error {
	return h.counterAction(c, authz.ActionUpvoteTool, h.toolService.Upvote)
}

func (h *ToolHandler) TrackUsage(c *fiber.Ctx) error {
	return h.counterAction(c, authz.ActionTrackUsage, h.toolService.TrackUsage)
}

func (h *ToolHandler) Favorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionFavoriteTool, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := h.toolService.Favorite(caller.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool favorited"})
}

func (h *ToolHandler) Unfavorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionFavoriteTool, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := h.toolService.Unfavorite(caller.ID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tool unfavorited"})
}

func (h *ToolHandler) ListFavorites(c *fiber.Ctx) error {
	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionReadOwnProfile, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	tools, err := h.toolService.ListFavorites(caller.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tools": tools})
}

func (h *ToolHandler) counterAction(c *fiber.Ctx, action authz.Action, fn func(id uuid.UUID) error) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, action, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := fn(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "OK"})
}
