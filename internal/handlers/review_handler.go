package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/authz"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	userService   *services.UserService
	guard         authz.Guard
}

func NewReviewHandler(reviewService *services.ReviewService, userService *services.UserService, guard authz.Guard) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, userService: userService, guard: guard}
}

// Create handles POST /tools/:id/reviews. A recompute failure after the
// review is stored returns the review with the stale marker set.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	toolID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionCreateReview, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	review, err := h.reviewService.Create(caller.ID, toolID, &req)
	if err != nil {
		if review != nil {
			// Review persisted, aggregates stale; the recompute retry is safe.
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"review":           review,
				"aggregates_stale": true,
			})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) ListForTool(c *fiber.Ctx) error {
	toolID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	reviews, total, err := h.reviewService.ListForTool(toolID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReviewListResponse{
		Reviews: reviews,
		Meta:    dto.ListMeta{Total: total, Limit: limit, Offset: offset},
	})
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	author, err := h.reviewService.Author(reviewID)
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionUpdateReview, author); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	review, err := h.reviewService.Update(reviewID, &req)
	if err != nil {
		if review != nil {
			return c.JSON(fiber.Map{"review": review, "aggregates_stale": true})
		}
		return respondError(c, err)
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	author, err := h.reviewService.Author(reviewID)
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionDeleteReview, author); !d.Allowed {
		return respondDecision(c, d)
	}

	if err := h.reviewService.Delete(reviewID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Review deleted successfully"})
}

// Vote handles POST /reviews/:id/votes.
func (h *ReviewHandler) Vote(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionVoteReview, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if err := h.reviewService.Vote(reviewID, req.Helpful); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Vote recorded"})
}

// Unvote handles DELETE /reviews/:id/votes. Removing a vote from a zero
// counter is a no-op.
func (h *ReviewHandler) Unvote(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionVoteReview, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	helpful := c.Query("helpful", "true") == "true"
	if err := h.reviewService.Unvote(reviewID, helpful); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Vote removed"})
}

// Flag handles POST /reviews/:id/flag.
func (h *ReviewHandler) Flag(c *fiber.Ctx) error {
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	caller := loadCaller(c, h.userService)
	if d := h.guard.Authorize(caller, authz.ActionFlagReview, caller.ID); !d.Allowed {
		return respondDecision(c, d)
	}

	var req dto.FlagReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	if err := h.reviewService.Flag(reviewID, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Review flagged for moderation"})
}
