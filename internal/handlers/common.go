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

// respondError maps a taxonomy error onto the wire format. Internal causes
// never reach the client.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	message := err.Error()
	if kind == apperr.KindInternal {
		message = "Internal server error"
	}
	return c.Status(kind.HTTPStatus()).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    kind.Code(),
		Message: message,
	})
}

// respondDecision turns a guard denial into the matching taxonomy response.
func respondDecision(c *fiber.Ctx, d authz.Decision) error {
	if d.Reason == authz.ReasonUnauthenticated {
		return respondError(c, apperr.Unauthenticated(d.Message))
	}
	return respondError(c, apperr.Forbidden(d.Message))
}

// loadCaller resolves the JWT subject to a stored user. A token whose user no
// longer exists yields an unknown caller, which the guard denies as
// unauthenticated.
func loadCaller(c *fiber.Ctx, users *services.UserService) authz.Caller {
	userID, err := identity.UserID(c)
	if err != nil {
		return authz.Caller{}
	}
	user, err := users.Get(userID)
	if err != nil {
		return authz.Caller{}
	}
	return authz.CallerFor(user)
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid " + param)
	}
	return id, nil
}
