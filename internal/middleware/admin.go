package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/config"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/identity"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"gorm.io/gorm"
)

// AdminRequired gates the admin surface. It checks the config-based admin
// email list first, then the user's DB role. The per-action decision still
// goes through the authorization guard; this middleware only keeps
// non-admins out of the admin route group.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		userID, err := identity.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Code: apperr.KindUnauthenticated.Code(), Message: "Unauthorized",
			})
		}

		if contains(adminEmails, identity.Email(c)) {
			return c.Next()
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err == nil && user.IsAdmin() {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Code: apperr.KindForbidden.Code(), Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
