package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/harshxd2006/Nexus-Ai/internal/database"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/mail"
)

type HealthHandler struct {
	mailer *mail.Publisher
}

func NewHealthHandler(mailer *mail.Publisher) *HealthHandler {
	return &HealthHandler{mailer: mailer}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	mailStatus := "ok"
	if err := h.mailer.Ping(); err != nil {
		mailStatus = "unreachable"
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Mail:      mailStatus,
	})
}
