package handler

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports which providers are configured
type HealthHandler struct {
	services map[string]bool
}

func NewHealthHandler(services map[string]bool) *HealthHandler {
	return &HealthHandler{
		services: services,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"services": h.services,
	})
}
