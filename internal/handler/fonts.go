package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/fonts"
	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/pkg/response"
)

type FontsHandler struct {
	catalog *fonts.Catalog
}

func NewFontsHandler(catalog *fonts.Catalog) *FontsHandler {
	return &FontsHandler{
		catalog: catalog,
	}
}

// List handles GET /api/fonts/:vibe
func (h *FontsHandler) List(c *fiber.Ctx) error {
	vibe := c.Params("vibe")

	names, err := h.catalog.ForVibe(vibe)
	if err != nil {
		return response.ValidationError(c, "No fonts found for vibe", vibe)
	}

	return response.OK(c, model.FontListResponse{
		Vibe:  vibe,
		Fonts: names,
	})
}

// Vibes handles GET /api/fonts
func (h *FontsHandler) Vibes(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{"vibes": h.catalog.Vibes()})
}
