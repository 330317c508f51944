package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/middleware"
	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/internal/service"
	"github.com/brandkit/api/pkg/response"
)

const missingFieldsMessage = "Missing required fields: prompt and vibe"

type GenerateHandler struct {
	service   *service.GenerationService
	validator *validator.Validate
}

func NewGenerateHandler(svc *service.GenerationService, v *validator.Validate) *GenerateHandler {
	return &GenerateHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/generate
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, missingFieldsMessage, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, missingFieldsMessage, formatValidationErrors(err))
	}

	identity, err := h.service.Generate(c.UserContext(), middleware.GetUserID(c), &req, nil)
	if err != nil {
		return response.GenerationFailed(c, err)
	}

	return response.OK(c, model.GenerateResponse{
		Success: true,
		Brand:   identity.ToResponse(),
	})
}
