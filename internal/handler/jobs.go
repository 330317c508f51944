package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/middleware"
	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/internal/service"
	"github.com/brandkit/api/pkg/response"
)

type JobsHandler struct {
	service   *service.JobService
	validator *validator.Validate
}

func NewJobsHandler(svc *service.JobService, v *validator.Validate) *JobsHandler {
	return &JobsHandler{
		service:   svc,
		validator: v,
	}
}

// Start handles POST /api/generate/jobs
func (h *JobsHandler) Start(c *fiber.Ctx) error {
	var req model.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, missingFieldsMessage, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, missingFieldsMessage, formatValidationErrors(err))
	}

	result, err := h.service.Start(c.UserContext(), middleware.GetUserID(c), &req)
	if err != nil {
		return response.ServiceError(c, "Failed to queue generation")
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/generate/jobs/:jobId
func (h *JobsHandler) Status(c *fiber.Ctx) error {
	result, err := h.service.GetStatus(c.UserContext(), middleware.GetUserID(c), c.Params("jobId"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, "Failed to load job")
	}

	return response.OK(c, result)
}
