package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/model"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func Error(c *fiber.Ctx, status int, message, details string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func ValidationError(c *fiber.Ctx, message, details string) error {
	return Error(c, fiber.StatusBadRequest, message, details)
}

func Unauthorized(c *fiber.Ctx, details string) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized", details)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message, "")
}

func RateLimited(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, "Rate limit exceeded", "")
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message, "")
}

// GenerationFailed writes a pipeline error. The wrapped cause never
// reaches the client.
func GenerationFailed(c *fiber.Ctx, err error) error {
	var gerr *model.GenerationError
	if !errors.As(err, &gerr) {
		return ServiceError(c, "Failed to generate brand identity")
	}
	return Error(c, gerr.HTTPStatus(), gerr.Message(), gerr.Details())
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Accepted(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusAccepted).JSON(data)
}

