package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/auth"
)

// AuthHandler handles ForwardAuth verification for the API gateway
type AuthHandler struct {
	authn *auth.Authenticator
}

// NewAuthHandler creates a new auth handler for ForwardAuth verification
func NewAuthHandler(authn *auth.Authenticator) *AuthHandler {
	return &AuthHandler{
		authn: authn,
	}
}

// Verify handles GET /auth/verify, called by the gateway's ForwardAuth.
// Returns 200 with X-User-* headers on success, 401 on failure.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	identity, err := h.authn.AuthenticateHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	c.Set("X-User-Id", identity.UserID)
	c.Set("X-User-Email", identity.Email)
	c.Set("X-User-Name", identity.Name)
	return c.SendStatus(fiber.StatusOK)
}
