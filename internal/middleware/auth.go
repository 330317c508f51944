package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/auth"
	"github.com/brandkit/api/pkg/response"
)

const (
	localUserID = "userId"
	localEmail  = "email"
	localName   = "name"
)

// AuthMiddleware handles bearer token authentication
type AuthMiddleware struct {
	authn *auth.Authenticator
}

// NewAuthMiddleware creates auth middleware backed by an authenticator
func NewAuthMiddleware(authn *auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authn: authn,
	}
}

// Authenticate validates the bearer token from the Authorization header
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := m.authn.AuthenticateHeader(c.Get(fiber.HeaderAuthorization))
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			return response.Unauthorized(c, "Missing authorization header")
		case errors.Is(err, auth.ErrNotConfigured):
			return response.Unauthorized(c, "Authentication not configured")
		case err != nil:
			return response.Unauthorized(c, "Invalid or expired token")
		}

		setIdentity(c, identity)
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, identity *auth.Identity) {
	c.Locals(localUserID, identity.UserID)
	c.Locals(localEmail, identity.Email)
	c.Locals(localName, identity.Name)
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(localUserID).(string); ok {
		return userID
	}
	return ""
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals(localEmail).(string); ok {
		return email
	}
	return ""
}

// AuthenticateWebSocket is Authenticate for upgrade requests, which
// cannot carry headers from browsers. The token may be passed in the
// access_token query parameter instead.
func (m *AuthMiddleware) AuthenticateWebSocket() fiber.Handler {
	next := m.Authenticate()
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			if token := c.Query("access_token"); token != "" {
				c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
			}
		}
		return next(c)
	}
}
