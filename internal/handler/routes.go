package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/config"
	"github.com/brandkit/api/internal/middleware"
)

// Routes groups the handlers mounted by the server. Jobs and WebSocket
// are optional; without them the async endpoints are not registered.
type Routes struct {
	Generate  *GenerateHandler
	Brands    *BrandHandler
	Fonts     *FontsHandler
	Jobs      *JobsHandler
	WebSocket *WebSocketHandler
	Auth      *AuthHandler
	Health    *HealthHandler
	Metrics   fiber.Handler
}

// Register mounts every route on app. apiAuth guards /api, wsAuth guards /ws.
func (r *Routes) Register(app *fiber.App, apiAuth, wsAuth fiber.Handler, limiter *middleware.RateLimiter, limits config.RateLimitConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})
	app.Get("/health", r.Health.Health)
	if r.Metrics != nil {
		app.Get("/metrics", r.Metrics)
	}

	// ForwardAuth verification endpoint (internal, called by the gateway)
	app.Get("/auth/verify", r.Auth.Verify)

	api := app.Group("/api", apiAuth)

	api.Post("/generate", limiter.GenerateLimit(limits.GeneratePerHour), r.Generate.Generate)
	if r.Jobs != nil {
		api.Post("/generate/jobs", limiter.JobsLimit(limits.JobsPerHour), r.Jobs.Start)
		api.Get("/generate/jobs/:jobId", r.Jobs.Status)
	}

	brands := api.Group("/brands")
	brands.Get("/", r.Brands.List)
	brands.Get("/:id", r.Brands.Get)

	fontRoutes := api.Group("/fonts")
	fontRoutes.Get("/", r.Fonts.Vibes)
	fontRoutes.Get("/:vibe", r.Fonts.List)

	if r.WebSocket != nil {
		app.Get("/ws/jobs/:jobId", wsAuth, r.WebSocket.Upgrade, r.WebSocket.Serve())
	}
}
