package handler

import (
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/middleware"
	"github.com/brandkit/api/internal/service"
	ws "github.com/brandkit/api/internal/websocket"
	"github.com/brandkit/api/pkg/response"
)

// WebSocketHandler streams job progress to the job's owner
type WebSocketHandler struct {
	jobs *service.JobService
	hub  *ws.Hub
}

func NewWebSocketHandler(jobs *service.JobService, hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		jobs: jobs,
		hub:  hub,
	}
}

// Upgrade rejects non-upgrade requests and jobs the caller does not own
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	if _, err := h.jobs.GetStatus(c.UserContext(), middleware.GetUserID(c), c.Params("jobId")); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, "Failed to load job")
	}

	return c.Next()
}

// Serve handles GET /ws/jobs/:jobId
func (h *WebSocketHandler) Serve() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.hub.HandleConnection(c, c.Params("jobId"))
	})
}
