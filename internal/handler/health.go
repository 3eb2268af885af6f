package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ServiceStatus reports which optional backends are wired.
type ServiceStatus struct {
	Grok     bool   `json:"grok"`
	Suno     bool   `json:"suno"`
	R2       bool   `json:"r2"`
	Pipeline string `json:"pipeline"`
}

type HealthHandler struct {
	services ServiceStatus
	started  time.Time
}

func NewHealthHandler(services ServiceStatus) *HealthHandler {
	return &HealthHandler{services: services, started: time.Now()}
}

// Healthz handles GET /healthz. It always answers "ok".
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"uptime":   int(time.Since(h.started).Seconds()),
		"services": h.services,
	})
}
