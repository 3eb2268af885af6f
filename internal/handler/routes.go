package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/middleware"
	ws "github.com/makeasinger/musicvideo/internal/websocket"
)

// Routes bundles everything the router needs.
type Routes struct {
	Landing     *LandingHandler
	Health      *HealthHandler
	Create      *CreateHandler
	Jobs        *JobsHandler
	Hub         *ws.Hub
	RateLimiter *middleware.RateLimiter
	Limits      config.RateLimitConfig
	StaticDir   string
}

// Register mounts every route on app. Jobs and Hub are optional.
func Register(app *fiber.App, r *Routes) {
	app.Get("/", r.Landing.Index)
	app.Get("/healthz", r.Health.Healthz)
	app.Get("/health", r.Health.Health)

	if r.StaticDir != "" {
		app.Static("/static", r.StaticDir)
	}

	app.Post("/create", r.RateLimiter.CreateLimit(r.Limits.CreatePerHour), r.Create.Create)

	if r.Jobs != nil {
		app.Post("/api/jobs", r.RateLimiter.JobsLimit(r.Limits.JobsPerHour), r.Jobs.Submit)
		app.Get("/api/jobs/:jobId", r.Jobs.Status)
		app.Get("/api/jobs/:jobId/result", r.Jobs.Result)
	}

	if r.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
			r.Hub.HandleConnection(c, c.Params("jobId"))
		}))
	}
}

// ErrorHandler renders unhandled errors with the standard error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
