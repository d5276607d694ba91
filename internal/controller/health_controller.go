package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type SessionCounter interface {
	Count() int
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	sessions SessionCounter
	started  time.Time
}

func NewHealthController(sessions SessionCounter) IHealthController {
	return &healthController{sessions: sessions, started: time.Now()}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/healthz", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":   "ok",
		"sessions": c.sessions.Count(),
		"uptime":   time.Since(c.started).Round(time.Second).String(),
	})
}
