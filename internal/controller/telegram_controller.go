package controller

import (
	"encoding/json"

	"pdf-quiz-bot/internal/pkg/serverutils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
)

type UpdateDispatcher interface {
	Dispatch(update tgbotapi.Update)
}

type ITelegramController interface {
	RegisterRoutes(r fiber.Router)
	Webhook(ctx *fiber.Ctx) error
}

type telegramController struct {
	dispatcher UpdateDispatcher
	secret     string
}

func NewTelegramController(dispatcher UpdateDispatcher, secret string) ITelegramController {
	return &telegramController{dispatcher: dispatcher, secret: secret}
}

func (c *telegramController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/telegram")
	h.Post("/webhook/:secret", serverutils.WebhookSecret(c.secret), c.Webhook)
}

// Webhook queues the update and acknowledges at once; Telegram retries
// anything that is not answered with 200.
func (c *telegramController) Webhook(ctx *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(ctx.Body(), &update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid update payload")
	}

	c.dispatcher.Dispatch(update)
	return ctx.SendStatus(fiber.StatusOK)
}
