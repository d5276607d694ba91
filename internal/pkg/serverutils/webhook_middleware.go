package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// WebhookSecret rejects webhook calls whose :secret path segment does not
// match. The secret is part of the URL registered with Telegram.
func WebhookSecret(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		got := ctx.Params("secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid webhook secret"})
		}
		return ctx.Next()
	}
}
