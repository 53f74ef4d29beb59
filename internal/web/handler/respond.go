package handler

import "github.com/gofiber/fiber/v2"

// Fail writes a JSON error body with the given status code.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
