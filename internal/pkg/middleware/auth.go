package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/internal/pkg/usercontext"
)

// RequireAuth ensures a resolved identity for API routes and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Not authenticated",
		})
	}
	return c.Next()
}
