package session

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsKey = "portal_session"

// Middleware resolves the portal session from the Authorization header and
// stores it in the request locals. Requests without a valid session get a 401.
func Middleware(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		id, found := strings.CutPrefix(header, "Bearer ")
		if !found || id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Sesión requerida",
				"ray_id":  c.Locals("requestid"),
			})
		}

		sess, err := m.Get(c.UserContext(), id)
		if err != nil {
			status := fiber.StatusUnauthorized
			message := "Sesión expirada, inicie sesión nuevamente"
			if !errors.Is(err, ErrNotFound) {
				status = fiber.StatusInternalServerError
				message = "Error interno"
			}
			return c.Status(status).JSON(fiber.Map{
				"message": message,
				"ray_id":  c.Locals("requestid"),
			})
		}

		c.Locals(localsKey, sess)
		return c.Next()
	}
}

// FromCtx returns the session resolved by Middleware, or nil when absent.
func FromCtx(c *fiber.Ctx) *Session {
	sess, _ := c.Locals(localsKey).(*Session)
	return sess
}
