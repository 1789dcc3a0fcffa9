package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/middleware"
	"github.com/tritonlifts/api/internal/session"
)

func currentSession(c *fiber.Ctx) (*session.Session, bool) {
	sess, ok := c.Locals(middleware.LocalSession).(*session.Session)
	return sess, ok && sess != nil
}

func currentUserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals(middleware.LocalUserID).(int64)
	return userID, ok && userID > 0
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired session"})
}
