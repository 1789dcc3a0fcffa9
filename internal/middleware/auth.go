package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/session"
	"github.com/tritonlifts/api/pkg/utils"
)

const (
	LocalSession   = "session"
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
)

// SessionRequired resolves the bearer token to an open session and stores it
// in the request locals.
func SessionRequired(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		token, ok := utils.BearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		return attachSession(c, store, token)
	}
}

// SessionFromQuery is SessionRequired for websocket upgrades, where browsers
// cannot set headers. It accepts ?token= and falls back to the header.
func SessionFromQuery(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			token, _ = utils.BearerToken(c.Get("Authorization"))
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing session token",
			})
		}

		return attachSession(c, store, token)
	}
}

func attachSession(c *fiber.Ctx, store session.Store, token string) error {
	sess, err := store.Get(c.UserContext(), token)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			logrus.WithError(err).Error("session lookup failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Session store unavailable",
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired session",
		})
	}

	c.Locals(LocalSession, sess)
	c.Locals(LocalUserID, sess.UserID)
	c.Locals(LocalSessionID, sess.ID)

	return c.Next()
}
