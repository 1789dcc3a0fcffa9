package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/services"
	"github.com/tritonlifts/api/internal/session"
)

type authService interface {
	Login(ctx context.Context, email string) (*session.Session, *models.User, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

// sessionCloser closes live sockets bound to a session.
type sessionCloser interface {
	CloseSession(sessionID string)
}

type AuthHandler struct {
	service authService
	sockets sessionCloser
}

type loginRequest struct {
	Email string `json:"email"`
}

func NewAuthHandler(service authService, sockets sessionCloser) *AuthHandler {
	return &AuthHandler{
		service: service,
		sockets: sockets,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sess, user, err := h.service.Login(c.UserContext(), req.Email)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":      sess.ID,
		"expires_at": sess.ExpiresAt,
		"user":       user,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, ok := currentSession(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.service.Logout(c.UserContext(), sess.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to end session"})
	}
	if h.sockets != nil {
		h.sockets.CloseSession(sess.ID)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.service.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

func mapAuthError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found. Please sign up or try another email."})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to lookup user"})
	}
}
