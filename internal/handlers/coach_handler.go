package handlers

import (
	"context"
	"errors"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/coach"
	"github.com/tritonlifts/api/internal/middleware"
	"github.com/tritonlifts/api/internal/models"
	coachws "github.com/tritonlifts/api/internal/websocket"
)

type coachService interface {
	Ask(ctx context.Context, userID int64, question string) (coach.Answer, error)
	Heatmap(ctx context.Context, userID int64) coach.HeatmapResult
	History(ctx context.Context, userID int64, limit, offset int) ([]models.ChatExchange, int, error)
}

type CoachHandler struct {
	service        coachService
	hub            *coachws.Hub
	revealInterval time.Duration
}

type askRequest struct {
	Question string `json:"question"`
}

func NewCoachHandler(service coachService, hub *coachws.Hub, revealInterval time.Duration) *CoachHandler {
	return &CoachHandler{
		service:        service,
		hub:            hub,
		revealInterval: revealInterval,
	}
}

// Ask always answers 200 once the question is present; Failed in the body
// marks a fallback text.
func (h *CoachHandler) Ask(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	answer, err := h.service.Ask(c.UserContext(), userID, req.Question)
	if err != nil {
		if errors.Is(err, coach.ErrBlankQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question is required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process question"})
	}

	return c.JSON(fiber.Map{"answer": answer})
}

func (h *CoachHandler) Heatmap(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	return c.JSON(fiber.Map{"heatmap": h.service.Heatmap(c.UserContext(), userID)})
}

func (h *CoachHandler) History(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	page, limit := pageParams(c)
	exchanges, total, err := h.service.History(c.UserContext(), userID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     "Failed to fetch chat history. Please try again.",
			"exchanges": []models.ChatExchange{},
		})
	}

	return c.JSON(fiber.Map{
		"exchanges":  exchanges,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CoachHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}
	return c.Next()
}

func (h *CoachHandler) HandleWebSocket(conn *websocket.Conn) {
	sessionID, _ := conn.Locals(middleware.LocalSessionID).(string)
	userID, _ := conn.Locals(middleware.LocalUserID).(int64)

	client := coachws.NewClient(context.Background(), h.hub, conn, sessionID, userID)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.WritePump()
	client.ReadPump(h.service, h.revealInterval)
}
